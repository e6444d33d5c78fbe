package handler

import (
	"errors"
	"net/http"

	"family-dues-go/internal/apperr"
	"family-dues-go/internal/domain/access"
	folderdomain "family-dues-go/internal/domain/folder"
)

// multipartOverhead leaves room for the form boundaries around the file part.
const multipartOverhead = 1 << 20

type createFolderRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Name   string `json:"name" validate:"omitempty,max=200"`
}

func (h *Handlers) ListFolders(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "folders.list", err)
		return
	}

	folders, err := h.Folders.List(r.Context(), session)
	if err != nil {
		h.fail(w, r, "folders.list", err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

func (h *Handlers) GetFolder(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "folders.get", err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "folders.get", err)
		return
	}

	folder, err := h.Folders.Get(r.Context(), session, id)
	if err != nil {
		h.fail(w, r, "folders.get", err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

func (h *Handlers) CreateFolder(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "folders.create", err)
		return
	}
	var req createFolderRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "folders.create", err)
		return
	}

	folder, err := h.Folders.Create(r.Context(), session, folderdomain.CreateInput{UserID: req.UserID, Name: req.Name})
	if err != nil {
		h.fail(w, r, "folders.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

// UploadFile expects a multipart form with the document in the "file" field.
func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)
	if err != nil {
		h.fail(w, r, "folders.upload", err)
		return
	}
	folderID, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "folders.upload", err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, folderdomain.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(folderdomain.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, "folders.upload", folderdomain.ErrFileTooLarge)
			return
		}
		h.fail(w, r, "folders.upload", apperr.BadRequest("formulario multipart inválido"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, "folders.upload", apperr.BadRequest("falta el archivo en el campo file"))
		return
	}
	defer file.Close()

	stored, err := h.Folders.Upload(r.Context(), session, folderID, folderdomain.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, access.ActorFromSession(session))
	if err != nil {
		h.fail(w, r, "folders.upload", err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (h *Handlers) DeleteFile(w http.ResponseWriter, r *http.Request) {
	folderID, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "folders.delete_file", err)
		return
	}
	fileID, err := pathID(r, "fileID")
	if err != nil {
		h.fail(w, r, "folders.delete_file", err)
		return
	}

	if err := h.Folders.DeleteFile(r.Context(), folderID, fileID); err != nil {
		h.fail(w, r, "folders.delete_file", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "folders.delete", err)
		return
	}

	if err := h.Folders.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "folders.delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
