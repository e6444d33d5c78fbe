package handler

import (
	"net/http"
)

type ramaRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *Handlers) ListRamas(w http.ResponseWriter, r *http.Request) {
	ramas, err := h.Ramas.List(r.Context())
	if err != nil {
		h.fail(w, r, "ramas.list", err)
		return
	}
	writeJSON(w, http.StatusOK, ramas)
}

func (h *Handlers) GetRama(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "ramas.get", err)
		return
	}

	rama, err := h.Ramas.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "ramas.get", err)
		return
	}
	writeJSON(w, http.StatusOK, rama)
}

func (h *Handlers) CreateRama(w http.ResponseWriter, r *http.Request) {
	var req ramaRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "ramas.create", err)
		return
	}

	rama, err := h.Ramas.Create(r.Context(), req.Name)
	if err != nil {
		h.fail(w, r, "ramas.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, rama)
}

func (h *Handlers) UpdateRama(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "ramas.update", err)
		return
	}
	var req ramaRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, "ramas.update", err)
		return
	}

	rama, err := h.Ramas.Rename(r.Context(), id, req.Name)
	if err != nil {
		h.fail(w, r, "ramas.update", err)
		return
	}
	writeJSON(w, http.StatusOK, rama)
}

func (h *Handlers) DeleteRama(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, "ramas.delete", err)
		return
	}

	if err := h.Ramas.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "ramas.delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
