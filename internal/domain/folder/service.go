package folder

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/actionlog"
	"family-dues-go/pkg/logger"
	"github.com/google/uuid"
)

const (
	folderFilesTable = "folder_files"
	MaxUploadSize    = 10 << 20
	linkTTL          = 15 * time.Minute
)

type Service struct {
	repo    Repository
	users   UserLookup
	storage Storage
	actions actionlog.Recorder
	log     logger.Logger
}

func NewService(repo Repository, users UserLookup, storage Storage, actions actionlog.Recorder, log logger.Logger) *Service {
	return &Service{repo: repo, users: users, storage: storage, actions: actions, log: log}
}

func (s *Service) List(ctx context.Context, session *access.SessionUser) ([]Folder, error) {
	scope, err := access.ApplyRoleFilter(session, nil)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope)
}

// Get returns the folder with a short-lived download link on every file.
func (s *Service) Get(ctx context.Context, session *access.SessionUser, id string) (*Folder, error) {
	scope, err := access.ApplyRoleFilter(session, nil)
	if err != nil {
		return nil, err
	}
	folder, err := s.repo.GetByID(ctx, id, scope)
	if err != nil {
		return nil, err
	}

	for i := range folder.Files {
		link, err := s.storage.PresignGet(ctx, folder.Files[i].ObjectKey, linkTTL)
		if err != nil {
			return nil, err
		}
		folder.Files[i].URL = link
	}
	return folder, nil
}

func (s *Service) Create(ctx context.Context, session *access.SessionUser, input CreateInput) (*Folder, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, ErrUserRequired
	}
	owner, err := s.users.Get(ctx, session, input.UserID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = owner.Name
	}

	folder := Folder{ID: uuid.NewString(), UserID: owner.ID, Name: name, Files: []File{}}
	if err := s.repo.Create(ctx, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// Upload stores the object first and then its row; a failed insert removes
// the object again.
func (s *Service) Upload(ctx context.Context, session *access.SessionUser, folderID string, upload Upload, actor access.Actor) (*File, error) {
	filename := path.Base(strings.ReplaceAll(strings.TrimSpace(upload.Filename), "\\", "/"))
	if filename == "" || filename == "." || filename == "/" {
		return nil, ErrFilenameRequired
	}
	if upload.Size <= 0 {
		return nil, ErrEmptyFile
	}
	if upload.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	scope, err := access.ApplyRoleFilter(session, nil)
	if err != nil {
		return nil, err
	}
	folder, err := s.repo.GetByID(ctx, folderID, scope)
	if err != nil {
		return nil, err
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	file := File{
		ID:          uuid.NewString(),
		FolderID:    folder.ID,
		Filename:    filename,
		ContentType: contentType,
		Size:        upload.Size,
	}
	file.ObjectKey = fmt.Sprintf("folders/%s/%s-%s", folder.ID, file.ID, filename)

	table := folderFilesTable
	err = s.actions.Track(ctx, actionlog.ActionFolderUpload, actor, actionlog.Extra{
		TargetTable: &table,
		TargetID:    &file.ID,
	}, func(ctx context.Context) (actionlog.Metadata, error) {
		if err := s.storage.Put(ctx, file.ObjectKey, contentType, upload.Body, upload.Size); err != nil {
			return nil, err
		}
		if err := s.repo.CreateFile(ctx, &file); err != nil {
			if delErr := s.storage.Delete(ctx, file.ObjectKey); delErr != nil {
				s.log.InternalError("folder.upload: orphan object cleanup failed", delErr, "key", file.ObjectKey)
			}
			return nil, err
		}
		return actionlog.Metadata{"folderId": folder.ID, "filename": filename, "size": upload.Size}, nil
	})
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// DeleteFile removes the object and then its row.
func (s *Service) DeleteFile(ctx context.Context, folderID, fileID string) error {
	file, err := s.repo.GetFile(ctx, folderID, fileID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, file.ObjectKey); err != nil {
		return err
	}
	return s.repo.DeleteFile(ctx, file.ID)
}

// Delete removes every object of the folder and then the folder; file rows
// go with it.
func (s *Service) Delete(ctx context.Context, id string) error {
	folder, err := s.repo.GetByID(ctx, id, nil)
	if err != nil {
		return err
	}
	for _, file := range folder.Files {
		if err := s.storage.Delete(ctx, file.ObjectKey); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, folder.ID)
}
