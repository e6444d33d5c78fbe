package folder

import (
	"context"
	"io"
	"time"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/user"
)

type Repository interface {
	// List returns folders whose owner matches scope, a role filter over
	// users columns.
	List(ctx context.Context, scope access.Filter) ([]Folder, error)
	GetByID(ctx context.Context, id string, scope access.Filter) (*Folder, error)
	Create(ctx context.Context, folder *Folder) error
	Delete(ctx context.Context, id string) error
	CreateFile(ctx context.Context, file *File) error
	GetFile(ctx context.Context, folderID, fileID string) (*File, error)
	DeleteFile(ctx context.Context, fileID string) error
}

type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type UserLookup interface {
	Get(ctx context.Context, session *access.SessionUser, id string) (*user.User, error)
}
