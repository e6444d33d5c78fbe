package folder

import (
	"io"
	"time"
)

// Folder holds the documents of one beneficiary user.
type Folder struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Name      string    `gorm:"not null" json:"name"`
	Files     []File    `gorm:"foreignKey:FolderID;references:ID" json:"files"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Folder) TableName() string {
	return "folders"
}

type File struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	FolderID    string    `gorm:"type:uuid;not null" json:"folderId"`
	ObjectKey   string    `gorm:"not null;uniqueIndex" json:"-"`
	Filename    string    `gorm:"not null" json:"filename"`
	ContentType string    `gorm:"not null" json:"contentType"`
	Size        int64     `gorm:"not null" json:"size"`
	URL         string    `gorm:"-" json:"url,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (File) TableName() string {
	return "folder_files"
}

type CreateInput struct {
	UserID string
	Name   string
}

// Upload is one file received from a client. Body is read once.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
