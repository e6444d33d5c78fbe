package folder

import (
	"context"
	"errors"

	"family-dues-go/internal/db"
	"family-dues-go/internal/domain/access"
	folderdomain "family-dues-go/internal/domain/folder"
	"gorm.io/gorm"
)

var scopeResolvers = map[string]db.ScopeResolver{
	access.KeyID:       db.Column("folders.user_id"),
	access.KeyRamaID:   ownerColumn("rama_id"),
	access.KeyFamilyID: ownerColumn("family_id"),
}

// ownerColumn scopes folders by a column of their owning user; a nil value
// matches owners where the column is NULL.
func ownerColumn(column string) db.ScopeResolver {
	return func(query *gorm.DB, value any) *gorm.DB {
		if value == nil {
			return query.Where("folders.user_id IN (SELECT id FROM users WHERE " + column + " IS NULL)")
		}
		return query.Where("folders.user_id IN (SELECT id FROM users WHERE "+column+" = ?)", value)
	}
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, scope access.Filter) ([]folderdomain.Folder, error) {
	query, err := db.ApplyScope(r.db.WithContext(ctx), scope, scopeResolvers)
	if err != nil {
		return nil, err
	}

	var folders []folderdomain.Folder
	if err := query.Preload("Files").Order("folders.name asc").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string, scope access.Filter) (*folderdomain.Folder, error) {
	query, err := db.ApplyScope(r.db.WithContext(ctx), scope, scopeResolvers)
	if err != nil {
		return nil, err
	}

	var folder folderdomain.Folder
	err = query.Preload("Files", func(db *gorm.DB) *gorm.DB {
		return db.Order("folder_files.created_at asc")
	}).Where("folders.id = ?", id).First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, folderdomain.ErrFolderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *PostgresRepository) Create(ctx context.Context, folder *folderdomain.Folder) error {
	err := r.db.WithContext(ctx).Omit("Files").Create(folder).Error
	if db.IsUniqueViolation(err) {
		return folderdomain.ErrFolderExists
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("folder_id = ?", id).Delete(&folderdomain.File{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&folderdomain.Folder{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return folderdomain.ErrFolderNotFound
		}
		return nil
	})
}

func (r *PostgresRepository) CreateFile(ctx context.Context, file *folderdomain.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *PostgresRepository) GetFile(ctx context.Context, folderID, fileID string) (*folderdomain.File, error) {
	var file folderdomain.File
	if err := r.db.WithContext(ctx).Where("id = ? AND folder_id = ?", fileID, folderID).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, folderdomain.ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *PostgresRepository) DeleteFile(ctx context.Context, fileID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", fileID).Delete(&folderdomain.File{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return folderdomain.ErrFileNotFound
	}
	return nil
}
