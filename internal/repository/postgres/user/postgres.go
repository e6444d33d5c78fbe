package user

import (
	"context"
	"errors"

	"family-dues-go/internal/db"
	"family-dues-go/internal/domain/access"
	userdomain "family-dues-go/internal/domain/user"
	"gorm.io/gorm"
)

var scopeResolvers = map[string]db.ScopeResolver{
	access.KeyID:       db.Column("users.id"),
	access.KeyRamaID:   db.Column("users.rama_id"),
	access.KeyFamilyID: db.Column("users.family_id"),
	"role":             db.Column("users.role"),
	"is_active":        db.Column("users.is_active"),
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, scope access.Filter) ([]userdomain.User, error) {
	query, err := db.ApplyScope(r.db.WithContext(ctx), scope, scopeResolvers)
	if err != nil {
		return nil, err
	}

	var users []userdomain.User
	if err := query.Order("users.name asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string, scope access.Filter) (*userdomain.User, error) {
	query, err := db.ApplyScope(r.db.WithContext(ctx), scope, scopeResolvers)
	if err != nil {
		return nil, err
	}

	var user userdomain.User
	if err := query.Where("users.id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *userdomain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if db.IsUniqueViolation(err) {
		return userdomain.ErrUsernameTaken
	}
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, user *userdomain.User) error {
	err := r.db.WithContext(ctx).Save(user).Error
	if db.IsUniqueViolation(err) {
		return userdomain.ErrUsernameTaken
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&userdomain.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return userdomain.ErrUserNotFound
	}
	return nil
}
