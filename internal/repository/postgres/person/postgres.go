package person

import (
	"context"
	"errors"

	"family-dues-go/internal/db"
	"family-dues-go/internal/domain/access"
	persondomain "family-dues-go/internal/domain/person"
	"gorm.io/gorm"
)

var scopeResolvers = map[string]db.ScopeResolver{
	access.KeyRamaID:   db.Column("persons.rama_id"),
	access.KeyFamilyID: db.Column("persons.family_id"),
	access.KeyID:       db.Subquery("persons.family_id", "SELECT family_id FROM users WHERE id = ?"),
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, scope access.Filter) ([]persondomain.Person, error) {
	query, err := db.ApplyScope(r.db.WithContext(ctx), scope, scopeResolvers)
	if err != nil {
		return nil, err
	}

	var persons []persondomain.Person
	if err := query.Order("persons.last_name asc, persons.first_name asc").Find(&persons).Error; err != nil {
		return nil, err
	}
	return persons, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string, scope access.Filter) (*persondomain.Person, error) {
	query, err := db.ApplyScope(r.db.WithContext(ctx), scope, scopeResolvers)
	if err != nil {
		return nil, err
	}

	var person persondomain.Person
	if err := query.Where("persons.id = ?", id).First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, persondomain.ErrPersonNotFound
		}
		return nil, err
	}
	return &person, nil
}

func (r *PostgresRepository) Create(ctx context.Context, person *persondomain.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

func (r *PostgresRepository) Update(ctx context.Context, person *persondomain.Person) error {
	return r.db.WithContext(ctx).Save(person).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&persondomain.Person{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return persondomain.ErrPersonNotFound
	}
	return nil
}
