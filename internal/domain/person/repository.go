package person

import (
	"context"

	"family-dues-go/internal/domain/access"
)

type Repository interface {
	List(ctx context.Context, scope access.Filter) ([]Person, error)
	GetByID(ctx context.Context, id string, scope access.Filter) (*Person, error)
	Create(ctx context.Context, person *Person) error
	Update(ctx context.Context, person *Person) error
	Delete(ctx context.Context, id string) error
}
