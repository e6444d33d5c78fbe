package rama

import "context"

type Repository interface {
	List(ctx context.Context) ([]Rama, error)
	GetByID(ctx context.Context, id string) (*Rama, error)
	Create(ctx context.Context, rama *Rama) error
	UpdateName(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}
