package room

import "context"

type Repository interface {
	Create(ctx context.Context, name string) (*Room, error)
	GetAll(ctx context.Context) ([]Room, error)
	GetByID(ctx context.Context, id int) (*Room, error)
	Delete(ctx context.Context, id int) error
}
