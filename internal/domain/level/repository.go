package level

import "context"

type Repository interface {
	Create(ctx context.Context, l *Level) error
	Update(ctx context.Context, l *Level) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Level, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Level, error)
	// List returns levels ordered by list order; onlyActive filters inactive ones out.
	List(ctx context.Context, onlyActive bool) ([]*Level, error)
}
