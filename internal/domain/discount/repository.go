package discount

import "context"

type Repository interface {
	Create(ctx context.Context, d *Discount) error
	Update(ctx context.Context, d *Discount) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Discount, error)
	GetByCode(ctx context.Context, code string) (*Discount, error)
}
