package member

import "context"

type Repository interface {
	Create(ctx context.Context, m *Member) error
	Update(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uint) (*Member, error)
	GetByLogin(ctx context.Context, login string) (*Member, error)
	// GetByLoginOrEmail resolves the identifier typed into a login form.
	GetByLoginOrEmail(ctx context.Context, identifier string) (*Member, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Member, error)
	ListByLevel(ctx context.Context, levelID uint) ([]*Member, error)
	CountByLevel(ctx context.Context, levelID uint) (int64, error)
}
