package payment

import (
	"context"
	"time"
)

// EarningsFilter narrows an earnings sum. Zero values mean "any".
type EarningsFilter struct {
	SubscriptionName string
	UserID           uint
	From             *time.Time
	To               *time.Time
}

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	Update(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Payment, error)
	ListByUser(ctx context.Context, userID uint) ([]*Payment, error)
	// SumEarnings adds up complete payments matching the filter.
	SumEarnings(ctx context.Context, filter EarningsFilter) (int64, error)
}
