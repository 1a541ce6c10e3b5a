package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/shared/hooks"
	"github.com/membergate/membergate/internal/shared/logger"
)

// SubscriberFilter may override the subscriber decision for a user id.
type SubscriberFilter = hooks.Filter[bool, uint]

// SubscriberChecker classifies members whose billing is managed by PayPal.
type SubscriberChecker struct {
	members member.Repository
	filters *hooks.Chain[bool, uint]
	logger  logger.Interface
}

// NewSubscriberChecker creates a SubscriberChecker with an empty filter chain.
func NewSubscriberChecker(members member.Repository, logger logger.Interface) *SubscriberChecker {
	return &SubscriberChecker{
		members: members,
		filters: hooks.NewChain[bool, uint](),
		logger:  logger,
	}
}

func (s *SubscriberChecker) AddFilter(priority int, f SubscriberFilter) {
	s.filters.Add(priority, f)
}

// IsPayPalSubscriber looks the member up and applies IsMemberSubscriber.
// Unknown users are not subscribers, though filters still run.
func (s *SubscriberChecker) IsPayPalSubscriber(ctx context.Context, userID uint) (bool, error) {
	if userID == 0 {
		return s.filters.Apply(ctx, false, userID), nil
	}
	m, err := s.members.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return s.filters.Apply(ctx, false, userID), nil
		}
		s.logger.Errorw("failed to load member for subscriber check", "error", err, "user_id", userID)
		return false, fmt.Errorf("failed to load member: %w", err)
	}
	return s.IsMemberSubscriber(ctx, m), nil
}

// IsMemberSubscriber is true when the payment profile id is a PayPal
// recurring profile, or the legacy flag is set, subject to the filters.
func (s *SubscriberChecker) IsMemberSubscriber(ctx context.Context, m *member.Member) bool {
	ret := m.HasPayPalProfile() || m.LegacyPayPalSubscriber()
	return s.filters.Apply(ctx, ret, m.ID())
}
