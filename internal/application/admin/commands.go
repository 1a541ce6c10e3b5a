package admin

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/membergate/membergate/internal/application/access"
	"github.com/membergate/membergate/internal/domain/discount"
	"github.com/membergate/membergate/internal/domain/level"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/domain/payment"
	"github.com/membergate/membergate/internal/shared/biztime"
	"github.com/membergate/membergate/internal/shared/db"
	"github.com/membergate/membergate/internal/shared/goroutine"
	"github.com/membergate/membergate/internal/shared/logger"
	"github.com/membergate/membergate/internal/shared/services/markdown"
)

// Action names.
const (
	ActionAddLevel           = "add-level"
	ActionEditLevel          = "edit-subscription"
	ActionAddSubscription    = "add-subscription"
	ActionEditMember         = "edit-member"
	ActionBulkEdit           = "bulk-edit"
	ActionAddDiscount        = "add-discount"
	ActionEditDiscount       = "edit-discount"
	ActionAddPayment         = "add-payment"
	ActionEditPayment        = "edit-payment"
	ActionRevokeAccess       = "revoke_access"
	ActionActivateMember     = "activate_member"
	ActionCancelMember       = "cancel_member"
	ActionDeleteLevel        = "delete_subscription"
	ActionActivateLevel      = "activate_subscription"
	ActionDeactivateLevel    = "deactivate_subscription"
	ActionDeleteDiscount     = "delete_discount"
	ActionActivateDiscount   = "activate_discount"
	ActionDeactivateDiscount = "deactivate_discount"
	ActionDeletePayment      = "delete_payment"
)

// Anti-forgery token actions and the field a token travels in.
const (
	NonceBulkEdit       = "rcp_bulk_edit_nonce"
	NonceDeletePayment  = "rcp_delete_payment_nonce"
	NonceMemberAction   = "rcp_member_action"
	NonceLevelAction    = "rcp_level_action"
	NonceDiscountAction = "rcp_discount_action"
	NonceField          = "_nonce"
)

// ExpirationNone is the expiration value meaning "never expires".
const ExpirationNone = "none"

const notificationTimeout = 30 * time.Second

// ProfileCanceller stops recurring billing for a member at its gateway.
type ProfileCanceller interface {
	Execute(ctx context.Context, m *member.Member) error
}

// EarningsInvalidator drops the cached earnings totals.
type EarningsInvalidator interface {
	Invalidate(ctx context.Context) error
}

type MemberNotifier interface {
	NotifySubscriptionCancelled(ctx context.Context, m *member.Member, levelName string) error
}

// Deps are the collaborators shared by the admin commands.
type Deps struct {
	Members    member.Repository
	Levels     level.Repository
	Discounts  discount.Repository
	Payments   payment.Repository
	Authorizer *access.Authorizer
	Tx         db.Transactor
	Earnings   EarningsInvalidator
	Profiles   ProfileCanceller
	Notifier   MemberNotifier
	Formatter  markdown.Formatter
	Logger     logger.Interface
	// Clock defaults to biztime.NowUTC.
	Clock func() time.Time
	// NewKey defaults to random UUIDs.
	NewKey func() string
}

// Commands holds the handlers for every admin action.
type Commands struct {
	Deps
}

// NewCommands fills in the clock and key generator when deps leaves them nil.
func NewCommands(deps Deps) *Commands {
	if deps.Clock == nil {
		deps.Clock = biztime.NowUTC
	}
	if deps.NewKey == nil {
		deps.NewKey = uuid.NewString
	}
	if deps.Formatter == nil {
		deps.Formatter = markdown.NewFormatter()
	}
	return &Commands{Deps: deps}
}

// All returns the command table.
func (c *Commands) All() []Command {
	var all []Command
	all = append(all, c.levelCommands()...)
	all = append(all, c.memberCommands()...)
	all = append(all, c.discountCommands()...)
	all = append(all, c.paymentCommands()...)
	return all
}

// idInput is the input of single-item actions.
type idInput struct {
	ID uint `form:"id" validate:"required"`
}

func (c *Commands) invalidateEarnings(ctx context.Context) {
	if c.Earnings == nil {
		return
	}
	if err := c.Earnings.Invalidate(ctx); err != nil {
		c.Logger.Warnw("failed to invalidate earnings cache", "error", err)
	}
}

func (c *Commands) notifyCancelled(members []*member.Member, levelName string) {
	if c.Notifier == nil || len(members) == 0 {
		return
	}
	goroutine.SafeGo(c.Logger, "subscription-cancelled-notification", func() {
		for _, m := range members {
			ctx, cancel := context.WithTimeout(context.Background(), notificationTimeout)
			if err := c.Notifier.NotifySubscriptionCancelled(ctx, m, levelName); err != nil {
				c.Logger.Warnw("failed to send subscription cancelled notification", "error", err, "member_id", m.ID())
			}
			cancel()
		}
	})
}
