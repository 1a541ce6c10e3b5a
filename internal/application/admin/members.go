package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/membergate/membergate/internal/domain/level"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/domain/permission"
	"github.com/membergate/membergate/internal/shared/biztime"
	apperrors "github.com/membergate/membergate/internal/shared/errors"
	"github.com/membergate/membergate/internal/shared/utils/setutil"
)

// Bulk actions.
const (
	BulkMarkActive    = "mark-active"
	BulkMarkExpired   = "mark-expired"
	BulkMarkCancelled = "mark-cancelled"
	BulkDelete        = "delete"
)

var bulkStatuses = map[string]member.Status{
	BulkMarkActive:    member.StatusActive,
	BulkMarkExpired:   member.StatusExpired,
	BulkMarkCancelled: member.StatusCancelled,
}

// AddSubscriptionInput assigns a level to an existing member.
type AddSubscriptionInput struct {
	User       string  `form:"user" validate:"required"`
	Level      uint    `form:"level" validate:"required"`
	Expiration *string `form:"expiration"`
	Recurring  *string `form:"recurring"`
}

// EditMemberInput edits a member's subscription. Pointer fields are only
// applied when present in the form; recurring and trialing are checkboxes.
type EditMemberInput struct {
	User             uint    `form:"user" validate:"required"`
	Status           *string `form:"status" validate:"omitempty,oneof=active expired cancelled free pending"`
	Level            *uint   `form:"level"`
	Expiration       string  `form:"expiration"`
	Recurring        *string `form:"recurring"`
	Trialing         *string `form:"trialing"`
	SignupMethod     *string `form:"signup_method" validate:"omitempty,oneof=live manual imported"`
	Notes            *string `form:"notes"`
	PaymentProfileID *string `form:"payment-profile-id" validate:"omitempty,max=100"`
}

type BulkEditInput struct {
	Action     string `form:"rcp-bulk-action" validate:"required"`
	MemberIDs  []uint `form:"member-ids"`
	Expiration string `form:"expiration"`
}

func (c *Commands) memberCommands() []Command {
	return []Command{
		&command[AddSubscriptionInput]{
			action:     ActionAddSubscription,
			capability: permission.CapManageMembers,
			invalid: func(*AddSubscriptionInput, error) *Result {
				return message(PageMembers, "user_not_added")
			},
			run: c.addSubscription,
		},
		&command[EditMemberInput]{
			action:     ActionEditMember,
			capability: permission.CapManageMembers,
			run:        c.editMember,
		},
		&command[BulkEditInput]{
			action:      ActionBulkEdit,
			capability:  permission.CapManageMembers,
			nonceAction: NonceBulkEdit,
			nonceField:  NonceBulkEdit,
			run:         c.bulkEdit,
		},
		&command[idInput]{
			action:      ActionRevokeAccess,
			capability:  permission.CapManageMembers,
			nonceAction: NonceMemberAction,
			nonceField:  NonceField,
			run: func(ctx context.Context, _ uint, in *idInput) (*Result, error) {
				return c.setMemberStatus(ctx, in.ID, member.StatusCancelled, "member_revoked")
			},
		},
		&command[idInput]{
			action:      ActionActivateMember,
			capability:  permission.CapManageMembers,
			nonceAction: NonceMemberAction,
			nonceField:  NonceField,
			run: func(ctx context.Context, _ uint, in *idInput) (*Result, error) {
				return c.setMemberStatus(ctx, in.ID, member.StatusActive, "member_activated")
			},
		},
		&command[idInput]{
			action:      ActionCancelMember,
			capability:  permission.CapManageMembers,
			nonceAction: NonceMemberAction,
			nonceField:  NonceField,
			run:         c.cancelMember,
		},
	}
}

// addSubscription rejects an expiration before now, unless it is "none",
// before touching any state.
func (c *Commands) addSubscription(ctx context.Context, _ uint, in *AddSubscriptionInput) (*Result, error) {
	now := c.Clock()

	var expiration *time.Time
	if in.Expiration != nil {
		raw := strings.TrimSpace(*in.Expiration)
		if raw != "" && raw != ExpirationNone {
			t, err := biztime.ParseInput(raw)
			if err != nil || t.Before(now) {
				c.Logger.Infow("subscription rejected: expiration in the past or invalid", "user", in.User, "expiration", raw)
				return message(PageMembers, "user_not_added"), nil
			}
			expiration = &t
		}
	}

	m, err := c.Members.GetByLogin(ctx, strings.TrimSpace(in.User))
	if err != nil {
		if !errors.Is(err, member.ErrMemberNotFound) {
			c.Logger.Errorw("failed to load member", "error", err, "user", in.User)
		}
		return message(PageMembers, "user_not_added"), nil
	}
	newLevel, err := c.Levels.GetByID(ctx, in.Level)
	if err != nil {
		if !errors.Is(err, level.ErrLevelNotFound) {
			c.Logger.Errorw("failed to load level", "error", err, "level_id", in.Level)
		}
		return message(PageMembers, "user_not_added"), nil
	}
	oldLevel, err := c.levelOrNil(ctx, m.LevelID())
	if err != nil {
		return nil, err
	}

	status := member.StatusActive
	if newLevel.IsFree() {
		status = member.StatusFree
	}

	m.SetExpiration(expiration)
	if err := m.SetStatus(status); err != nil {
		return nil, err
	}
	if err := m.SetSignupMethod(member.SignupManual); err != nil {
		return nil, err
	}
	m.AssignLevel(newLevel.ID())
	m.EnsureSubscriptionKey(c.NewKey)
	m.SetRecurring(in.Recurring != nil)

	if err := c.Members.Update(ctx, m); err != nil {
		c.Logger.Errorw("failed to save subscription", "error", err, "member_id", m.ID())
		return message(PageMembers, "user_not_added"), nil
	}
	if err := c.Authorizer.ChangeLevel(ctx, m.ID(), oldLevel, newLevel); err != nil {
		return nil, fmt.Errorf("failed to grant level role: %w", err)
	}

	c.Logger.Infow("subscription added", "member_id", m.ID(), "level_id", newLevel.ID(), "status", status)
	return message(PageMembers, "user_added"), nil
}

func (c *Commands) editMember(ctx context.Context, _ uint, in *EditMemberInput) (*Result, error) {
	m, err := c.Members.GetByID(ctx, in.User)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return nil, apperrors.NewNotFoundError("member not found")
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}

	if raw := strings.TrimSpace(in.Expiration); raw != "" {
		if raw == ExpirationNone {
			m.SetExpiration(nil)
		} else {
			t, err := biztime.ParseInput(raw)
			if err != nil {
				return nil, apperrors.NewValidationError("invalid expiration date", raw)
			}
			end := biztime.EndOfDayUTC(t)
			m.SetExpiration(&end)
		}
	}

	var fromLevel, toLevel *level.Level
	levelChanged := in.Level != nil && *in.Level != m.LevelID()
	if levelChanged {
		if fromLevel, err = c.levelOrNil(ctx, m.LevelID()); err != nil {
			return nil, err
		}
		if toLevel, err = c.levelOrNil(ctx, *in.Level); err != nil {
			return nil, err
		}
		if toLevel == nil && *in.Level != 0 {
			return nil, apperrors.NewValidationError("subscription level not found")
		}
		m.AssignLevel(*in.Level)
	}

	m.SetRecurring(in.Recurring != nil)
	m.SetTrialing(in.Trialing != nil)
	if in.SignupMethod != nil && *in.SignupMethod != "" {
		if err := m.SetSignupMethod(member.SignupMethod(*in.SignupMethod)); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if in.Notes != nil {
		m.SetNotes(c.Formatter.StripTags(*in.Notes))
	}
	if in.Status != nil && *in.Status != "" {
		if err := m.SetStatus(member.Status(*in.Status)); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	if in.PaymentProfileID != nil {
		m.SetPaymentProfileID(*in.PaymentProfileID)
	}

	if err := c.Members.Update(ctx, m); err != nil {
		c.Logger.Errorw("failed to update member", "error", err, "member_id", m.ID())
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	if levelChanged {
		if err := c.Authorizer.ChangeLevel(ctx, m.ID(), fromLevel, toLevel); err != nil {
			return nil, fmt.Errorf("failed to move member grants: %w", err)
		}
	}

	result := message(PageMembers, "user_updated")
	result.Params["edit_member"] = fmt.Sprint(m.ID())
	return result, nil
}

// bulkEdit applies the expiration override and status action to every
// selected member in one transaction.
func (c *Commands) bulkEdit(ctx context.Context, _ uint, in *BulkEditInput) (*Result, error) {
	ids := setutil.NewOrderedUintSet(in.MemberIDs...).ToSlice()
	if len(ids) == 0 {
		return nil, apperrors.NewBadRequestError(MsgSelectMembers)
	}

	var expiration *time.Time
	if raw := strings.TrimSpace(in.Expiration); raw != "" && in.Action != BulkDelete {
		t, err := biztime.ParseInput(raw)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid expiration date", raw)
		}
		expiration = &t
	}
	status, hasStatus := bulkStatuses[in.Action]

	err := c.Tx.RunInTransaction(ctx, func(ctx context.Context) error {
		members, err := c.Members.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to load members: %w", err)
		}
		for _, m := range members {
			if expiration != nil {
				m.SetExpiration(expiration)
			}
			if hasStatus {
				if err := m.SetStatus(status); err != nil {
					return err
				}
			}
			if err := c.Members.Update(ctx, m); err != nil {
				return fmt.Errorf("failed to update member %d: %w", m.ID(), err)
			}
		}
		return nil
	})
	if err != nil {
		c.Logger.Errorw("bulk member edit failed", "error", err, "action", in.Action, "members", len(ids))
		return nil, err
	}

	c.Logger.Infow("members bulk edited", "action", in.Action, "members", len(ids))
	return message(PageMembers, "members_updated"), nil
}

func (c *Commands) setMemberStatus(ctx context.Context, id uint, status member.Status, code string) (*Result, error) {
	m, err := c.loadMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.SetStatus(status); err != nil {
		return nil, err
	}
	if err := c.Members.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update member status: %w", err)
	}
	return message(PageMembers, code), nil
}

// cancelMember stops billing at the gateway, then marks the member cancelled.
// The member keeps access until its expiration.
func (c *Commands) cancelMember(ctx context.Context, _ uint, in *idInput) (*Result, error) {
	m, err := c.loadMember(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if c.Profiles != nil {
		if err := c.Profiles.Execute(ctx, m); err != nil {
			c.Logger.Warnw("failed to cancel payment profile", "error", err, "member_id", m.ID())
			return message(PageMembers, "member_not_cancelled"), nil
		}
	}

	if err := m.SetStatus(member.StatusCancelled); err != nil {
		return nil, err
	}
	m.SetRecurring(false)
	if err := c.Members.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to cancel member: %w", err)
	}

	return message(PageMembers, "member_cancelled"), nil
}

func (c *Commands) loadMember(ctx context.Context, id uint) (*member.Member, error) {
	m, err := c.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return nil, apperrors.NewNotFoundError("member not found")
		}
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	return m, nil
}

// levelOrNil loads a level; id 0 or a deleted level yields nil.
func (c *Commands) levelOrNil(ctx context.Context, id uint) (*level.Level, error) {
	if id == 0 {
		return nil, nil
	}
	l, err := c.Levels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, level.ErrLevelNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load level %d: %w", id, err)
	}
	return l, nil
}
