package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/membergate/membergate/internal/domain/level"
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/domain/permission"
	apperrors "github.com/membergate/membergate/internal/shared/errors"
	"github.com/membergate/membergate/internal/shared/utils"
)

// LevelInput is the subscription level form.
type LevelInput struct {
	Name         string   `form:"name" validate:"required,max=200"`
	Description  string   `form:"description"`
	Price        string   `form:"price"`
	Fee          string   `form:"fee"`
	Duration     int      `form:"duration" validate:"gte=0"`
	DurationUnit string   `form:"duration_unit" validate:"omitempty,oneof=day month year"`
	AccessLevel  int      `form:"level" validate:"gte=0,lte=10"`
	Role         string   `form:"role" validate:"max=50"`
	Capabilities []string `form:"capabilities"`
	ListOrder    int      `form:"list_order"`
}

func (in *LevelInput) params() (level.LevelParams, error) {
	price, err := utils.ParseAmount(in.Price)
	if err != nil {
		return level.LevelParams{}, fmt.Errorf("%w: %v", level.ErrInvalidPrice, err)
	}
	fee, err := utils.ParseAmount(in.Fee)
	if err != nil {
		return level.LevelParams{}, fmt.Errorf("%w: fee: %v", level.ErrInvalidPrice, err)
	}

	unit := level.DurationUnit(in.DurationUnit)
	if unit == "" {
		unit = level.UnitMonth
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = level.DefaultRole
	}
	levelSlug := slug.Make(in.Name)
	if levelSlug == "" {
		levelSlug = "level"
	}

	return level.LevelParams{
		Name:         in.Name,
		Slug:         levelSlug,
		Description:  in.Description,
		Price:        price,
		Fee:          fee,
		Duration:     in.Duration,
		DurationUnit: unit,
		AccessLevel:  in.AccessLevel,
		Role:         role,
		Capabilities: in.Capabilities,
		ListOrder:    in.ListOrder,
	}, nil
}

type EditLevelInput struct {
	SubscriptionID uint `form:"subscription_id" validate:"required"`
	LevelInput
}

func (c *Commands) levelCommands() []Command {
	return []Command{
		&command[LevelInput]{
			action:     ActionAddLevel,
			capability: permission.CapManageLevels,
			invalid: func(in *LevelInput, _ error) *Result {
				if strings.TrimSpace(in.Name) == "" {
					return message(PageLevels, "level_missing_fields")
				}
				return message(PageLevels, "level_not_added")
			},
			run: c.addLevel,
		},
		&command[EditLevelInput]{
			action:     ActionEditLevel,
			capability: permission.CapManageLevels,
			invalid: func(*EditLevelInput, error) *Result {
				return message(PageLevels, "level_not_updated")
			},
			run: c.editLevel,
		},
		&command[idInput]{
			action:      ActionDeleteLevel,
			capability:  permission.CapManageLevels,
			nonceAction: NonceLevelAction,
			nonceField:  NonceField,
			run:         c.deleteLevel,
		},
		&command[idInput]{
			action:      ActionActivateLevel,
			capability:  permission.CapManageLevels,
			nonceAction: NonceLevelAction,
			nonceField:  NonceField,
			run: func(ctx context.Context, _ uint, in *idInput) (*Result, error) {
				return c.setLevelStatus(ctx, in.ID, true)
			},
		},
		&command[idInput]{
			action:      ActionDeactivateLevel,
			capability:  permission.CapManageLevels,
			nonceAction: NonceLevelAction,
			nonceField:  NonceField,
			run: func(ctx context.Context, _ uint, in *idInput) (*Result, error) {
				return c.setLevelStatus(ctx, in.ID, false)
			},
		},
	}
}

func (c *Commands) addLevel(ctx context.Context, _ uint, in *LevelInput) (*Result, error) {
	params, err := in.params()
	if err != nil {
		c.Logger.Infow("level rejected", "error", err, "name", in.Name)
		return message(PageLevels, "level_not_added"), nil
	}
	l, err := level.NewLevel(params)
	if err != nil {
		c.Logger.Infow("level rejected", "error", err, "name", in.Name)
		return message(PageLevels, "level_not_added"), nil
	}

	if err := c.Levels.Create(ctx, l); err != nil {
		c.Logger.Errorw("failed to create level", "error", err, "name", in.Name)
		return message(PageLevels, "level_not_added"), nil
	}
	if err := c.Authorizer.SyncLevelGrants(ctx, l); err != nil {
		c.Logger.Errorw("failed to grant level capabilities", "error", err, "level_id", l.ID())
		return nil, fmt.Errorf("failed to grant level capabilities: %w", err)
	}

	c.Logger.Infow("level created", "level_id", l.ID(), "name", l.Name(), "role", l.Role())
	return message(PageLevels, "level_added"), nil
}

func (c *Commands) editLevel(ctx context.Context, _ uint, in *EditLevelInput) (*Result, error) {
	l, err := c.Levels.GetByID(ctx, in.SubscriptionID)
	if err != nil {
		if !errors.Is(err, level.ErrLevelNotFound) {
			c.Logger.Errorw("failed to load level", "error", err, "level_id", in.SubscriptionID)
		}
		return message(PageLevels, "level_not_updated"), nil
	}

	params, err := in.params()
	if err != nil {
		return message(PageLevels, "level_not_updated"), nil
	}
	oldRole := l.Role()
	if err := l.Update(params); err != nil {
		c.Logger.Infow("level update rejected", "error", err, "level_id", l.ID())
		return message(PageLevels, "level_not_updated"), nil
	}
	if err := c.Levels.Update(ctx, l); err != nil {
		c.Logger.Errorw("failed to update level", "error", err, "level_id", l.ID())
		return message(PageLevels, "level_not_updated"), nil
	}

	if err := c.Authorizer.SyncLevelGrants(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to sync level capabilities: %w", err)
	}
	if oldRole != l.Role() {
		members, err := c.Members.ListByLevel(ctx, l.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to list level members: %w", err)
		}
		ids := make([]uint, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID())
		}
		if err := c.Authorizer.ReplaceLevelRole(ctx, ids, oldRole, l.Role()); err != nil {
			return nil, fmt.Errorf("failed to move level members to role %s: %w", l.Role(), err)
		}
		c.Logger.Infow("level role changed", "level_id", l.ID(), "from", oldRole, "to", l.Role(), "members", len(ids))
	}

	return message(PageLevels, "level_updated"), nil
}

// deleteLevel cancels every member of the level and removes it in one
// transaction; role grants are revoked once that has committed.
func (c *Commands) deleteLevel(ctx context.Context, _ uint, in *idInput) (*Result, error) {
	l, err := c.Levels.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, level.ErrLevelNotFound) {
			return nil, apperrors.NewNotFoundError("subscription level not found")
		}
		return nil, fmt.Errorf("failed to load level: %w", err)
	}

	var cancelled []*member.Member
	err = c.Tx.RunInTransaction(ctx, func(ctx context.Context) error {
		members, err := c.Members.ListByLevel(ctx, l.ID())
		if err != nil {
			return fmt.Errorf("failed to list level members: %w", err)
		}
		for _, m := range members {
			m.CancelSubscription()
			if err := c.Members.Update(ctx, m); err != nil {
				return fmt.Errorf("failed to cancel member %d: %w", m.ID(), err)
			}
		}
		if err := c.Levels.Delete(ctx, l.ID()); err != nil {
			return fmt.Errorf("failed to delete level: %w", err)
		}
		cancelled = members
		return nil
	})
	if err != nil {
		c.Logger.Errorw("failed to delete level", "error", err, "level_id", l.ID())
		return nil, err
	}

	for _, m := range cancelled {
		if err := c.Authorizer.ChangeLevel(ctx, m.ID(), l, nil); err != nil {
			c.Logger.Warnw("failed to revoke level grants", "error", err, "member_id", m.ID(), "level_id", l.ID())
		}
	}
	if err := c.Authorizer.RemoveLevelGrants(ctx, l.ID()); err != nil {
		c.Logger.Warnw("failed to remove level capabilities", "error", err, "level_id", l.ID())
	}
	c.notifyCancelled(cancelled, l.Name())

	c.Logger.Infow("level deleted", "level_id", l.ID(), "cancelled_members", len(cancelled))
	return message(PageLevels, "level_deleted"), nil
}

func (c *Commands) setLevelStatus(ctx context.Context, id uint, active bool) (*Result, error) {
	l, err := c.Levels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, level.ErrLevelNotFound) {
			return nil, apperrors.NewNotFoundError("subscription level not found")
		}
		return nil, fmt.Errorf("failed to load level: %w", err)
	}

	code := "level_activated"
	if active {
		l.Activate()
	} else {
		l.Deactivate()
		code = "level_deactivated"
	}
	if err := c.Levels.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to update level status: %w", err)
	}
	return message(PageLevels, code), nil
}
