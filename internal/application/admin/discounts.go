package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/membergate/membergate/internal/domain/discount"
	"github.com/membergate/membergate/internal/domain/permission"
	"github.com/membergate/membergate/internal/shared/biztime"
	apperrors "github.com/membergate/membergate/internal/shared/errors"
	"github.com/membergate/membergate/internal/shared/utils"
)

type DiscountInput struct {
	Name         string `form:"name" validate:"required,max=200"`
	Description  string `form:"description"`
	Amount       string `form:"amount" validate:"required"`
	Unit         string `form:"unit"`
	Code         string `form:"code" validate:"required,max=50"`
	Expiration   string `form:"expiration"`
	MaxUses      int    `form:"max" validate:"gte=0"`
	Subscription uint   `form:"subscription"`
}

type EditDiscountInput struct {
	DiscountID uint   `form:"discount_id" validate:"required"`
	Status     string `form:"status" validate:"omitempty,oneof=active disabled"`
	DiscountInput
}

func (in *DiscountInput) params() (discount.DiscountParams, error) {
	amount, err := utils.ParseAmount(in.Amount)
	if err != nil {
		return discount.DiscountParams{}, fmt.Errorf("%w: %v", discount.ErrInvalidAmount, err)
	}

	var expiration *time.Time
	if raw := strings.TrimSpace(in.Expiration); raw != "" {
		t, err := biztime.ParseInput(raw)
		if err != nil {
			return discount.DiscountParams{}, err
		}
		end := biztime.EndOfDayUTC(t)
		expiration = &end
	}

	return discount.DiscountParams{
		Name:        in.Name,
		Description: in.Description,
		Code:        in.Code,
		Amount:      amount,
		Unit:        discount.ParseUnit(in.Unit),
		Expiration:  expiration,
		MaxUses:     in.MaxUses,
		LevelID:     in.Subscription,
	}, nil
}

func discountUpdated(ok bool) *Result {
	v := "0"
	if ok {
		v = "1"
	}
	return &Result{Page: PageDiscounts, Params: map[string]string{"discount-updated": v}}
}

func (c *Commands) discountCommands() []Command {
	return []Command{
		&command[DiscountInput]{
			action:     ActionAddDiscount,
			capability: permission.CapManageDiscounts,
			invalid: func(*DiscountInput, error) *Result {
				return message(PageDiscounts, "discount_not_added")
			},
			run: c.addDiscount,
		},
		&command[EditDiscountInput]{
			action:     ActionEditDiscount,
			capability: permission.CapManageDiscounts,
			invalid: func(*EditDiscountInput, error) *Result {
				return discountUpdated(false)
			},
			run: c.editDiscount,
		},
		&command[idInput]{
			action:      ActionDeleteDiscount,
			capability:  permission.CapManageDiscounts,
			nonceAction: NonceDiscountAction,
			nonceField:  NonceField,
			run:         c.deleteDiscount,
		},
		&command[idInput]{
			action:      ActionActivateDiscount,
			capability:  permission.CapManageDiscounts,
			nonceAction: NonceDiscountAction,
			nonceField:  NonceField,
			run: func(ctx context.Context, _ uint, in *idInput) (*Result, error) {
				return c.setDiscountStatus(ctx, in.ID, discount.StatusActive)
			},
		},
		&command[idInput]{
			action:      ActionDeactivateDiscount,
			capability:  permission.CapManageDiscounts,
			nonceAction: NonceDiscountAction,
			nonceField:  NonceField,
			run: func(ctx context.Context, _ uint, in *idInput) (*Result, error) {
				return c.setDiscountStatus(ctx, in.ID, discount.StatusDisabled)
			},
		},
	}
}

func (c *Commands) addDiscount(ctx context.Context, _ uint, in *DiscountInput) (*Result, error) {
	params, err := in.params()
	if err != nil {
		c.Logger.Infow("discount rejected", "error", err, "code", in.Code)
		return message(PageDiscounts, "discount_not_added"), nil
	}
	if taken, err := c.codeTaken(ctx, params.Code, 0); err != nil || taken {
		return message(PageDiscounts, "discount_not_added"), err
	}

	d, err := discount.NewDiscount(params)
	if err != nil {
		c.Logger.Infow("discount rejected", "error", err, "code", in.Code)
		return message(PageDiscounts, "discount_not_added"), nil
	}
	if err := c.Discounts.Create(ctx, d); err != nil {
		c.Logger.Errorw("failed to create discount", "error", err, "code", d.Code())
		return message(PageDiscounts, "discount_not_added"), nil
	}

	c.Logger.Infow("discount created", "discount_id", d.ID(), "code", d.Code())
	return message(PageDiscounts, "discount_added"), nil
}

func (c *Commands) editDiscount(ctx context.Context, _ uint, in *EditDiscountInput) (*Result, error) {
	d, err := c.Discounts.GetByID(ctx, in.DiscountID)
	if err != nil {
		if !errors.Is(err, discount.ErrDiscountNotFound) {
			c.Logger.Errorw("failed to load discount", "error", err, "discount_id", in.DiscountID)
		}
		return discountUpdated(false), nil
	}

	params, err := in.params()
	if err != nil {
		return discountUpdated(false), nil
	}
	if taken, err := c.codeTaken(ctx, params.Code, d.ID()); err != nil || taken {
		return discountUpdated(false), err
	}

	status := discount.Status(in.Status)
	if status == "" {
		status = d.Status()
	}
	if err := d.Update(params, status); err != nil {
		c.Logger.Infow("discount update rejected", "error", err, "discount_id", d.ID())
		return discountUpdated(false), nil
	}
	if err := c.Discounts.Update(ctx, d); err != nil {
		c.Logger.Errorw("failed to update discount", "error", err, "discount_id", d.ID())
		return discountUpdated(false), nil
	}
	return discountUpdated(true), nil
}

// codeTaken reports whether another discount than exceptID uses code.
func (c *Commands) codeTaken(ctx context.Context, code string, exceptID uint) (bool, error) {
	existing, err := c.Discounts.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, discount.ErrDiscountNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up discount code: %w", err)
	}
	if existing.ID() == exceptID {
		return false, nil
	}
	c.Logger.Infow("discount code already in use", "code", code, "discount_id", existing.ID())
	return true, nil
}

func (c *Commands) deleteDiscount(ctx context.Context, _ uint, in *idInput) (*Result, error) {
	if err := c.Discounts.Delete(ctx, in.ID); err != nil {
		if errors.Is(err, discount.ErrDiscountNotFound) {
			return nil, apperrors.NewNotFoundError("discount not found")
		}
		return nil, fmt.Errorf("failed to delete discount: %w", err)
	}
	return message(PageDiscounts, "discount_deleted"), nil
}

func (c *Commands) setDiscountStatus(ctx context.Context, id uint, status discount.Status) (*Result, error) {
	d, err := c.Discounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, discount.ErrDiscountNotFound) {
			return nil, apperrors.NewNotFoundError("discount not found")
		}
		return nil, fmt.Errorf("failed to load discount: %w", err)
	}

	code := "discount_activated"
	if status == discount.StatusActive {
		d.Activate()
	} else {
		d.Disable()
		code = "discount_deactivated"
	}
	if err := c.Discounts.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update discount status: %w", err)
	}
	return message(PageDiscounts, code), nil
}
