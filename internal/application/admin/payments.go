package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/domain/payment"
	"github.com/membergate/membergate/internal/domain/permission"
	"github.com/membergate/membergate/internal/shared/biztime"
	apperrors "github.com/membergate/membergate/internal/shared/errors"
	"github.com/membergate/membergate/internal/shared/utils"
)

type PaymentInput struct {
	User          string `form:"user" validate:"required"`
	Amount        string `form:"amount"`
	Date          string `form:"date"`
	TransactionID string `form:"transaction-id" validate:"max=100"`
	Status        string `form:"status" validate:"omitempty,oneof=complete pending refunded failed"`
}

type EditPaymentInput struct {
	PaymentID uint `form:"payment-id" validate:"required"`
	PaymentInput
}

type DeletePaymentInput struct {
	PaymentID uint `form:"payment_id" validate:"required"`
}

func (c *Commands) paymentCommands() []Command {
	return []Command{
		&command[PaymentInput]{
			action:     ActionAddPayment,
			capability: permission.CapManagePayments,
			invalid: func(*PaymentInput, error) *Result {
				return message(PagePayments, "payment_not_added")
			},
			run: c.addPayment,
		},
		&command[EditPaymentInput]{
			action:     ActionEditPayment,
			capability: permission.CapManagePayments,
			invalid: func(*EditPaymentInput, error) *Result {
				return message(PagePayments, "payment_not_updated")
			},
			run: c.editPayment,
		},
		&command[DeletePaymentInput]{
			action:      ActionDeletePayment,
			capability:  permission.CapManagePayments,
			nonceAction: NonceDeletePayment,
			nonceField:  NonceField,
			run:         c.deletePayment,
		},
	}
}

// paymentParams resolves the member by login and fills in the subscription
// name and key from its current level.
func (c *Commands) paymentParams(ctx context.Context, in *PaymentInput) (payment.PaymentParams, bool, error) {
	m, err := c.Members.GetByLogin(ctx, strings.TrimSpace(in.User))
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return payment.PaymentParams{}, false, nil
		}
		return payment.PaymentParams{}, false, fmt.Errorf("failed to load member: %w", err)
	}

	amount, err := utils.ParseAmount(in.Amount)
	if err != nil {
		c.Logger.Infow("payment rejected: invalid amount", "amount", in.Amount)
		return payment.PaymentParams{}, false, nil
	}
	date, err := biztime.DateWithCurrentTime(in.Date)
	if err != nil {
		c.Logger.Infow("payment rejected: invalid date", "date", in.Date)
		return payment.PaymentParams{}, false, nil
	}

	var subscriptionName string
	l, err := c.levelOrNil(ctx, m.LevelID())
	if err != nil {
		return payment.PaymentParams{}, false, err
	}
	if l != nil {
		subscriptionName = l.Name()
	}

	return payment.PaymentParams{
		UserID:           m.ID(),
		Amount:           amount,
		Date:             date,
		SubscriptionName: subscriptionName,
		SubscriptionKey:  m.SubscriptionKey(),
		TransactionID:    in.TransactionID,
		Status:           payment.Status(in.Status),
		Type:             payment.TypeManual,
	}, true, nil
}

func (c *Commands) addPayment(ctx context.Context, _ uint, in *PaymentInput) (*Result, error) {
	params, ok, err := c.paymentParams(ctx, in)
	if err != nil {
		return nil, err
	}
	if !ok {
		return message(PagePayments, "payment_not_added"), nil
	}

	p, err := payment.NewPayment(params)
	if err != nil {
		c.Logger.Infow("payment rejected", "error", err, "user", in.User)
		return message(PagePayments, "payment_not_added"), nil
	}
	if err := c.Payments.Create(ctx, p); err != nil {
		c.Logger.Errorw("failed to create payment", "error", err, "user_id", params.UserID)
		return message(PagePayments, "payment_not_added"), nil
	}

	c.invalidateEarnings(ctx)
	c.Logger.Infow("manual payment recorded", "payment_id", p.ID(), "user_id", p.UserID(), "amount", p.Amount())
	return message(PagePayments, "payment_added"), nil
}

func (c *Commands) editPayment(ctx context.Context, _ uint, in *EditPaymentInput) (*Result, error) {
	p, err := c.Payments.GetByID(ctx, in.PaymentID)
	if err != nil {
		if !errors.Is(err, payment.ErrPaymentNotFound) {
			c.Logger.Errorw("failed to load payment", "error", err, "payment_id", in.PaymentID)
		}
		return message(PagePayments, "payment_not_updated"), nil
	}

	params, ok, err := c.paymentParams(ctx, &in.PaymentInput)
	if err != nil {
		return nil, err
	}
	if !ok {
		return message(PagePayments, "payment_not_updated"), nil
	}
	if err := p.Update(params); err != nil {
		c.Logger.Infow("payment update rejected", "error", err, "payment_id", p.ID())
		return message(PagePayments, "payment_not_updated"), nil
	}
	if err := c.Payments.Update(ctx, p); err != nil {
		c.Logger.Errorw("failed to update payment", "error", err, "payment_id", p.ID())
		return message(PagePayments, "payment_not_updated"), nil
	}

	c.invalidateEarnings(ctx)
	return message(PagePayments, "payment_updated"), nil
}

func (c *Commands) deletePayment(ctx context.Context, _ uint, in *DeletePaymentInput) (*Result, error) {
	if err := c.Payments.Delete(ctx, in.PaymentID); err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return nil, apperrors.NewNotFoundError("payment not found")
		}
		return nil, fmt.Errorf("failed to delete payment: %w", err)
	}

	c.invalidateEarnings(ctx)
	c.Logger.Infow("payment deleted", "payment_id", in.PaymentID)
	return message(PagePayments, "payment_deleted"), nil
}
