package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/membergate/membergate/internal/domain/payment"
	"github.com/membergate/membergate/internal/infrastructure/persistence/mappers"
	"github.com/membergate/membergate/internal/infrastructure/persistence/models"
	"github.com/membergate/membergate/internal/shared/db"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := mappers.PaymentToModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return p.SetID(model.ID)
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	model := mappers.PaymentToModel(p)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"user_id":           model.UserID,
			"amount":            model.Amount,
			"date":              model.Date,
			"subscription_name": model.SubscriptionName,
			"subscription_key":  model.SubscriptionKey,
			"transaction_id":    model.TransactionID,
			"status":            model.Status,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.PaymentModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return payment.ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return mappers.PaymentToDomain(&model)
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID uint) ([]*payment.Payment, error) {
	var rows []models.PaymentModel
	if err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).Order("date DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	out := make([]*payment.Payment, 0, len(rows))
	for i := range rows {
		p, err := mappers.PaymentToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// SumEarnings totals complete payments matching the filter.
func (r *PaymentRepository) SumEarnings(ctx context.Context, filter payment.EarningsFilter) (int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("status = ?", string(payment.StatusComplete))
	if filter.SubscriptionName != "" {
		query = query.Where("subscription_name = ?", filter.SubscriptionName)
	}
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	var total int64
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum earnings: %w", err)
	}
	return total, nil
}
