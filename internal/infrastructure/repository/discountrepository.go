package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/membergate/membergate/internal/domain/discount"
	"github.com/membergate/membergate/internal/infrastructure/persistence/mappers"
	"github.com/membergate/membergate/internal/infrastructure/persistence/models"
	"github.com/membergate/membergate/internal/shared/db"
	apperrors "github.com/membergate/membergate/internal/shared/errors"
)

type DiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

func (r *DiscountRepository) Create(ctx context.Context, d *discount.Discount) error {
	model := mappers.DiscountToModel(d)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return discount.ErrCodeExists
		}
		return fmt.Errorf("failed to create discount: %w", err)
	}
	return d.SetID(model.ID)
}

func (r *DiscountRepository) Update(ctx context.Context, d *discount.Discount) error {
	model := mappers.DiscountToModel(d)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.DiscountModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"code":        model.Code,
			"amount":      model.Amount,
			"unit":        model.Unit,
			"status":      model.Status,
			"expiration":  model.Expiration,
			"max_uses":    model.MaxUses,
			"use_count":   model.UseCount,
			"level_id":    model.LevelID,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return discount.ErrCodeExists
		}
		return fmt.Errorf("failed to update discount: %w", result.Error)
	}
	return nil
}

func (r *DiscountRepository) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.DiscountModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete discount: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return discount.ErrDiscountNotFound
	}
	return nil
}

func (r *DiscountRepository) GetByID(ctx context.Context, id uint) (*discount.Discount, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *DiscountRepository) GetByCode(ctx context.Context, code string) (*discount.Discount, error) {
	return r.first(ctx, "code = ?", code)
}

func (r *DiscountRepository) first(ctx context.Context, query string, args ...interface{}) (*discount.Discount, error) {
	var model models.DiscountModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, discount.ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to get discount: %w", err)
	}
	return mappers.DiscountToDomain(&model)
}
