package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/membergate/membergate/internal/domain/level"
	"github.com/membergate/membergate/internal/infrastructure/persistence/mappers"
	"github.com/membergate/membergate/internal/infrastructure/persistence/models"
	"github.com/membergate/membergate/internal/shared/db"
)

type LevelRepository struct {
	db *gorm.DB
}

func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{db: db}
}

func (r *LevelRepository) Create(ctx context.Context, l *level.Level) error {
	model, err := mappers.LevelToModel(l)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create level: %w", err)
	}
	return l.SetID(model.ID)
}

func (r *LevelRepository) Update(ctx context.Context, l *level.Level) error {
	model, err := mappers.LevelToModel(l)
	if err != nil {
		return err
	}
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.LevelModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"slug":          model.Slug,
			"description":   model.Description,
			"price":         model.Price,
			"fee":           model.Fee,
			"duration":      model.Duration,
			"duration_unit": model.DurationUnit,
			"access_level":  model.AccessLevel,
			"role":          model.Role,
			"capabilities":  model.Capabilities,
			"status":        model.Status,
			"list_order":    model.ListOrder,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update level: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return level.ErrLevelNotFound
	}
	return nil
}

func (r *LevelRepository) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.LevelModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete level: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return level.ErrLevelNotFound
	}
	return nil
}

func (r *LevelRepository) GetByID(ctx context.Context, id uint) (*level.Level, error) {
	var model models.LevelModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, level.ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	return mappers.LevelToDomain(&model)
}

func (r *LevelRepository) GetByIDs(ctx context.Context, ids []uint) ([]*level.Level, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.LevelModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("list_order, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get levels: %w", err)
	}
	return mappers.LevelsToDomain(rows)
}

func (r *LevelRepository) List(ctx context.Context, onlyActive bool) ([]*level.Level, error) {
	query := db.GetTxFromContext(ctx, r.db).Order("list_order, id")
	if onlyActive {
		query = query.Where("status = ?", string(level.StatusActive))
	}
	var rows []models.LevelModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	return mappers.LevelsToDomain(rows)
}
