package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/membergate/membergate/internal/domain/level"
	"github.com/membergate/membergate/internal/infrastructure/persistence/models"
)

func LevelToModel(l *level.Level) (*models.LevelModel, error) {
	caps, err := json.Marshal(l.Capabilities())
	if err != nil {
		return nil, fmt.Errorf("failed to encode level capabilities: %w", err)
	}
	return &models.LevelModel{
		ID:           l.ID(),
		Name:         l.Name(),
		Slug:         l.Slug(),
		Description:  l.Description(),
		Price:        l.Price(),
		Fee:          l.Fee(),
		Duration:     l.Duration(),
		DurationUnit: string(l.DurationUnit()),
		AccessLevel:  l.AccessLevel(),
		Role:         l.Role(),
		Capabilities: datatypes.JSON(caps),
		Status:       string(l.Status()),
		ListOrder:    l.ListOrder(),
		Version:      l.Version(),
		CreatedAt:    l.CreatedAt(),
		UpdatedAt:    l.UpdatedAt(),
	}, nil
}

func LevelToDomain(model *models.LevelModel) (*level.Level, error) {
	var caps []string
	if len(model.Capabilities) > 0 {
		if err := json.Unmarshal(model.Capabilities, &caps); err != nil {
			return nil, fmt.Errorf("failed to decode capabilities of level %d: %w", model.ID, err)
		}
	}
	return level.ReconstructLevelWithParams(level.LevelReconstructParams{
		LevelParams: level.LevelParams{
			Name:         model.Name,
			Slug:         model.Slug,
			Description:  model.Description,
			Price:        model.Price,
			Fee:          model.Fee,
			Duration:     model.Duration,
			DurationUnit: level.DurationUnit(model.DurationUnit),
			AccessLevel:  model.AccessLevel,
			Role:         model.Role,
			Capabilities: caps,
			ListOrder:    model.ListOrder,
		},
		ID:        model.ID,
		Status:    model.Status,
		Version:   model.Version,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	})
}

func LevelsToDomain(rows []models.LevelModel) ([]*level.Level, error) {
	out := make([]*level.Level, 0, len(rows))
	for i := range rows {
		l, err := LevelToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
