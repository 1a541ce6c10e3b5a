package mappers

import (
	"github.com/membergate/membergate/internal/domain/discount"
	"github.com/membergate/membergate/internal/infrastructure/persistence/models"
)

func DiscountToModel(d *discount.Discount) *models.DiscountModel {
	return &models.DiscountModel{
		ID:          d.ID(),
		Name:        d.Name(),
		Description: d.Description(),
		Code:        d.Code(),
		Amount:      d.Amount(),
		Unit:        string(d.Unit()),
		Status:      string(d.Status()),
		Expiration:  d.Expiration(),
		MaxUses:     d.MaxUses(),
		UseCount:    d.UseCount(),
		LevelID:     d.LevelID(),
		CreatedAt:   d.CreatedAt(),
		UpdatedAt:   d.UpdatedAt(),
	}
}

func DiscountToDomain(model *models.DiscountModel) (*discount.Discount, error) {
	return discount.ReconstructDiscountWithParams(discount.DiscountReconstructParams{
		DiscountParams: discount.DiscountParams{
			Name:        model.Name,
			Description: model.Description,
			Code:        model.Code,
			Amount:      model.Amount,
			Unit:        discount.Unit(model.Unit),
			Expiration:  model.Expiration,
			MaxUses:     model.MaxUses,
			LevelID:     model.LevelID,
		},
		ID:        model.ID,
		Status:    model.Status,
		UseCount:  model.UseCount,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	})
}
