package mappers

import (
	"github.com/membergate/membergate/internal/domain/payment"
	"github.com/membergate/membergate/internal/infrastructure/persistence/models"
)

func PaymentToModel(p *payment.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:               p.ID(),
		UserID:           p.UserID(),
		Amount:           p.Amount(),
		Date:             p.Date(),
		SubscriptionName: p.SubscriptionName(),
		SubscriptionKey:  p.SubscriptionKey(),
		TransactionID:    p.TransactionID(),
		Status:           string(p.Status()),
		PaymentType:      string(p.Type()),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
}

func PaymentToDomain(model *models.PaymentModel) (*payment.Payment, error) {
	return payment.ReconstructPaymentWithParams(payment.PaymentReconstructParams{
		PaymentParams: payment.PaymentParams{
			UserID:           model.UserID,
			Amount:           model.Amount,
			Date:             model.Date,
			SubscriptionName: model.SubscriptionName,
			SubscriptionKey:  model.SubscriptionKey,
			TransactionID:    model.TransactionID,
			Status:           payment.Status(model.Status),
			Type:             payment.Type(model.PaymentType),
		},
		ID:        model.ID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	})
}
