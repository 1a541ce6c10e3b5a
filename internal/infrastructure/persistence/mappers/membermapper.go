package mappers

import (
	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/infrastructure/persistence/models"
)

func MemberToModel(m *member.Member) *models.MemberModel {
	return &models.MemberModel{
		ID:                     m.ID(),
		Login:                  m.Login(),
		Email:                  m.Email(),
		DisplayName:            m.DisplayName(),
		PasswordHash:           m.PasswordHash(),
		LevelID:                m.LevelID(),
		Status:                 m.Status().String(),
		Expiration:             m.Expiration(),
		PaymentProfileID:       m.PaymentProfileID(),
		Recurring:              m.IsRecurring(),
		Trialing:               m.IsTrialing(),
		SignupMethod:           string(m.SignupMethod()),
		Notes:                  m.Notes(),
		SubscriptionKey:        m.SubscriptionKey(),
		LegacyPayPalSubscriber: m.LegacyPayPalSubscriber(),
		Version:                m.Version(),
		CreatedAt:              m.CreatedAt(),
		UpdatedAt:              m.UpdatedAt(),
	}
}

func MemberToDomain(model *models.MemberModel) (*member.Member, error) {
	return member.ReconstructMemberWithParams(member.MemberReconstructParams{
		ID:                     model.ID,
		Login:                  model.Login,
		Email:                  model.Email,
		DisplayName:            model.DisplayName,
		PasswordHash:           model.PasswordHash,
		LevelID:                model.LevelID,
		Status:                 model.Status,
		Expiration:             model.Expiration,
		PaymentProfileID:       model.PaymentProfileID,
		Recurring:              model.Recurring,
		Trialing:               model.Trialing,
		SignupMethod:           model.SignupMethod,
		Notes:                  model.Notes,
		SubscriptionKey:        model.SubscriptionKey,
		LegacyPayPalSubscriber: model.LegacyPayPalSubscriber,
		Version:                model.Version,
		CreatedAt:              model.CreatedAt,
		UpdatedAt:              model.UpdatedAt,
	})
}

func MembersToDomain(rows []models.MemberModel) ([]*member.Member, error) {
	out := make([]*member.Member, 0, len(rows))
	for i := range rows {
		m, err := MemberToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
