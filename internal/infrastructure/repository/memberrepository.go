package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/membergate/membergate/internal/domain/member"
	"github.com/membergate/membergate/internal/infrastructure/persistence/mappers"
	"github.com/membergate/membergate/internal/infrastructure/persistence/models"
	"github.com/membergate/membergate/internal/shared/db"
	apperrors "github.com/membergate/membergate/internal/shared/errors"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, m *member.Member) error {
	model := mappers.MemberToModel(m)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			if strings.Contains(err.Error(), "email") {
				return member.ErrEmailExists
			}
			return member.ErrLoginExists
		}
		return fmt.Errorf("failed to create member: %w", err)
	}
	return m.SetID(model.ID)
}

func (r *MemberRepository) Update(ctx context.Context, m *member.Member) error {
	model := mappers.MemberToModel(m)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.MemberModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"email":              model.Email,
			"display_name":       model.DisplayName,
			"password_hash":      model.PasswordHash,
			"level_id":           model.LevelID,
			"status":             model.Status,
			"expiration":         model.Expiration,
			"payment_profile_id": model.PaymentProfileID,
			"recurring":          model.Recurring,
			"trialing":           model.Trialing,
			"signup_method":      model.SignupMethod,
			"notes":              model.Notes,
			"subscription_key":   model.SubscriptionKey,
			"paypal_subscriber":  model.LegacyPayPalSubscriber,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})
	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return member.ErrEmailExists
		}
		return fmt.Errorf("failed to update member: %w", result.Error)
	}
	return nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id uint) (*member.Member, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *MemberRepository) GetByLogin(ctx context.Context, login string) (*member.Member, error) {
	return r.first(ctx, "login = ?", login)
}

func (r *MemberRepository) GetByLoginOrEmail(ctx context.Context, identifier string) (*member.Member, error) {
	if strings.Contains(identifier, "@") {
		m, err := r.first(ctx, "LOWER(email) = ?", strings.ToLower(identifier))
		if err == nil || !errors.Is(err, member.ErrMemberNotFound) {
			return m, err
		}
	}
	return r.first(ctx, "login = ?", identifier)
}

func (r *MemberRepository) GetByIDs(ctx context.Context, ids []uint) ([]*member.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.MemberModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	return mappers.MembersToDomain(rows)
}

func (r *MemberRepository) ListByLevel(ctx context.Context, levelID uint) ([]*member.Member, error) {
	var rows []models.MemberModel
	if err := db.GetTxFromContext(ctx, r.db).Where("level_id = ?", levelID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list members of level %d: %w", levelID, err)
	}
	return mappers.MembersToDomain(rows)
}

func (r *MemberRepository) CountByLevel(ctx context.Context, levelID uint) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.MemberModel{}).Where("level_id = ?", levelID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count members of level %d: %w", levelID, err)
	}
	return count, nil
}

func (r *MemberRepository) first(ctx context.Context, query string, args ...interface{}) (*member.Member, error) {
	var model models.MemberModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return mappers.MemberToDomain(&model)
}
