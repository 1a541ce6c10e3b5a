package models

import (
	"time"

	"github.com/membergate/membergate/internal/shared/constants"
)

// MemberModel is the members table row.
type MemberModel struct {
	ID                     uint   `gorm:"primarykey"`
	Login                  string `gorm:"uniqueIndex;not null;size:60"`
	Email                  string `gorm:"uniqueIndex;not null;size:255"`
	DisplayName            string `gorm:"not null;size:250"`
	PasswordHash           string `gorm:"size:255"`
	LevelID                uint   `gorm:"index;not null;default:0"`
	Status                 string `gorm:"not null;size:20;default:pending;index"`
	Expiration             *time.Time
	PaymentProfileID       string `gorm:"size:128;index"`
	Recurring              bool   `gorm:"not null;default:false"`
	Trialing               bool   `gorm:"not null;default:false"`
	SignupMethod           string `gorm:"not null;size:20;default:live"`
	Notes                  string `gorm:"type:text"`
	SubscriptionKey        string `gorm:"size:64"`
	LegacyPayPalSubscriber bool   `gorm:"column:paypal_subscriber;not null;default:false"`
	Version                int    `gorm:"not null;default:1"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (MemberModel) TableName() string {
	return constants.TableMembers
}
