package models

import (
	"time"

	"github.com/membergate/membergate/internal/shared/constants"
)

type PaymentModel struct {
	ID               uint      `gorm:"primarykey"`
	UserID           uint      `gorm:"index;not null"`
	Amount           int64     `gorm:"not null"`
	Date             time.Time `gorm:"index;not null"`
	SubscriptionName string    `gorm:"size:200;index"`
	SubscriptionKey  string    `gorm:"size:64"`
	TransactionID    string    `gorm:"size:128"`
	Status           string    `gorm:"not null;size:20;default:complete;index"`
	PaymentType      string    `gorm:"not null;size:20"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PaymentModel) TableName() string {
	return constants.TablePayments
}
