package models

import (
	"time"

	"github.com/membergate/membergate/internal/shared/constants"
)

type DiscountModel struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"not null;size:200"`
	Description string `gorm:"type:text"`
	Code        string `gorm:"uniqueIndex;not null;size:50"`
	Amount      int64  `gorm:"not null"`
	Unit        string `gorm:"not null;size:10"`
	Status      string `gorm:"not null;size:20;default:active"`
	Expiration  *time.Time
	MaxUses     int  `gorm:"not null;default:0"`
	UseCount    int  `gorm:"not null;default:0"`
	LevelID     uint `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (DiscountModel) TableName() string {
	return constants.TableDiscounts
}
