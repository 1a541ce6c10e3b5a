package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/membergate/membergate/internal/shared/constants"
)

// LevelModel is the subscription_levels table row. Capabilities holds the
// extra grants as a JSON array of strings.
type LevelModel struct {
	ID           uint   `gorm:"primarykey"`
	Name         string `gorm:"not null;size:200"`
	Slug         string `gorm:"uniqueIndex;not null;size:200"`
	Description  string `gorm:"type:text"`
	Price        int64  `gorm:"not null;default:0"`
	Fee          int64  `gorm:"not null;default:0"`
	Duration     int    `gorm:"not null;default:0"`
	DurationUnit string `gorm:"not null;size:10;default:month"`
	AccessLevel  int    `gorm:"not null;default:0"`
	Role         string `gorm:"not null;size:64;default:subscriber"`
	Capabilities datatypes.JSON
	Status       string `gorm:"not null;size:20;default:active"`
	ListOrder    int    `gorm:"not null;default:0"`
	Version      int    `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (LevelModel) TableName() string {
	return constants.TableSubscriptionLevels
}
