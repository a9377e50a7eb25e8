package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/cinezone/cinezone/internal/shared/constants"
)

// HistoryModel rows are never updated.
type HistoryModel struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"not null;index:idx_histories_user_created,priority:1"`
	MovieID   uint           `gorm:"not null;index"`
	Action    string         `gorm:"size:20;not null"`
	Metadata  datatypes.JSON `gorm:"type:json"`
	User      *UserModel     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Movie     *MovieModel    `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `gorm:"index:idx_histories_user_created,priority:2"`
}

func (HistoryModel) TableName() string {
	return constants.TableHistories
}
