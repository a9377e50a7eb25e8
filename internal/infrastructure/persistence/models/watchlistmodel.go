package models

import (
	"time"

	"github.com/cinezone/cinezone/internal/shared/constants"
)

type WatchlistModel struct {
	ID        uint        `gorm:"primaryKey"`
	UserID    uint        `gorm:"not null;uniqueIndex:idx_watchlists_user_movie,priority:1"`
	MovieID   uint        `gorm:"not null;uniqueIndex:idx_watchlists_user_movie,priority:2"`
	User      *UserModel  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Movie     *MovieModel `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WatchlistModel) TableName() string {
	return constants.TableWatchlists
}
