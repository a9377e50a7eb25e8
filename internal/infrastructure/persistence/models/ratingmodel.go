package models

import (
	"time"

	"github.com/cinezone/cinezone/internal/shared/constants"
)

// RatingModel stores a note. (user_id, movie_id) is unique.
type RatingModel struct {
	ID        uint        `gorm:"primaryKey"`
	UserID    uint        `gorm:"not null;uniqueIndex:idx_ratings_user_movie,priority:1"`
	MovieID   uint        `gorm:"not null;uniqueIndex:idx_ratings_user_movie,priority:2;index:idx_ratings_movie"`
	Rating    float64     `gorm:"type:decimal(3,2);not null"`
	Comment   *string     `gorm:"type:text"`
	User      *UserModel  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Movie     *MovieModel `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `gorm:"index"`
	UpdatedAt time.Time
}

func (RatingModel) TableName() string {
	return constants.TableRatings
}
