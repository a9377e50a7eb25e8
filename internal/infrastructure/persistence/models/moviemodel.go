package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/shared/constants"
)

type MovieModel struct {
	ID            uint   `gorm:"primaryKey"`
	Title         string `gorm:"size:200;not null;index"`
	Description   string `gorm:"type:text"`
	ReleaseDate   *time.Time
	Duration      *int
	Poster        *string         `gorm:"size:500"`
	Trailer       *string         `gorm:"size:500"`
	Status        string          `gorm:"size:20;not null;default:'published';index"`
	AverageRating float64         `gorm:"type:decimal(3,2);not null;default:0"`
	RatingsCount  int             `gorm:"not null;default:0"`
	Categories    []CategoryModel `gorm:"many2many:movie_categories;joinForeignKey:MovieID;joinReferences:CategoryID"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time
}

func (MovieModel) TableName() string {
	return constants.TableMovies
}

func (m *MovieModel) BeforeCreate(tx *gorm.DB) error {
	if m.Status == "" {
		m.Status = "published"
	}
	return nil
}

// MovieCategoryModel is the movie/category join row.
type MovieCategoryModel struct {
	MovieID    uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey;index"`
}

func (MovieCategoryModel) TableName() string {
	return constants.TableMovieCategories
}
