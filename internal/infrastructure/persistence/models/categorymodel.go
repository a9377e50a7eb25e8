package models

import (
	"time"

	"github.com/cinezone/cinezone/internal/shared/constants"
)

type CategoryModel struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:50;not null;uniqueIndex:idx_categories_name"`
	Slug        string  `gorm:"size:60;not null;uniqueIndex:idx_categories_slug"`
	Description *string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CategoryModel) TableName() string {
	return constants.TableCategories
}
