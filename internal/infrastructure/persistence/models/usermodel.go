package models

import (
	"time"

	"github.com/cinezone/cinezone/internal/shared/constants"
)

type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:100;not null;uniqueIndex:idx_users_email"`
	PasswordHash string `gorm:"column:password;size:255;not null"`
	FirstName    string `gorm:"size:50;not null"`
	LastName     string `gorm:"size:50;not null"`
	Role         string `gorm:"size:10;not null;default:'user'"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
