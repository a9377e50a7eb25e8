package seeds

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/domain/category"
	"github.com/cinezone/cinezone/internal/domain/user"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/authorization"
)

// DefaultCategories are the genres the catalog starts with.
var DefaultCategories = []string{
	"Action",
	"Aventure",
	"Animation",
	"Comédie",
	"Crime",
	"Documentaire",
	"Drame",
	"Famille",
	"Fantastique",
	"Histoire",
	"Horreur",
	"Musique",
	"Mystère",
	"Romance",
	"Science-Fiction",
	"Téléfilm",
	"Thriller",
	"Guerre",
	"Western",
}

// SeedCategories inserts the default categories that are missing and
// returns how many were created.
func SeedCategories(db *gorm.DB) (int, error) {
	created := 0
	for _, name := range DefaultCategories {
		slug := category.Slugify(name)
		description := fmt.Sprintf("%s movies", name)
		model := models.CategoryModel{Name: name, Slug: slug, Description: &description}

		result := db.Where(models.CategoryModel{Slug: slug}).FirstOrCreate(&model)
		if result.Error != nil {
			return created, fmt.Errorf("failed to seed category %q: %w", name, result.Error)
		}
		if result.RowsAffected > 0 {
			created++
		}
	}
	return created, nil
}

// AdminAccount describes the optional administrator created by the seed command.
type AdminAccount struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

// SeedAdmin creates the admin account unless the email is already taken.
// It reports whether a row was inserted.
func SeedAdmin(db *gorm.DB, account AdminAccount) (bool, error) {
	admin, err := user.NewUser(account.Email, account.PasswordHash, account.FirstName, account.LastName, authorization.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("invalid admin account: %w", err)
	}

	var existing models.UserModel
	err = db.Where("email = ?", admin.Email()).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}

	model := models.UserModel{
		Email:        admin.Email(),
		PasswordHash: admin.PasswordHash(),
		FirstName:    admin.FirstName(),
		LastName:     admin.LastName(),
		Role:         admin.Role().String(),
		IsActive:     true,
	}
	if err := db.Create(&model).Error; err != nil {
		return false, fmt.Errorf("failed to create admin: %w", err)
	}
	return true, nil
}
