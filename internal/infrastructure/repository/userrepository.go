package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/domain/user"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/mappers"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/db"
	apperrors "github.com/cinezone/cinezone/internal/shared/errors"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UserMapper
}

func NewUserRepository(gdb *gorm.DB) user.Repository {
	return &UserRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("Email is already in use")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return u.SetID(model.ID)
}

func (r *UserRepositoryImpl) Update(ctx context.Context, u *user.User) error {
	model := r.mapper.ToModel(u)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"email":      model.Email,
			"password":   model.PasswordHash,
			"first_name": model.FirstName,
			"last_name":  model.LastName,
			"role":       model.Role,
			"is_active":  model.IsActive,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return apperrors.NewConflictError("Email is already in use")
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	return nil
}

// Delete removes the user with their notes, watchlist and history.
func (r *UserRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	for _, dep := range []any{&models.RatingModel{}, &models.WatchlistModel{}, &models.HistoryModel{}} {
		if err := tx.Where("user_id = ?", id).Delete(dep).Error; err != nil {
			return fmt.Errorf("failed to delete user dependents: %w", err)
		}
	}

	result := tx.Delete(&models.UserModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("User not found")
	}
	return nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *UserRepositoryImpl) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	q := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepositoryImpl) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	q := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{})
	q = q.Scopes(db.Contains(filter.Search, "first_name", "last_name", "email"))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var list []*models.UserModel
	if err := q.Scopes(db.Paginate(filter.Page)).Order("created_at DESC").Order("id DESC").Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return r.mapper.ToEntities(list), total, nil
}
