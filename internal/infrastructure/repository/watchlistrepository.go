package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/domain/watchlist"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/mappers"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/db"
	apperrors "github.com/cinezone/cinezone/internal/shared/errors"
)

type WatchlistRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.WatchlistMapper
}

func NewWatchlistRepository(gdb *gorm.DB) watchlist.Repository {
	return &WatchlistRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewWatchlistMapper(),
	}
}

func (r *WatchlistRepositoryImpl) Create(ctx context.Context, e *watchlist.Entry) error {
	model := r.mapper.ToModel(e)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("Movie is already in the watchlist")
		}
		return fmt.Errorf("failed to add watchlist entry: %w", err)
	}
	e.SetID(model.ID)
	return nil
}

func (r *WatchlistRepositoryImpl) Delete(ctx context.Context, userID, movieID uint) error {
	result := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&models.WatchlistModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove watchlist entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Movie is not in the watchlist")
	}
	return nil
}

func (r *WatchlistRepositoryImpl) Get(ctx context.Context, userID, movieID uint) (*watchlist.Entry, error) {
	var model models.WatchlistModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get watchlist entry: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *WatchlistRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*watchlist.Entry, error) {
	var list []*models.WatchlistModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	return r.mapper.ToEntities(list), nil
}
