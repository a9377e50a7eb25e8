package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/domain/history"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/mappers"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/db"
)

type HistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.HistoryMapper
}

func NewHistoryRepository(gdb *gorm.DB) history.Repository {
	return &HistoryRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewHistoryMapper(),
	}
}

func (r *HistoryRepositoryImpl) Create(ctx context.Context, e *history.Entry) error {
	model, err := r.mapper.ToModel(e)
	if err != nil {
		return fmt.Errorf("failed to map history entry: %w", err)
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create history entry: %w", err)
	}
	e.SetID(model.ID)
	return nil
}

func (r *HistoryRepositoryImpl) List(ctx context.Context, filter history.ListFilter) ([]*history.Entry, int64, error) {
	q := db.GetTxFromContext(ctx, r.db).Model(&models.HistoryModel{}).Where("user_id = ?", filter.UserID)
	if filter.Action != "" {
		q = q.Where("action = ?", string(filter.Action))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count history: %w", err)
	}

	var list []*models.HistoryModel
	err := q.Scopes(db.Paginate(filter.Page)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list history: %w", err)
	}
	entries, err := r.mapper.ToEntities(list)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
