package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/domain/note"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/mappers"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/db"
	apperrors "github.com/cinezone/cinezone/internal/shared/errors"
)

type NoteRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.NoteMapper
}

func NewNoteRepository(gdb *gorm.DB) note.Repository {
	return &NoteRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewNoteMapper(),
	}
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, n *note.Note) error {
	model := r.mapper.ToModel(n)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("You have already rated this movie")
		}
		return fmt.Errorf("failed to create note: %w", err)
	}
	return n.SetID(model.ID)
}

func (r *NoteRepositoryImpl) Update(ctx context.Context, n *note.Note) error {
	model := r.mapper.ToModel(n)
	err := db.GetTxFromContext(ctx, r.db).Model(&models.RatingModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"rating":     model.Rating,
			"comment":    model.Comment,
			"updated_at": model.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := db.GetTxFromContext(ctx, r.db).Delete(&models.RatingModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete note: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Note not found")
	}
	return nil
}

func (r *NoteRepositoryImpl) GetForUser(ctx context.Context, id, userID uint) (*note.Note, error) {
	return r.first(ctx, "id = ? AND user_id = ?", id, userID)
}

func (r *NoteRepositoryImpl) GetByUserAndMovie(ctx context.Context, userID, movieID uint) (*note.Note, error) {
	return r.first(ctx, "user_id = ? AND movie_id = ?", userID, movieID)
}

func (r *NoteRepositoryImpl) first(ctx context.Context, cond string, args ...any) (*note.Note, error) {
	var model models.RatingModel
	if err := db.GetTxFromContext(ctx, r.db).Where(cond, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *NoteRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*note.Note, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *NoteRepositoryImpl) ListByMovie(ctx context.Context, movieID uint) ([]*note.Note, error) {
	return r.list(ctx, "movie_id = ?", movieID)
}

func (r *NoteRepositoryImpl) list(ctx context.Context, cond string, args ...any) ([]*note.Note, error) {
	var list []*models.RatingModel
	err := db.GetTxFromContext(ctx, r.db).
		Where(cond, args...).
		Order("created_at DESC").
		Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return r.mapper.ToEntities(list), nil
}

func (r *NoteRepositoryImpl) RatingsForMovie(ctx context.Context, movieID uint) ([]float64, error) {
	ratings := []float64{}
	err := db.GetTxFromContext(ctx, r.db).Model(&models.RatingModel{}).
		Where("movie_id = ?", movieID).
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load movie ratings: %w", err)
	}
	return ratings, nil
}
