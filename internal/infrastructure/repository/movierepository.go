package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/domain/movie"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/mappers"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/db"
	apperrors "github.com/cinezone/cinezone/internal/shared/errors"
)

type MovieRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MovieMapper
}

func NewMovieRepository(gdb *gorm.DB) movie.Repository {
	return &MovieRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewMovieMapper(),
	}
}

func preloadCategories(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Categories", func(q *gorm.DB) *gorm.DB {
		return q.Order("name ASC")
	})
}

func (r *MovieRepositoryImpl) Create(ctx context.Context, m *movie.Movie) error {
	model := r.mapper.ToModel(m)
	if err := db.GetTxFromContext(ctx, r.db).Omit("Categories").Create(model).Error; err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}
	return m.SetID(model.ID)
}

// Update writes the editable columns. The rating summary is owned by
// UpdateRatingSummary and is never written here.
func (r *MovieRepositoryImpl) Update(ctx context.Context, m *movie.Movie) error {
	model := r.mapper.ToModel(m)
	err := db.GetTxFromContext(ctx, r.db).Model(&models.MovieModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"title":        model.Title,
			"description":  model.Description,
			"release_date": model.ReleaseDate,
			"duration":     model.Duration,
			"poster":       model.Poster,
			"trailer":      model.Trailer,
			"status":       model.Status,
			"updated_at":   model.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}
	return nil
}

// Delete removes the movie together with everything that references it.
func (r *MovieRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	dependents := []any{
		&models.MovieCategoryModel{},
		&models.RatingModel{},
		&models.WatchlistModel{},
		&models.HistoryModel{},
	}
	for _, dep := range dependents {
		if err := tx.Where("movie_id = ?", id).Delete(dep).Error; err != nil {
			return fmt.Errorf("failed to delete movie dependents: %w", err)
		}
	}

	result := tx.Delete(&models.MovieModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete movie: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Movie not found")
	}
	return nil
}

func (r *MovieRepositoryImpl) GetByID(ctx context.Context, id uint) (*movie.Movie, error) {
	var model models.MovieModel
	if err := preloadCategories(db.GetTxFromContext(ctx, r.db)).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get movie by ID: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *MovieRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*movie.Movie, error) {
	if len(ids) == 0 {
		return []*movie.Movie{}, nil
	}
	var list []*models.MovieModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to get movies by IDs: %w", err)
	}
	return r.mapper.ToEntities(list), nil
}

func (r *MovieRepositoryImpl) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.MovieModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check movie: %w", err)
	}
	return count > 0, nil
}

func (r *MovieRepositoryImpl) LockForRatingUpdate(ctx context.Context, id uint) (bool, error) {
	var model models.MovieModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForUpdate()).
		Select("id").
		Where("id = ?", id).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock movie: %w", err)
	}
	return true, nil
}

func (r *MovieRepositoryImpl) UpdateRatingSummary(ctx context.Context, id uint, summary movie.RatingSummary) error {
	result := db.GetTxFromContext(ctx, r.db).Model(&models.MovieModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"average_rating": summary.Average,
			"ratings_count":  summary.Count,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update movie rating summary: %w", result.Error)
	}
	return nil
}

func (r *MovieRepositoryImpl) ReplaceCategories(ctx context.Context, id uint, categoryIDs []uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("movie_id = ?", id).Delete(&models.MovieCategoryModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear movie categories: %w", err)
	}

	seen := make(map[uint]struct{}, len(categoryIDs))
	rows := make([]models.MovieCategoryModel, 0, len(categoryIDs))
	for _, cid := range categoryIDs {
		if _, dup := seen[cid]; dup {
			continue
		}
		seen[cid] = struct{}{}
		rows = append(rows, models.MovieCategoryModel{MovieID: id, CategoryID: cid})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to set movie categories: %w", err)
	}
	return nil
}

func (r *MovieRepositoryImpl) List(ctx context.Context, filter movie.ListFilter) ([]*movie.Movie, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	q := tx.Model(&models.MovieModel{})

	if !filter.IncludeAllStatus {
		q = q.Where("status = ?", movie.StatusPublished.String())
	}
	if filter.MinRating != nil {
		q = q.Where("average_rating >= ?", *filter.MinRating)
	}
	q = q.Scopes(db.Contains(filter.Search, "title"))
	if filter.CategorySlug != "" {
		sub := tx.Table("movie_categories AS mc").
			Select("mc.movie_id").
			Joins("JOIN categories c ON c.id = mc.category_id").
			Where("c.slug = ?", filter.CategorySlug)
		q = q.Where("id IN (?)", sub)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count movies: %w", err)
	}

	var list []*models.MovieModel
	err := preloadCategories(q).
		Scopes(db.Paginate(filter.Page)).
		Order(filter.Sort.OrderClause(movie.SortColumns, "created_at")).
		Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movies: %w", err)
	}
	return r.mapper.ToEntities(list), total, nil
}
