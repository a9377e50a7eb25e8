package mappers

import (
	"github.com/cinezone/cinezone/internal/domain/category"
	"github.com/cinezone/cinezone/internal/domain/movie"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/models"
	"github.com/cinezone/cinezone/internal/shared/mapper"
)

type MovieMapper interface {
	ToEntity(model *models.MovieModel) *movie.Movie
	// ToModel leaves Categories empty; associations are written separately.
	ToModel(entity *movie.Movie) *models.MovieModel
	ToEntities(models []*models.MovieModel) []*movie.Movie
}

type MovieMapperImpl struct {
	categories CategoryMapper
}

func NewMovieMapper() MovieMapper {
	return &MovieMapperImpl{categories: NewCategoryMapper()}
}

func (m *MovieMapperImpl) ToEntity(model *models.MovieModel) *movie.Movie {
	if model == nil {
		return nil
	}

	categories := make([]*category.Category, 0, len(model.Categories))
	for i := range model.Categories {
		categories = append(categories, m.categories.ToEntity(&model.Categories[i]))
	}

	return movie.ReconstructMovie(movie.ReconstructParams{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		ReleaseDate: model.ReleaseDate,
		Duration:    model.Duration,
		Poster:      model.Poster,
		Trailer:     model.Trailer,
		Status:      movie.Status(model.Status),
		Rating: movie.RatingSummary{
			Average: model.AverageRating,
			Count:   model.RatingsCount,
		},
		Categories: categories,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	})
}

func (m *MovieMapperImpl) ToModel(entity *movie.Movie) *models.MovieModel {
	if entity == nil {
		return nil
	}
	summary := entity.RatingSummary()
	return &models.MovieModel{
		ID:            entity.ID(),
		Title:         entity.Title(),
		Description:   entity.Description(),
		ReleaseDate:   entity.ReleaseDate(),
		Duration:      entity.Duration(),
		Poster:        entity.Poster(),
		Trailer:       entity.Trailer(),
		Status:        entity.Status().String(),
		AverageRating: summary.Average,
		RatingsCount:  summary.Count,
		CreatedAt:     entity.CreatedAt(),
		UpdatedAt:     entity.UpdatedAt(),
	}
}

func (m *MovieMapperImpl) ToEntities(list []*models.MovieModel) []*movie.Movie {
	return mapper.MapSliceOrEmpty(list, m.ToEntity)
}
