// Package movie serves the public catalog and its admin maintenance.
package movie

import (
	"context"
	"fmt"
	"strings"
	"time"

	commondto "github.com/cinezone/cinezone/internal/application/common/dto"
	"github.com/cinezone/cinezone/internal/domain/category"
	domainMovie "github.com/cinezone/cinezone/internal/domain/movie"
	"github.com/cinezone/cinezone/internal/infrastructure/storage"
	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/db"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
	"github.com/cinezone/cinezone/internal/shared/query"
	"github.com/cinezone/cinezone/internal/shared/utils"
)

const (
	defaultListLimit = 20

	msgMovieNotFound = "Movie not found"
	msgMovieDeleted  = "Movie deleted successfully"
)

// HTMLRenderer turns a markdown description into sanitized HTML.
type HTMLRenderer interface {
	ToHTML(markdown string) (string, error)
}

type Service struct {
	tx           db.Transactor
	movieRepo    domainMovie.Repository
	categoryRepo category.Repository
	renderer     HTMLRenderer
	logger       logger.Interface
}

func NewService(
	tx db.Transactor,
	movieRepo domainMovie.Repository,
	categoryRepo category.Repository,
	renderer HTMLRenderer,
	log logger.Interface,
) *Service {
	return &Service{
		tx:           tx,
		movieRepo:    movieRepo,
		categoryRepo: categoryRepo,
		renderer:     renderer,
		logger:       log,
	}
}

// List pages through the catalog. Only published movies are listed unless
// IncludeAllStatus is set.
func (s *Service) List(ctx context.Context, q ListQuery) (*ListResponse, error) {
	if q.MinRating != nil && !domainMovie.IsValidRating(*q.MinRating) {
		return nil, errors.NewValidationError("minRating must be between 0 and 5")
	}

	page := query.PageFilter{Page: q.Page, Limit: q.Limit}.Normalize(defaultListLimit, constants.MaxLimit)
	movies, total, err := s.movieRepo.List(ctx, domainMovie.ListFilter{
		Page:             page,
		Sort:             query.SortFilter{SortBy: q.SortBy, Order: q.Order},
		CategorySlug:     strings.TrimSpace(q.Category),
		MinRating:        q.MinRating,
		Search:           strings.TrimSpace(q.Search),
		IncludeAllStatus: q.IncludeAllStatus,
	})
	if err != nil {
		s.logger.Errorw("failed to list movies", "error", err)
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	items := make([]*MovieResponse, 0, len(movies))
	for _, m := range movies {
		items = append(items, s.toResponse(m))
	}
	return &ListResponse{
		Movies:     items,
		Pagination: utils.NewPagination(page, total),
	}, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*MovieResponse, error) {
	m, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Errorw("failed to get movie", "movie_id", id, "error", err)
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	if m == nil {
		return nil, errors.NewNotFoundError(msgMovieNotFound)
	}
	return s.toResponse(m), nil
}

// Create adds a movie. An uploaded poster wins over posterUrl.
func (s *Service) Create(ctx context.Context, input MovieInput, file *storage.UploadedFile) (*MovieResponse, error) {
	changes, err := input.changes(file)
	if err != nil {
		return nil, err
	}
	m, err := domainMovie.NewMovie(changes)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.movieRepo.Create(ctx, m); err != nil {
			return err
		}
		return s.replaceCategories(ctx, m.ID(), input.Categories)
	})
	if err != nil {
		s.logger.Warnw("failed to create movie", "title", m.Title(), "error", err)
		return nil, err
	}

	s.logger.Infow("movie created", "movie_id", m.ID(), "title", m.Title())
	return s.Get(ctx, m.ID())
}

// Update applies the provided fields. The poster comes from the uploaded file,
// then posterUrl, and is otherwise kept. Categories are replaced only when a
// non-empty list is sent.
func (s *Service) Update(ctx context.Context, id uint, input MovieInput, file *storage.UploadedFile) (*MovieResponse, error) {
	changes, err := input.changes(file)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		m, err := s.movieRepo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get movie: %w", err)
		}
		if m == nil {
			return errors.NewNotFoundError(msgMovieNotFound)
		}
		if err := m.Apply(changes); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := s.movieRepo.Update(ctx, m); err != nil {
			return err
		}
		return s.replaceCategories(ctx, id, input.Categories)
	})
	if err != nil {
		if !errors.IsAppError(err) {
			s.logger.Errorw("failed to update movie", "movie_id", id, "error", err)
		}
		return nil, err
	}

	s.logger.Infow("movie updated", "movie_id", id)
	return s.Get(ctx, id)
}

// Delete removes the movie together with its notes, watchlist entries and history.
func (s *Service) Delete(ctx context.Context, id uint) (*MessageResponse, error) {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.movieRepo.Delete(ctx, id)
	})
	if err != nil {
		if !errors.IsAppError(err) {
			s.logger.Errorw("failed to delete movie", "movie_id", id, "error", err)
		}
		return nil, err
	}
	s.logger.Infow("movie deleted", "movie_id", id)
	return &MessageResponse{Message: msgMovieDeleted}, nil
}

// UploadPoster reports where a standalone poster upload was stored.
func (s *Service) UploadPoster(_ context.Context, file *storage.UploadedFile) (*UploadResponse, error) {
	if file == nil {
		return nil, errors.NewValidationError("No file uploaded")
	}
	return &UploadResponse{URL: file.URL, Filename: file.Filename}, nil
}

func (s *Service) replaceCategories(ctx context.Context, movieID uint, ids IDList) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	known := make(map[uint]bool, len(found))
	for _, c := range found {
		known[c.ID()] = true
	}
	for _, id := range ids {
		if !known[id] {
			return errors.NewValidationError("Unknown category", fmt.Sprintf("category %d does not exist", id))
		}
	}
	return s.movieRepo.ReplaceCategories(ctx, movieID, ids)
}

func (s *Service) toResponse(m *domainMovie.Movie) *MovieResponse {
	html := ""
	if m.Description() != "" {
		rendered, err := s.renderer.ToHTML(m.Description())
		if err != nil {
			s.logger.Warnw("failed to render movie description", "movie_id", m.ID(), "error", err)
		} else {
			html = rendered
		}
	}
	return toMovieResponse(m, html)
}

func (in MovieInput) changes(file *storage.UploadedFile) (domainMovie.Changes, error) {
	c := domainMovie.Changes{
		Title:       in.Title,
		Description: in.Description,
		Duration:    in.Duration,
		Poster:      in.Poster,
		Trailer:     in.Trailer,
	}

	switch {
	case file != nil:
		c.Poster = &file.URL
	case in.PosterURL != nil && strings.TrimSpace(*in.PosterURL) != "":
		c.Poster = in.PosterURL
	}

	if in.ReleaseDate != nil && strings.TrimSpace(*in.ReleaseDate) != "" {
		d, err := parseDate(*in.ReleaseDate)
		if err != nil {
			return c, errors.NewValidationError("releaseDate must be a date in YYYY-MM-DD format")
		}
		c.ReleaseDate = &d
	}

	if in.Status != nil {
		status := domainMovie.Status(strings.TrimSpace(*in.Status))
		c.Status = &status
	}
	return c, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if d, err := time.Parse(commondto.DateLayout, raw); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, raw)
}
