// Package history records and lists what users did with movies.
package history

import (
	"context"
	"fmt"

	commondto "github.com/cinezone/cinezone/internal/application/common/dto"
	domainHistory "github.com/cinezone/cinezone/internal/domain/history"
	"github.com/cinezone/cinezone/internal/domain/movie"
	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
	"github.com/cinezone/cinezone/internal/shared/query"
	"github.com/cinezone/cinezone/internal/shared/utils"
)

const (
	defaultListLimit = 20
	maxListLimit     = constants.MaxLimit
)

// Recorder appends history entries. Other services depend on this interface
// rather than on *Service.
type Recorder interface {
	Record(ctx context.Context, userID, movieID uint, action domainHistory.Action, metadata map[string]any) error
}

type Service struct {
	historyRepo domainHistory.Repository
	movieRepo   movie.Repository
	logger      logger.Interface
}

func NewService(historyRepo domainHistory.Repository, movieRepo movie.Repository, log logger.Interface) *Service {
	return &Service{
		historyRepo: historyRepo,
		movieRepo:   movieRepo,
		logger:      log,
	}
}

// Record appends one entry. It joins the caller's transaction when ctx carries one.
func (s *Service) Record(ctx context.Context, userID, movieID uint, action domainHistory.Action, metadata map[string]any) error {
	entry, err := domainHistory.NewEntry(userID, movieID, action, metadata)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}
	if err := s.historyRepo.Create(ctx, entry); err != nil {
		s.logger.Errorw("failed to record history", "user_id", userID, "movie_id", movieID, "action", action, "error", err)
		return fmt.Errorf("failed to record history: %w", err)
	}
	return nil
}

// List returns the user's history newest first, each entry with its movie.
func (s *Service) List(ctx context.Context, userID uint, q ListQuery) (*ListResponse, error) {
	action := domainHistory.Action(q.Action)
	if action != "" && !action.IsValid() {
		return nil, errors.NewValidationError("Invalid history action", q.Action)
	}

	page := query.PageFilter{Page: q.Page, Limit: q.Limit}.Normalize(defaultListLimit, maxListLimit)
	entries, total, err := s.historyRepo.List(ctx, domainHistory.ListFilter{
		UserID: userID,
		Page:   page,
		Action: action,
	})
	if err != nil {
		s.logger.Errorw("failed to list history", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	movieIDs := make([]uint, 0, len(entries))
	for _, e := range entries {
		movieIDs = append(movieIDs, e.MovieID())
	}
	movies, err := commondto.LoadMovies(ctx, s.movieRepo, movieIDs)
	if err != nil {
		return nil, err
	}

	items := make([]*EntryResponse, 0, len(entries))
	for _, e := range entries {
		item := &EntryResponse{
			ID:        e.ID(),
			UserID:    e.UserID(),
			MovieID:   e.MovieID(),
			Action:    string(e.Action()),
			Metadata:  e.Metadata(),
			CreatedAt: e.CreatedAt(),
		}
		if m, ok := movies[e.MovieID()]; ok {
			item.Movie = commondto.ToMovieRef(m)
			item.Movie.ReleaseDate = commondto.FormatDate(m.ReleaseDate())
		}
		items = append(items, item)
	}

	return &ListResponse{
		History:    items,
		Pagination: utils.NewPagination(page, total),
	}, nil
}
