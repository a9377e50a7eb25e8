// Package watchlist manages the movies users keep aside for later.
package watchlist

import (
	"context"
	"fmt"

	commondto "github.com/cinezone/cinezone/internal/application/common/dto"
	"github.com/cinezone/cinezone/internal/application/history"
	domainHistory "github.com/cinezone/cinezone/internal/domain/history"
	"github.com/cinezone/cinezone/internal/domain/movie"
	domainWatchlist "github.com/cinezone/cinezone/internal/domain/watchlist"
	"github.com/cinezone/cinezone/internal/shared/db"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

const (
	msgMovieNotFound = "Movie not found"
	msgRemoved       = "Movie removed from the watchlist"
)

type Service struct {
	tx            db.Transactor
	watchlistRepo domainWatchlist.Repository
	movieRepo     movie.Repository
	history       history.Recorder
	logger        logger.Interface
}

func NewService(
	tx db.Transactor,
	watchlistRepo domainWatchlist.Repository,
	movieRepo movie.Repository,
	recorder history.Recorder,
	log logger.Interface,
) *Service {
	return &Service{
		tx:            tx,
		watchlistRepo: watchlistRepo,
		movieRepo:     movieRepo,
		history:       recorder,
		logger:        log,
	}
}

// List returns the user's watchlist newest first.
func (s *Service) List(ctx context.Context, userID uint) (*ListResponse, error) {
	entries, err := s.watchlistRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Errorw("failed to list watchlist", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}

	movieIDs := make([]uint, 0, len(entries))
	for _, e := range entries {
		movieIDs = append(movieIDs, e.MovieID())
	}
	movies, err := commondto.LoadMovies(ctx, s.movieRepo, movieIDs)
	if err != nil {
		return nil, err
	}

	items := make([]*ItemResponse, 0, len(entries))
	for _, e := range entries {
		m, ok := movies[e.MovieID()]
		if !ok {
			continue
		}
		items = append(items, toItem(m, e.CreatedAt()))
	}
	return &ListResponse{Watchlist: items}, nil
}

func (s *Service) Add(ctx context.Context, userID, movieID uint) (*AddResponse, error) {
	var item *ItemResponse
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		m, err := s.movieRepo.GetByID(ctx, movieID)
		if err != nil {
			return fmt.Errorf("failed to get movie: %w", err)
		}
		if m == nil {
			return errors.NewNotFoundError(msgMovieNotFound)
		}

		entry, err := domainWatchlist.NewEntry(userID, movieID)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := s.watchlistRepo.Create(ctx, entry); err != nil {
			return err
		}
		if err := s.history.Record(ctx, userID, movieID, domainHistory.ActionWatchlistAdd, nil); err != nil {
			return err
		}
		item = toItem(m, entry.CreatedAt())
		return nil
	})
	if err != nil {
		if !errors.IsAppError(err) {
			s.logger.Errorw("failed to add to watchlist", "user_id", userID, "movie_id", movieID, "error", err)
		}
		return nil, err
	}

	s.logger.Infow("movie added to watchlist", "user_id", userID, "movie_id", movieID)
	return &AddResponse{Watchlist: item}, nil
}

func (s *Service) Remove(ctx context.Context, userID, movieID uint) (*MessageResponse, error) {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.watchlistRepo.Delete(ctx, userID, movieID); err != nil {
			return err
		}
		return s.history.Record(ctx, userID, movieID, domainHistory.ActionWatchlistRemove, nil)
	})
	if err != nil {
		if !errors.IsAppError(err) {
			s.logger.Errorw("failed to remove from watchlist", "user_id", userID, "movie_id", movieID, "error", err)
		}
		return nil, err
	}

	s.logger.Infow("movie removed from watchlist", "user_id", userID, "movie_id", movieID)
	return &MessageResponse{Message: msgRemoved}, nil
}
