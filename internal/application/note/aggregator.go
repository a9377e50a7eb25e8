package note

import (
	"context"
	"fmt"

	"github.com/cinezone/cinezone/internal/domain/movie"
	domainNote "github.com/cinezone/cinezone/internal/domain/note"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

// Aggregator recomputes the rating summary of one movie.
type Aggregator interface {
	Recompute(ctx context.Context, movieID uint) (movie.RatingSummary, error)
}

// RatingAggregator rebuilds (averageRating, ratingsCount) from every stored
// rating of the movie and writes the pair back onto the movie row. Callers
// run it in the same transaction as the rating write that triggered it.
type RatingAggregator struct {
	noteRepo  domainNote.Repository
	movieRepo movie.Repository
	logger    logger.Interface
}

func NewRatingAggregator(noteRepo domainNote.Repository, movieRepo movie.Repository, log logger.Interface) *RatingAggregator {
	return &RatingAggregator{
		noteRepo:  noteRepo,
		movieRepo: movieRepo,
		logger:    log,
	}
}

func (a *RatingAggregator) Recompute(ctx context.Context, movieID uint) (movie.RatingSummary, error) {
	ratings, err := a.noteRepo.RatingsForMovie(ctx, movieID)
	if err != nil {
		return movie.RatingSummary{}, fmt.Errorf("failed to load ratings: %w", err)
	}

	summary := movie.ComputeRatingSummary(ratings)
	if err := a.movieRepo.UpdateRatingSummary(ctx, movieID, summary); err != nil {
		return movie.RatingSummary{}, fmt.Errorf("failed to store rating summary: %w", err)
	}

	a.logger.Debugw("rating summary recomputed",
		"movie_id", movieID,
		"average", summary.Average,
		"count", summary.Count,
	)
	return summary, nil
}
