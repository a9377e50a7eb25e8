// Package note implements user ratings of movies and keeps each movie's
// rating summary in step with them.
package note

import (
	"context"
	"fmt"

	commondto "github.com/cinezone/cinezone/internal/application/common/dto"
	"github.com/cinezone/cinezone/internal/application/history"
	domainHistory "github.com/cinezone/cinezone/internal/domain/history"
	"github.com/cinezone/cinezone/internal/domain/movie"
	domainNote "github.com/cinezone/cinezone/internal/domain/note"
	"github.com/cinezone/cinezone/internal/shared/db"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
)

const (
	msgNoteCreated   = "Note created successfully"
	msgNoteUpdated   = "Note updated successfully"
	msgNoteDeleted   = "Note deleted successfully"
	msgNoteNotFound  = "Note not found"
	msgMovieNotFound = "Movie not found"
)

// TextSanitizer removes markup from user supplied text.
type TextSanitizer interface {
	StripTags(text string) string
}

type Service struct {
	tx         db.Transactor
	noteRepo   domainNote.Repository
	movieRepo  movie.Repository
	aggregator Aggregator
	history    history.Recorder
	sanitizer  TextSanitizer
	logger     logger.Interface
}

func NewService(
	tx db.Transactor,
	noteRepo domainNote.Repository,
	movieRepo movie.Repository,
	aggregator Aggregator,
	recorder history.Recorder,
	sanitizer TextSanitizer,
	log logger.Interface,
) *Service {
	return &Service{
		tx:         tx,
		noteRepo:   noteRepo,
		movieRepo:  movieRepo,
		aggregator: aggregator,
		history:    recorder,
		sanitizer:  sanitizer,
		logger:     log,
	}
}

// Upsert creates the user's note on the movie or overwrites rating and
// comment of the existing one. The movie row stays locked until the summary
// has been recomputed, so concurrent ratings of one movie are applied one at
// a time.
func (s *Service) Upsert(ctx context.Context, userID, movieID uint, rating float64, comment *string) (*UpsertResponse, error) {
	if movieID == 0 {
		return nil, errors.NewValidationError("movieId is required")
	}
	comment = s.sanitize(comment)

	var (
		saved   *domainNote.Note
		created bool
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.lockMovie(ctx, movieID); err != nil {
			return err
		}

		existing, err := s.noteRepo.GetByUserAndMovie(ctx, userID, movieID)
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		if existing != nil {
			if err := existing.Rate(rating, comment); err != nil {
				return errors.NewValidationError(err.Error())
			}
			if err := s.noteRepo.Update(ctx, existing); err != nil {
				return fmt.Errorf("failed to update note: %w", err)
			}
			saved = existing
		} else {
			n, err := domainNote.NewNote(userID, movieID, rating, comment)
			if err != nil {
				return errors.NewValidationError(err.Error())
			}
			if err := s.noteRepo.Create(ctx, n); err != nil {
				return err
			}
			saved, created = n, true
		}

		if _, err := s.aggregator.Recompute(ctx, movieID); err != nil {
			return err
		}

		return s.history.Record(ctx, userID, movieID, domainHistory.ActionRate, map[string]any{
			"rating":  saved.Rating(),
			"comment": saved.Comment(),
		})
	})
	if err != nil {
		s.logFailure("upsert note", err, "user_id", userID, "movie_id", movieID)
		return nil, err
	}

	message := msgNoteUpdated
	if created {
		message = msgNoteCreated
	}
	s.logger.Infow("note saved", "note_id", saved.ID(), "user_id", userID, "movie_id", movieID, "created", created)

	return &UpsertResponse{
		Note:    ToNoteResponse(saved),
		Message: message,
		Created: created,
	}, nil
}

// Update changes the provided fields of one of the user's notes.
func (s *Service) Update(ctx context.Context, userID, noteID uint, rating *float64, comment *string) (*NoteResponse, error) {
	comment = s.sanitize(comment)

	var saved *domainNote.Note
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.ownedNote(ctx, userID, noteID)
		if err != nil {
			return err
		}
		if err := s.lockMovie(ctx, n.MovieID()); err != nil {
			return err
		}

		if err := n.Update(rating, comment); err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := s.noteRepo.Update(ctx, n); err != nil {
			return fmt.Errorf("failed to update note: %w", err)
		}

		if _, err := s.aggregator.Recompute(ctx, n.MovieID()); err != nil {
			return err
		}
		saved = n
		return nil
	})
	if err != nil {
		s.logFailure("update note", err, "user_id", userID, "note_id", noteID)
		return nil, err
	}

	s.logger.Infow("note updated", "note_id", noteID, "user_id", userID)
	return ToNoteResponse(saved), nil
}

// Delete removes one of the user's notes and recomputes the summary of the
// movie it belonged to.
func (s *Service) Delete(ctx context.Context, userID, noteID uint) (*MessageResponse, error) {
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.ownedNote(ctx, userID, noteID)
		if err != nil {
			return err
		}
		movieID := n.MovieID()
		if err := s.lockMovie(ctx, movieID); err != nil {
			return err
		}

		if err := s.noteRepo.Delete(ctx, n.ID()); err != nil {
			return err
		}

		_, err = s.aggregator.Recompute(ctx, movieID)
		return err
	})
	if err != nil {
		s.logFailure("delete note", err, "user_id", userID, "note_id", noteID)
		return nil, err
	}

	s.logger.Infow("note deleted", "note_id", noteID, "user_id", userID)
	return &MessageResponse{Message: msgNoteDeleted}, nil
}

// ListForUser returns the user's notes newest first, each with its movie.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]*NoteResponse, error) {
	notes, err := s.noteRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Errorw("failed to list user notes", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	movieIDs := make([]uint, 0, len(notes))
	for _, n := range notes {
		movieIDs = append(movieIDs, n.MovieID())
	}
	movies, err := commondto.LoadMovies(ctx, s.movieRepo, movieIDs)
	if err != nil {
		return nil, err
	}

	result := make([]*NoteResponse, 0, len(notes))
	for _, n := range notes {
		resp := ToNoteResponse(n)
		resp.Movie = commondto.ToMovieRef(movies[n.MovieID()])
		result = append(result, resp)
	}
	return result, nil
}

// ListForMovie returns every note on the movie newest first, without the
// author's user id.
func (s *Service) ListForMovie(ctx context.Context, movieID uint) ([]*NoteResponse, error) {
	notes, err := s.noteRepo.ListByMovie(ctx, movieID)
	if err != nil {
		s.logger.Errorw("failed to list movie notes", "movie_id", movieID, "error", err)
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	result := make([]*NoteResponse, 0, len(notes))
	for _, n := range notes {
		resp := ToNoteResponse(n)
		resp.UserID = 0
		result = append(result, resp)
	}
	return result, nil
}

func (s *Service) lockMovie(ctx context.Context, movieID uint) error {
	found, err := s.movieRepo.LockForRatingUpdate(ctx, movieID)
	if err != nil {
		return fmt.Errorf("failed to lock movie: %w", err)
	}
	if !found {
		return errors.NewNotFoundError(msgMovieNotFound)
	}
	return nil
}

func (s *Service) ownedNote(ctx context.Context, userID, noteID uint) (*domainNote.Note, error) {
	n, err := s.noteRepo.GetForUser(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if n == nil {
		return nil, errors.NewNotFoundError(msgNoteNotFound)
	}
	return n, nil
}

func (s *Service) sanitize(comment *string) *string {
	if comment == nil || s.sanitizer == nil {
		return comment
	}
	clean := s.sanitizer.StripTags(*comment)
	return &clean
}

func (s *Service) logFailure(op string, err error, keysAndValues ...any) {
	args := append(keysAndValues, "error", err)
	if errors.IsAppError(err) {
		s.logger.Warnw("failed to "+op, args...)
		return
	}
	s.logger.Errorw("failed to "+op, args...)
}
