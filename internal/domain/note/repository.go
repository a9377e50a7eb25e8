package note

import "context"

type Repository interface {
	Create(ctx context.Context, note *Note) error
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id uint) error
	// GetForUser returns the note only when it belongs to userID.
	GetForUser(ctx context.Context, id, userID uint) (*Note, error)
	GetByUserAndMovie(ctx context.Context, userID, movieID uint) (*Note, error)
	// ListByUser and ListByMovie return newest first.
	ListByUser(ctx context.Context, userID uint) ([]*Note, error)
	ListByMovie(ctx context.Context, movieID uint) ([]*Note, error)
	// RatingsForMovie returns every rating value stored for the movie.
	RatingsForMovie(ctx context.Context, movieID uint) ([]float64, error)
}
