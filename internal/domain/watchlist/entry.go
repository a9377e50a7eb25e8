package watchlist

import (
	"context"
	"fmt"
	"time"
)

// Entry marks a movie a user wants to watch.
type Entry struct {
	id        uint
	userID    uint
	movieID   uint
	createdAt time.Time
}

func NewEntry(userID, movieID uint) (*Entry, error) {
	if userID == 0 || movieID == 0 {
		return nil, fmt.Errorf("user ID and movie ID are required")
	}
	return &Entry{userID: userID, movieID: movieID, createdAt: time.Now().UTC()}, nil
}

func ReconstructEntry(id, userID, movieID uint, createdAt time.Time) *Entry {
	return &Entry{id: id, userID: userID, movieID: movieID, createdAt: createdAt}
}

func (e *Entry) ID() uint             { return e.id }
func (e *Entry) UserID() uint         { return e.userID }
func (e *Entry) MovieID() uint        { return e.movieID }
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

func (e *Entry) SetID(id uint) {
	e.id = id
}

type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	Delete(ctx context.Context, userID, movieID uint) error
	Get(ctx context.Context, userID, movieID uint) (*Entry, error)
	// ListByUser returns newest first.
	ListByUser(ctx context.Context, userID uint) ([]*Entry, error)
}
