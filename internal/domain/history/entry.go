package history

import (
	"context"
	"fmt"
	"time"

	"github.com/cinezone/cinezone/internal/shared/query"
)

type Action string

const (
	ActionView            Action = "view"
	ActionRate            Action = "rate"
	ActionFavorite        Action = "favorite"
	ActionWatchlistAdd    Action = "watchlist_add"
	ActionWatchlistRemove Action = "watchlist_remove"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionView, ActionRate, ActionFavorite, ActionWatchlistAdd, ActionWatchlistRemove:
		return true
	}
	return false
}

// Entry is an append-only record of something a user did with a movie.
type Entry struct {
	id        uint
	userID    uint
	movieID   uint
	action    Action
	metadata  map[string]any
	createdAt time.Time
}

func NewEntry(userID, movieID uint, action Action, metadata map[string]any) (*Entry, error) {
	if userID == 0 || movieID == 0 {
		return nil, fmt.Errorf("user ID and movie ID are required")
	}
	if !action.IsValid() {
		return nil, fmt.Errorf("invalid history action %q", action)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Entry{
		userID:    userID,
		movieID:   movieID,
		action:    action,
		metadata:  metadata,
		createdAt: time.Now().UTC(),
	}, nil
}

func ReconstructEntry(id, userID, movieID uint, action Action, metadata map[string]any, createdAt time.Time) *Entry {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Entry{id: id, userID: userID, movieID: movieID, action: action, metadata: metadata, createdAt: createdAt}
}

func (e *Entry) ID() uint                 { return e.id }
func (e *Entry) UserID() uint             { return e.userID }
func (e *Entry) MovieID() uint            { return e.movieID }
func (e *Entry) Action() Action           { return e.action }
func (e *Entry) Metadata() map[string]any { return e.metadata }
func (e *Entry) CreatedAt() time.Time     { return e.createdAt }

func (e *Entry) SetID(id uint) {
	e.id = id
}

type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	// List returns the user's entries newest first.
	List(ctx context.Context, filter ListFilter) ([]*Entry, int64, error)
}

type ListFilter struct {
	UserID uint
	Page   query.PageFilter
	// Action filters on one action when set.
	Action Action
}
