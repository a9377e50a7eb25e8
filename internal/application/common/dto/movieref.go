// Package dto holds response fragments shared by several application packages.
package dto

import (
	"context"
	"fmt"
	"time"

	"github.com/cinezone/cinezone/internal/domain/movie"
)

// MovieRef is the short movie description embedded in note, history and
// watchlist responses.
type MovieRef struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Poster        *string    `json:"poster"`
	ReleaseDate   *string    `json:"releaseDate,omitempty"`
	AverageRating *float64   `json:"averageRating,omitempty"`
}

// DateLayout is the wire format of calendar dates such as release dates.
const DateLayout = "2006-01-02"

// FormatDate renders t as a calendar date; nil stays nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

func ToMovieRef(m *movie.Movie) *MovieRef {
	if m == nil {
		return nil
	}
	return &MovieRef{
		ID:     m.ID(),
		Title:  m.Title(),
		Poster: m.Poster(),
	}
}

// LoadMovies fetches the distinct movies behind ids, keyed by id. Ids with no
// movie are simply absent from the map.
func LoadMovies(ctx context.Context, repo movie.Repository, ids []uint) (map[uint]*movie.Movie, error) {
	byID := make(map[uint]*movie.Movie, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	movies, err := repo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load movies: %w", err)
	}
	for _, m := range movies {
		byID[m.ID()] = m
	}
	return byID, nil
}
