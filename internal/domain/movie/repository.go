package movie

import (
	"context"

	"github.com/cinezone/cinezone/internal/shared/query"
)

type Repository interface {
	Create(ctx context.Context, movie *Movie) error
	Update(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id uint) error
	// GetByID loads the movie with its categories.
	GetByID(ctx context.Context, id uint) (*Movie, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Movie, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// LockForRatingUpdate takes a row lock on the movie for the rest of the
	// surrounding transaction and reports whether the movie exists.
	LockForRatingUpdate(ctx context.Context, id uint) (bool, error)
	UpdateRatingSummary(ctx context.Context, id uint, summary RatingSummary) error
	ReplaceCategories(ctx context.Context, id uint, categoryIDs []uint) error
	List(ctx context.Context, filter ListFilter) ([]*Movie, int64, error)
}

// ListFilter drives the public catalog listing.
type ListFilter struct {
	Page query.PageFilter
	Sort query.SortFilter
	// CategorySlug keeps only movies in that category.
	CategorySlug string
	MinRating    *float64
	Search       string
	// IncludeAllStatus lists drafts and archived movies as well.
	IncludeAllStatus bool
}

// SortColumns whitelists sortBy values accepted from clients.
var SortColumns = map[string]string{
	"createdAt":     "created_at",
	"title":         "title",
	"releaseDate":   "release_date",
	"averageRating": "average_rating",
	"ratingsCount":  "ratings_count",
	"duration":      "duration",
}
