package watchlist

import (
	"time"

	commondto "github.com/cinezone/cinezone/internal/application/common/dto"
	"github.com/cinezone/cinezone/internal/domain/movie"
)

// WatchedMovie is the movie block of a watchlist item. The field keeps the
// movieId name and the _id alias the web client reads.
type WatchedMovie struct {
	LegacyID      uint    `json:"_id"`
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	Poster        *string `json:"poster"`
	ReleaseDate   *string `json:"releaseDate"`
	AverageRating float64 `json:"averageRating"`
}

type ItemResponse struct {
	Movie     WatchedMovie `json:"movieId"`
	CreatedAt time.Time    `json:"createdAt"`
}

type ListResponse struct {
	Watchlist []*ItemResponse `json:"watchlist"`
}

type AddResponse struct {
	Watchlist *ItemResponse `json:"watchlist"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func toItem(m *movie.Movie, createdAt time.Time) *ItemResponse {
	return &ItemResponse{
		Movie: WatchedMovie{
			LegacyID:      m.ID(),
			ID:            m.ID(),
			Title:         m.Title(),
			Poster:        m.Poster(),
			ReleaseDate:   commondto.FormatDate(m.ReleaseDate()),
			AverageRating: m.RatingSummary().Average,
		},
		CreatedAt: createdAt,
	}
}
