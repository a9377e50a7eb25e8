package history

import (
	"time"

	commondto "github.com/cinezone/cinezone/internal/application/common/dto"
	"github.com/cinezone/cinezone/internal/shared/utils"
)

// ListQuery is read from the query string of GET /history.
type ListQuery struct {
	Page   int    `form:"page" json:"page"`
	Limit  int    `form:"limit" json:"limit"`
	Action string `form:"action" json:"action"`
}

type EntryResponse struct {
	ID        uint                `json:"id"`
	UserID    uint                `json:"userId"`
	MovieID   uint                `json:"movieId"`
	Action    string              `json:"action"`
	Metadata  map[string]any      `json:"metadata"`
	CreatedAt time.Time           `json:"createdAt"`
	Movie     *commondto.MovieRef `json:"movie,omitempty"`
}

type ListResponse struct {
	History    []*EntryResponse `json:"history"`
	Pagination utils.Pagination `json:"pagination"`
}
