package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cinezone/cinezone/internal/shared/constants"
	"github.com/cinezone/cinezone/internal/shared/query"
)

// Pagination is the pagination block returned by list endpoints.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(filter query.PageFilter, total int64) Pagination {
	return Pagination{
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: filter.TotalPages(total),
	}
}

// NormalizePage applies the default limit and the global cap.
func NormalizePage(page, limit int) query.PageFilter {
	return query.PageFilter{Page: page, Limit: limit}.Normalize(constants.DefaultLimit, constants.MaxLimit)
}

// ParsePagination reads page and limit from the query string.
func ParsePagination(c *gin.Context) query.PageFilter {
	return NormalizePage(parseQueryInt(c, "page"), parseQueryInt(c, "limit"))
}

func parseQueryInt(c *gin.Context, key string) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return 0
}
