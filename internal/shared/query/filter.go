package query

import "strings"

// PageFilter is a 1-based page/limit pair as accepted on list endpoints.
type PageFilter struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// Normalize applies defaults and caps the limit.
func (f PageFilter) Normalize(defaultLimit, maxLimit int) PageFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	return f
}

func (f PageFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// TotalPages rounds up; zero items yields zero pages.
func (f PageFilter) TotalPages(total int64) int {
	if f.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(f.Limit) - 1) / int64(f.Limit))
}

type SortFilter struct {
	SortBy string `form:"sortBy" json:"sortBy"`
	Order  string `form:"order" json:"order"`
}

func (f SortFilter) IsAscending() bool {
	return strings.EqualFold(f.Order, "asc")
}

// OrderClause maps SortBy through allowed (request name -> column) and falls
// back to fallback when the name is not whitelisted. Direction defaults to DESC.
func (f SortFilter) OrderClause(allowed map[string]string, fallback string) string {
	column, ok := allowed[f.SortBy]
	if !ok {
		column = fallback
	}
	if f.IsAscending() {
		return column + " ASC"
	}
	return column + " DESC"
}
