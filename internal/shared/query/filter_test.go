package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageFilter_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageFilter
		want PageFilter
	}{
		{"defaults", PageFilter{}, PageFilter{Page: 1, Limit: 10}},
		{"keeps values", PageFilter{Page: 3, Limit: 25}, PageFilter{Page: 3, Limit: 25}},
		{"caps limit", PageFilter{Page: 1, Limit: 9000}, PageFilter{Page: 1, Limit: 500}},
		{"negative page", PageFilter{Page: -2, Limit: 5}, PageFilter{Page: 1, Limit: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize(10, 500))
		})
	}
}

func TestPageFilter_OffsetAndPages(t *testing.T) {
	f := PageFilter{Page: 3, Limit: 20}
	assert.Equal(t, 40, f.Offset())
	assert.Equal(t, 3, f.TotalPages(41))
	assert.Equal(t, 2, f.TotalPages(40))
	assert.Equal(t, 0, f.TotalPages(0))
}

func TestSortFilter_OrderClause(t *testing.T) {
	allowed := map[string]string{"title": "title", "averageRating": "average_rating"}

	assert.Equal(t, "average_rating ASC", SortFilter{SortBy: "averageRating", Order: "ASC"}.OrderClause(allowed, "created_at"))
	assert.Equal(t, "title DESC", SortFilter{SortBy: "title"}.OrderClause(allowed, "created_at"))
	assert.Equal(t, "created_at DESC", SortFilter{SortBy: "1; DROP TABLE movies"}.OrderClause(allowed, "created_at"))
}
