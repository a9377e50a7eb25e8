package movie

import (
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	commondto "github.com/cinezone/cinezone/internal/application/common/dto"
	"github.com/cinezone/cinezone/internal/domain/category"
	domainMovie "github.com/cinezone/cinezone/internal/domain/movie"
	"github.com/cinezone/cinezone/internal/shared/utils"
)

// ListQuery is read from the query string of GET /movies.
type ListQuery struct {
	Page             int      `form:"page" json:"page"`
	Limit            int      `form:"limit" json:"limit"`
	Category         string   `form:"category" json:"category"`
	MinRating        *float64 `form:"minRating" json:"minRating"`
	Search           string   `form:"search" json:"search"`
	SortBy           string   `form:"sortBy" json:"sortBy"`
	Order            string   `form:"order" json:"order"`
	IncludeAllStatus bool     `form:"includeAllStatus" json:"includeAllStatus"`
}

// MovieInput is the admin create/update body. It arrives either as JSON or
// as multipart form fields next to a poster file.
type MovieInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ReleaseDate *string `json:"releaseDate"`
	Duration    *int    `json:"duration"`
	Poster      *string `json:"poster"`
	PosterURL   *string `json:"posterUrl"`
	Trailer     *string `json:"trailer"`
	Status      *string `json:"status"`
	Categories  IDList  `json:"categories"`
}

// IDList accepts [1,2] as well as the string "[1,2]" sent by multipart forms.
type IDList []uint

func (l *IDList) UnmarshalJSON(data []byte) error {
	var ids []uint
	if err := json.Unmarshal(data, &ids); err == nil {
		*l = ids
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("categories must be a list of ids")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*l = nil
		return nil
	}
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return fmt.Errorf("categories must be a list of ids")
	}
	*l = ids
	return nil
}

type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type MovieResponse struct {
	ID              uint          `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	DescriptionHTML string        `json:"descriptionHtml"`
	ReleaseDate     *string       `json:"releaseDate"`
	Duration        *int          `json:"duration"`
	Poster          *string       `json:"poster"`
	Trailer         *string       `json:"trailer"`
	Status          string        `json:"status"`
	AverageRating   float64       `json:"averageRating"`
	RatingsCount    int           `json:"ratingsCount"`
	Categories      []CategoryRef `json:"categories"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

type ListResponse struct {
	Movies     []*MovieResponse `json:"movies"`
	Pagination utils.Pagination `json:"pagination"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// UploadResponse answers POST /admin/upload.
type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

func toMovieResponse(m *domainMovie.Movie, descriptionHTML string) *MovieResponse {
	summary := m.RatingSummary()
	return &MovieResponse{
		ID:              m.ID(),
		Title:           m.Title(),
		Description:     m.Description(),
		DescriptionHTML: descriptionHTML,
		ReleaseDate:     commondto.FormatDate(m.ReleaseDate()),
		Duration:        m.Duration(),
		Poster:          m.Poster(),
		Trailer:         m.Trailer(),
		Status:          m.Status().String(),
		AverageRating:   summary.Average,
		RatingsCount:    summary.Count,
		Categories:      toCategoryRefs(m.Categories()),
		CreatedAt:       m.CreatedAt(),
		UpdatedAt:       m.UpdatedAt(),
	}
}

func toCategoryRefs(list []*category.Category) []CategoryRef {
	refs := make([]CategoryRef, 0, len(list))
	for _, c := range list {
		refs = append(refs, CategoryRef{ID: c.ID(), Name: c.Name(), Slug: c.Slug()})
	}
	return refs
}
