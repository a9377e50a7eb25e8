package movie

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cinezone/cinezone/internal/domain/category"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
	minDuration          = 1
	maxDuration          = 1000
)

type Movie struct {
	id          uint
	title       string
	description string
	releaseDate *time.Time
	duration    *int
	poster      *string
	trailer     *string
	status      Status
	rating      RatingSummary
	categories  []*category.Category
	createdAt   time.Time
	updatedAt   time.Time
}

// Changes lists the fields an admin create or update sets; nil means untouched.
type Changes struct {
	Title       *string
	Description *string
	ReleaseDate *time.Time
	Duration    *int
	Poster      *string
	Trailer     *string
	Status      *Status
}

func NewMovie(changes Changes) (*Movie, error) {
	if changes.Title == nil {
		return nil, fmt.Errorf("title is required")
	}
	now := time.Now().UTC()
	m := &Movie{status: StatusPublished, createdAt: now, updatedAt: now}
	if err := m.Apply(changes); err != nil {
		return nil, err
	}
	return m, nil
}

type ReconstructParams struct {
	ID          uint
	Title       string
	Description string
	ReleaseDate *time.Time
	Duration    *int
	Poster      *string
	Trailer     *string
	Status      Status
	Rating      RatingSummary
	Categories  []*category.Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func ReconstructMovie(p ReconstructParams) *Movie {
	status := p.Status
	if !status.IsValid() {
		status = StatusPublished
	}
	return &Movie{
		id:          p.ID,
		title:       p.Title,
		description: p.Description,
		releaseDate: p.ReleaseDate,
		duration:    p.Duration,
		poster:      p.Poster,
		trailer:     p.Trailer,
		status:      status,
		rating:      p.Rating,
		categories:  p.Categories,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}
}

func (m *Movie) ID() uint                         { return m.id }
func (m *Movie) Title() string                    { return m.title }
func (m *Movie) Description() string              { return m.description }
func (m *Movie) ReleaseDate() *time.Time          { return m.releaseDate }
func (m *Movie) Duration() *int                   { return m.duration }
func (m *Movie) Poster() *string                  { return m.poster }
func (m *Movie) Trailer() *string                 { return m.trailer }
func (m *Movie) Status() Status                   { return m.status }
func (m *Movie) RatingSummary() RatingSummary     { return m.rating }
func (m *Movie) Categories() []*category.Category { return m.categories }
func (m *Movie) CreatedAt() time.Time             { return m.createdAt }
func (m *Movie) UpdatedAt() time.Time             { return m.updatedAt }
func (m *Movie) IsPublished() bool                { return m.status == StatusPublished }

func (m *Movie) SetID(id uint) error {
	if m.id != 0 {
		return fmt.Errorf("movie ID is already set")
	}
	m.id = id
	return nil
}

// Apply validates every provided field before changing any of them.
func (m *Movie) Apply(c Changes) error {
	next := *m

	if c.Title != nil {
		title := strings.TrimSpace(*c.Title)
		if title == "" {
			return fmt.Errorf("title cannot be empty")
		}
		if utf8.RuneCountInString(title) > maxTitleLength {
			return fmt.Errorf("title cannot exceed %d characters", maxTitleLength)
		}
		next.title = title
	}
	if c.Description != nil {
		desc := strings.TrimSpace(*c.Description)
		if utf8.RuneCountInString(desc) > maxDescriptionLength {
			return fmt.Errorf("description cannot exceed %d characters", maxDescriptionLength)
		}
		next.description = desc
	}
	if c.ReleaseDate != nil {
		d := c.ReleaseDate.UTC()
		next.releaseDate = &d
	}
	if c.Duration != nil {
		if *c.Duration < minDuration || *c.Duration > maxDuration {
			return fmt.Errorf("duration must be between %d and %d minutes", minDuration, maxDuration)
		}
		d := *c.Duration
		next.duration = &d
	}
	if c.Poster != nil {
		next.poster = optionalString(*c.Poster)
	}
	if c.Trailer != nil {
		next.trailer = optionalString(*c.Trailer)
	}
	if c.Status != nil {
		if !c.Status.IsValid() {
			return fmt.Errorf("invalid status %q", *c.Status)
		}
		next.status = *c.Status
	}

	next.updatedAt = time.Now().UTC()
	*m = next
	return nil
}

func (m *Movie) SetCategories(categories []*category.Category) {
	m.categories = categories
}

// ApplyRatingSummary overwrites the denormalized rating pair.
func (m *Movie) ApplyRatingSummary(s RatingSummary) {
	m.rating = s
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
