package note

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cinezone/cinezone/internal/domain/movie"
)

const MaxCommentLength = 1000

// Note is one user's rating of one movie. At most one exists per (user, movie).
type Note struct {
	id        uint
	userID    uint
	movieID   uint
	rating    float64
	comment   *string
	createdAt time.Time
	updatedAt time.Time
}

func NewNote(userID, movieID uint, rating float64, comment *string) (*Note, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if movieID == 0 {
		return nil, fmt.Errorf("movie ID is required")
	}
	now := time.Now().UTC()
	n := &Note{userID: userID, movieID: movieID, createdAt: now, updatedAt: now}
	if err := n.Rate(rating, comment); err != nil {
		return nil, err
	}
	return n, nil
}

func ReconstructNote(id, userID, movieID uint, rating float64, comment *string, createdAt, updatedAt time.Time) *Note {
	return &Note{
		id:        id,
		userID:    userID,
		movieID:   movieID,
		rating:    rating,
		comment:   comment,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (n *Note) ID() uint             { return n.id }
func (n *Note) UserID() uint         { return n.userID }
func (n *Note) MovieID() uint        { return n.movieID }
func (n *Note) Rating() float64      { return n.rating }
func (n *Note) Comment() *string     { return n.comment }
func (n *Note) CreatedAt() time.Time { return n.createdAt }
func (n *Note) UpdatedAt() time.Time { return n.updatedAt }

func (n *Note) IsOwnedBy(userID uint) bool {
	return n.userID == userID
}

func (n *Note) SetID(id uint) error {
	if n.id != 0 {
		return fmt.Errorf("note ID is already set")
	}
	n.id = id
	return nil
}

// Rate overwrites both rating and comment; a nil comment clears it.
func (n *Note) Rate(rating float64, comment *string) error {
	r, err := normalizeRating(rating)
	if err != nil {
		return err
	}
	c, err := normalizeComment(comment)
	if err != nil {
		return err
	}
	n.rating = r
	n.comment = c
	n.updatedAt = time.Now().UTC()
	return nil
}

// Update changes only the provided fields.
func (n *Note) Update(rating *float64, comment *string) error {
	r := n.rating
	c := n.comment
	var err error
	if rating != nil {
		if r, err = normalizeRating(*rating); err != nil {
			return err
		}
	}
	if comment != nil {
		if c, err = normalizeComment(comment); err != nil {
			return err
		}
	}
	n.rating = r
	n.comment = c
	n.updatedAt = time.Now().UTC()
	return nil
}

func normalizeRating(v float64) (float64, error) {
	if !movie.IsValidRating(v) {
		return 0, fmt.Errorf("rating must be between %.0f and %.0f", movie.MinRating, movie.MaxRating)
	}
	return movie.RoundRating(v), nil
}

func normalizeComment(comment *string) (*string, error) {
	if comment == nil {
		return nil, nil
	}
	c := strings.TrimSpace(*comment)
	if utf8.RuneCountInString(c) > MaxCommentLength {
		return nil, fmt.Errorf("comment cannot exceed %d characters", MaxCommentLength)
	}
	if c == "" {
		return nil, nil
	}
	return &c, nil
}
