package category

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const maxNameLength = 50

type Category struct {
	id          uint
	name        string
	slug        string
	description *string
	createdAt   time.Time
	updatedAt   time.Time
}

func NewCategory(name string, description *string) (*Category, error) {
	c := &Category{}
	if err := c.Rename(name); err != nil {
		return nil, err
	}
	c.SetDescription(description)
	c.createdAt = c.updatedAt
	return c, nil
}

func ReconstructCategory(id uint, name, slug string, description *string, createdAt, updatedAt time.Time) *Category {
	return &Category{
		id:          id,
		name:        name,
		slug:        slug,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c *Category) ID() uint             { return c.id }
func (c *Category) Name() string         { return c.name }
func (c *Category) Slug() string         { return c.slug }
func (c *Category) Description() *string { return c.description }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
func (c *Category) UpdatedAt() time.Time { return c.updatedAt }

func (c *Category) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("category ID is already set")
	}
	c.id = id
	return nil
}

// Rename changes the name and derives a new slug from it.
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return fmt.Errorf("category name cannot exceed %d characters", maxNameLength)
	}
	slug := Slugify(name)
	if slug == "" {
		return fmt.Errorf("category name must contain at least one letter or digit")
	}

	c.name = name
	c.slug = slug
	c.updatedAt = time.Now().UTC()
	return nil
}

// SetDescription stores description; blank text clears it.
func (c *Category) SetDescription(description *string) {
	if description != nil && strings.TrimSpace(*description) == "" {
		description = nil
	}
	c.description = description
	c.updatedAt = time.Now().UTC()
}
