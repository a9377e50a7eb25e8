package category

import (
	"time"

	domainCategory "github.com/cinezone/cinezone/internal/domain/category"
)

type CategoryInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CategoryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func ToCategoryResponse(c *domainCategory.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID(),
		Name:        c.Name(),
		Slug:        c.Slug(),
		Description: c.Description(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}
