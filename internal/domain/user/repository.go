package user

import (
	"context"

	"github.com/cinezone/cinezone/internal/shared/query"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ExistsByEmail ignores the user with excludeID (0 to check everyone).
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
}

// ListFilter matches Search against first name, last name and email.
type ListFilter struct {
	Page   query.PageFilter
	Search string
}
