package category

import "context"

type Repository interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Category, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Category, error)
	// List returns every category ordered by name.
	List(ctx context.Context) ([]*Category, error)
	// ExistsBySlug ignores the category with excludeID (0 to check all).
	ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error)
}
