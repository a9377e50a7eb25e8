package category

import (
	"context"

	domainCategory "github.com/cinezone/cinezone/internal/domain/category"
)

type mockCategoryRepository struct {
	CreateFunc       func(ctx context.Context, c *domainCategory.Category) error
	UpdateFunc       func(ctx context.Context, c *domainCategory.Category) error
	DeleteFunc       func(ctx context.Context, id uint) error
	GetByIDFunc      func(ctx context.Context, id uint) (*domainCategory.Category, error)
	GetByIDsFunc     func(ctx context.Context, ids []uint) ([]*domainCategory.Category, error)
	ListFunc         func(ctx context.Context) ([]*domainCategory.Category, error)
	ExistsBySlugFunc func(ctx context.Context, slug string, excludeID uint) (bool, error)
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *domainCategory.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, c *domainCategory.Category) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id uint) (*domainCategory.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCategoryRepository) GetByIDs(ctx context.Context, ids []uint) ([]*domainCategory.Category, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domainCategory.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	if m.ExistsBySlugFunc != nil {
		return m.ExistsBySlugFunc(ctx, slug, excludeID)
	}
	return false, nil
}

// inlineTransactor runs fn directly.
type inlineTransactor struct{}

func (inlineTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
