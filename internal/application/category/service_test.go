package category

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainCategory "github.com/cinezone/cinezone/internal/domain/category"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
	"github.com/cinezone/cinezone/internal/shared/services/markdown"
)

func strPtr(s string) *string { return &s }

func newService(repo *mockCategoryRepository) *Service {
	return NewService(inlineTransactor{}, repo, markdown.NewRenderer(), logger.NewNop())
}

func TestService_Create(t *testing.T) {
	t.Run("derives the slug and strips markup", func(t *testing.T) {
		var stored *domainCategory.Category
		repo := &mockCategoryRepository{
			CreateFunc: func(_ context.Context, c *domainCategory.Category) error {
				stored = c
				return c.SetID(3)
			},
		}

		resp, err := newService(repo).Create(context.Background(), CategoryInput{
			Name:        strPtr("<i>Science-Fiction</i>"),
			Description: strPtr("Space & <script>alert(1)</script>time"),
		})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, uint(3), resp.ID)
		assert.Equal(t, "Science-Fiction", resp.Name)
		assert.Equal(t, "science-fiction", resp.Slug)
		require.NotNil(t, resp.Description)
		assert.Equal(t, "Space & time", *resp.Description)
	})

	t.Run("slug already used", func(t *testing.T) {
		repo := &mockCategoryRepository{
			ExistsBySlugFunc: func(_ context.Context, slug string, excludeID uint) (bool, error) {
				assert.Equal(t, "comedie", slug)
				assert.Zero(t, excludeID)
				return true, nil
			},
			CreateFunc: func(context.Context, *domainCategory.Category) error {
				t.Fatal("Create must not be called")
				return nil
			},
		}
		_, err := newService(repo).Create(context.Background(), CategoryInput{Name: strPtr("Comédie")})
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := newService(&mockCategoryRepository{}).Create(context.Background(), CategoryInput{})
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestService_Update(t *testing.T) {
	existing := func() *domainCategory.Category {
		desc := "Old"
		return domainCategory.ReconstructCategory(5, "Horreur", "horreur", &desc, time.Now(), time.Now())
	}

	t.Run("rename checks other categories only", func(t *testing.T) {
		repo := &mockCategoryRepository{
			GetByIDFunc: func(context.Context, uint) (*domainCategory.Category, error) { return existing(), nil },
			ExistsBySlugFunc: func(_ context.Context, slug string, excludeID uint) (bool, error) {
				assert.Equal(t, "epouvante", slug)
				assert.Equal(t, uint(5), excludeID)
				return false, nil
			},
		}
		resp, err := newService(repo).Update(context.Background(), 5, CategoryInput{Name: strPtr("Épouvante")})
		require.NoError(t, err)
		assert.Equal(t, "epouvante", resp.Slug)
		assert.Equal(t, "Old", *resp.Description)
	})

	t.Run("description only keeps the slug", func(t *testing.T) {
		repo := &mockCategoryRepository{
			GetByIDFunc: func(context.Context, uint) (*domainCategory.Category, error) { return existing(), nil },
			ExistsBySlugFunc: func(context.Context, string, uint) (bool, error) {
				t.Fatal("slug must not be checked")
				return false, nil
			},
		}
		resp, err := newService(repo).Update(context.Background(), 5, CategoryInput{Description: strPtr("New")})
		require.NoError(t, err)
		assert.Equal(t, "horreur", resp.Slug)
		assert.Equal(t, "New", *resp.Description)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := newService(&mockCategoryRepository{}).Update(context.Background(), 5, CategoryInput{})
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestService_GetListDelete(t *testing.T) {
	repo := &mockCategoryRepository{
		ListFunc: func(context.Context) ([]*domainCategory.Category, error) {
			return []*domainCategory.Category{
				domainCategory.ReconstructCategory(1, "Action", "action", nil, time.Now(), time.Now()),
			}, nil
		},
		DeleteFunc: func(_ context.Context, id uint) error {
			if id != 1 {
				return errors.NewNotFoundError(msgCategoryNotFound)
			}
			return nil
		},
		GetByIDFunc: func(context.Context, uint) (*domainCategory.Category, error) {
			return nil, fmt.Errorf("connection reset")
		},
	}
	svc := newService(repo)
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "action", list[0].Slug)

	_, err = svc.Get(ctx, 1)
	require.Error(t, err)
	assert.False(t, errors.IsAppError(err))

	resp, err := svc.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, msgCategoryDeleted, resp.Message)

	_, err = svc.Delete(ctx, 2)
	assert.True(t, errors.IsNotFoundError(err))
}
