package movie

import (
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinezone/cinezone/internal/domain/category"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/testdb"
	"github.com/cinezone/cinezone/internal/infrastructure/repository"
	"github.com/cinezone/cinezone/internal/infrastructure/storage"
	"github.com/cinezone/cinezone/internal/shared/db"
	"github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/logger"
	"github.com/cinezone/cinezone/internal/shared/services/markdown"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func newTestService(t *testing.T) (*Service, category.Repository) {
	t.Helper()
	gdb := testdb.New(t)
	categories := repository.NewCategoryRepository(gdb)
	svc := NewService(
		db.NewTransactionManager(gdb),
		repository.NewMovieRepository(gdb),
		categories,
		markdown.NewRenderer(),
		logger.NewNop(),
	)
	return svc, categories
}

func seedCategory(t *testing.T, repo category.Repository, name string) uint {
	t.Helper()
	c, err := category.NewCategory(name, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), c))
	return c.ID()
}

func TestIDList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    IDList
		wantErr bool
	}{
		{"array", `[1,2]`, IDList{1, 2}, false},
		{"json string", `"[3, 4]"`, IDList{3, 4}, false},
		{"blank string", `"  "`, nil, false},
		{"garbage", `"drama"`, nil, true},
		{"object", `{"id":1}`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got IDList
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_CreateAndGet(t *testing.T) {
	svc, categories := newTestService(t)
	ctx := context.Background()
	drama := seedCategory(t, categories, "Drame")
	action := seedCategory(t, categories, "Action")

	created, err := svc.Create(ctx, MovieInput{
		Title:       strPtr("Heat"),
		Description: strPtr("A **crime** saga"),
		ReleaseDate: strPtr("1995-12-15"),
		Duration:    intPtr(170),
		PosterURL:   strPtr("https://image.example.org/heat.jpg"),
		Categories:  IDList{drama, action},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Heat", created.Title)
	assert.Equal(t, "published", created.Status)
	assert.Contains(t, created.DescriptionHTML, "<strong>crime</strong>")
	require.NotNil(t, created.ReleaseDate)
	assert.Equal(t, "1995-12-15", *created.ReleaseDate)
	require.NotNil(t, created.Poster)
	assert.Equal(t, "https://image.example.org/heat.jpg", *created.Poster)
	assert.Zero(t, created.AverageRating)
	assert.Zero(t, created.RatingsCount)
	require.Len(t, created.Categories, 2)
	assert.Equal(t, "action", created.Categories[0].Slug)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.Get(ctx, 9999)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestService_Create_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, MovieInput{}, nil)
	assert.True(t, errors.IsValidationError(err))

	_, err = svc.Create(ctx, MovieInput{Title: strPtr("Heat"), ReleaseDate: strPtr("15/12/1995")}, nil)
	assert.True(t, errors.IsValidationError(err))

	_, err = svc.Create(ctx, MovieInput{Title: strPtr("Heat"), Categories: IDList{42}}, nil)
	assert.True(t, errors.IsValidationError(err))

	list, err := svc.List(ctx, ListQuery{IncludeAllStatus: true})
	require.NoError(t, err)
	assert.Empty(t, list.Movies, "a rejected category list must not leave the movie behind")
}

func TestService_Update_PosterPriority(t *testing.T) {
	svc, categories := newTestService(t)
	ctx := context.Background()
	drama := seedCategory(t, categories, "Drame")

	created, err := svc.Create(ctx, MovieInput{
		Title:      strPtr("Ronin"),
		PosterURL:  strPtr("https://image.example.org/ronin.jpg"),
		Categories: IDList{drama},
	}, nil)
	require.NoError(t, err)

	t.Run("keeps existing poster and categories", func(t *testing.T) {
		updated, err := svc.Update(ctx, created.ID, MovieInput{Duration: intPtr(122)}, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://image.example.org/ronin.jpg", *updated.Poster)
		assert.Equal(t, 122, *updated.Duration)
		assert.Len(t, updated.Categories, 1)
	})

	t.Run("uploaded file wins over posterUrl", func(t *testing.T) {
		file := &storage.UploadedFile{Filename: "1700000000000-abcd1234.png", URL: "/uploads/1700000000000-abcd1234.png"}
		updated, err := svc.Update(ctx, created.ID, MovieInput{PosterURL: strPtr("https://other.example.org/p.jpg")}, file)
		require.NoError(t, err)
		assert.Equal(t, "/uploads/1700000000000-abcd1234.png", *updated.Poster)
	})

	t.Run("status change and category replacement", func(t *testing.T) {
		action := seedCategory(t, categories, "Action")
		updated, err := svc.Update(ctx, created.ID, MovieInput{Status: strPtr("draft"), Categories: IDList{action}}, nil)
		require.NoError(t, err)
		assert.Equal(t, "draft", updated.Status)
		require.Len(t, updated.Categories, 1)
		assert.Equal(t, action, updated.Categories[0].ID)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, MovieInput{Status: strPtr("deleted")}, nil)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("unknown movie", func(t *testing.T) {
		_, err := svc.Update(ctx, 9999, MovieInput{Title: strPtr("x")}, nil)
		assert.True(t, errors.IsNotFoundError(err))
	})
}

func TestService_ListAndDelete(t *testing.T) {
	svc, categories := newTestService(t)
	ctx := context.Background()
	drama := seedCategory(t, categories, "Drame")

	_, err := svc.Create(ctx, MovieInput{Title: strPtr("Heat"), Categories: IDList{drama}}, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, MovieInput{Title: strPtr("Ronin")}, nil)
	require.NoError(t, err)
	draft, err := svc.Create(ctx, MovieInput{Title: strPtr("Collateral"), Status: strPtr("draft")}, nil)
	require.NoError(t, err)

	list, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, list.Movies, 2)
	assert.Equal(t, int64(2), list.Pagination.Total)
	assert.Equal(t, 1, list.Pagination.Page)
	assert.Equal(t, defaultListLimit, list.Pagination.Limit)
	assert.Equal(t, 1, list.Pagination.TotalPages)

	all, err := svc.List(ctx, ListQuery{IncludeAllStatus: true, SortBy: "title", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, all.Movies, 3)
	assert.Equal(t, "Collateral", all.Movies[0].Title)

	byCategory, err := svc.List(ctx, ListQuery{Category: "drame"})
	require.NoError(t, err)
	require.Len(t, byCategory.Movies, 1)
	assert.Equal(t, "Heat", byCategory.Movies[0].Title)

	paged, err := svc.List(ctx, ListQuery{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, paged.Movies, 1)
	assert.Equal(t, 2, paged.Pagination.TotalPages)

	bad := 7.0
	_, err = svc.List(ctx, ListQuery{MinRating: &bad})
	assert.True(t, errors.IsValidationError(err))

	resp, err := svc.Delete(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, msgMovieDeleted, resp.Message)

	_, err = svc.Delete(ctx, draft.ID)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestService_UploadPoster(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UploadPoster(context.Background(), nil)
	assert.True(t, errors.IsValidationError(err))

	resp, err := svc.UploadPoster(context.Background(), &storage.UploadedFile{Filename: "a.png", URL: "/uploads/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", resp.URL)
	assert.Equal(t, "a.png", resp.Filename)
}
