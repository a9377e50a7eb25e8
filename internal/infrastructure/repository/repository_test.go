package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cinezone/cinezone/internal/domain/category"
	"github.com/cinezone/cinezone/internal/domain/history"
	"github.com/cinezone/cinezone/internal/domain/movie"
	"github.com/cinezone/cinezone/internal/domain/note"
	"github.com/cinezone/cinezone/internal/domain/user"
	"github.com/cinezone/cinezone/internal/domain/watchlist"
	"github.com/cinezone/cinezone/internal/infrastructure/persistence/testdb"
	"github.com/cinezone/cinezone/internal/shared/authorization"
	"github.com/cinezone/cinezone/internal/shared/db"
	apperrors "github.com/cinezone/cinezone/internal/shared/errors"
	"github.com/cinezone/cinezone/internal/shared/query"
)

func strPtr(s string) *string { return &s }

func createUser(t *testing.T, gdb *gorm.DB, email string) *user.User {
	t.Helper()
	u, err := user.NewUser(email, "hash", "Jane", "Doe", authorization.RoleUser)
	require.NoError(t, err)
	require.NoError(t, NewUserRepository(gdb).Create(context.Background(), u))
	return u
}

func createMovie(t *testing.T, gdb *gorm.DB, title string, status movie.Status) *movie.Movie {
	t.Helper()
	m, err := movie.NewMovie(movie.Changes{Title: &title, Status: &status})
	require.NoError(t, err)
	require.NoError(t, NewMovieRepository(gdb).Create(context.Background(), m))
	return m
}

func createCategory(t *testing.T, gdb *gorm.DB, name string) *category.Category {
	t.Helper()
	c, err := category.NewCategory(name, nil)
	require.NoError(t, err)
	require.NoError(t, NewCategoryRepository(gdb).Create(context.Background(), c))
	return c
}

func TestUserRepository(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewUserRepository(gdb)
	ctx := context.Background()

	u := createUser(t, gdb, "jane@example.com")
	assert.NotZero(t, u.ID())

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		dup, err := user.NewUser("jane@example.com", "hash", "J", "D", authorization.RoleUser)
		require.NoError(t, err)
		err = repo.Create(ctx, dup)
		assert.True(t, apperrors.IsConflictError(err))
	})

	t.Run("lookup by email", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, u.ID(), found.ID())

		missing, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("exists by email excludes self", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "jane@example.com", u.ID())
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "jane@example.com", 0)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("search and paginate", func(t *testing.T) {
		createUser(t, gdb, "john@example.com")
		list, total, err := repo.List(ctx, user.ListFilter{Page: query.PageFilter{Page: 1, Limit: 1}, Search: "john"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "john@example.com", list[0].Email())
	})

	t.Run("delete missing user", func(t *testing.T) {
		err := repo.Delete(ctx, 9999)
		assert.True(t, apperrors.IsNotFoundError(err))
	})
}

func TestMovieRepository_List(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewMovieRepository(gdb)
	ctx := context.Background()

	drama := createCategory(t, gdb, "Drama")
	heat := createMovie(t, gdb, "Heat", movie.StatusPublished)
	createMovie(t, gdb, "Heathers", movie.StatusDraft)
	alien := createMovie(t, gdb, "Alien", movie.StatusPublished)

	require.NoError(t, repo.ReplaceCategories(ctx, heat.ID(), []uint{drama.ID(), drama.ID()}))
	require.NoError(t, repo.UpdateRatingSummary(ctx, alien.ID(), movie.RatingSummary{Average: 4.5, Count: 2}))

	page := query.PageFilter{Page: 1, Limit: 10}

	t.Run("published only by default", func(t *testing.T) {
		list, total, err := repo.List(ctx, movie.ListFilter{Page: page})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, list, 2)
	})

	t.Run("all statuses", func(t *testing.T) {
		_, total, err := repo.List(ctx, movie.ListFilter{Page: page, IncludeAllStatus: true})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
	})

	t.Run("search by title", func(t *testing.T) {
		list, total, err := repo.List(ctx, movie.ListFilter{Page: page, Search: "hea", IncludeAllStatus: true})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, list, 2)
	})

	t.Run("category slug", func(t *testing.T) {
		list, total, err := repo.List(ctx, movie.ListFilter{Page: page, CategorySlug: "drama"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "Heat", list[0].Title())
		require.Len(t, list[0].Categories(), 1)
		assert.Equal(t, "Drama", list[0].Categories()[0].Name())
	})

	t.Run("min rating", func(t *testing.T) {
		minRating := 4.0
		list, _, err := repo.List(ctx, movie.ListFilter{Page: page, MinRating: &minRating})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, alien.ID(), list[0].ID())
		assert.Equal(t, 4.5, list[0].RatingSummary().Average)
		assert.Equal(t, 2, list[0].RatingSummary().Count)
	})

	t.Run("sort by title ascending", func(t *testing.T) {
		list, _, err := repo.List(ctx, movie.ListFilter{
			Page: page,
			Sort: query.SortFilter{SortBy: "title", Order: "asc"},
		})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Alien", list[0].Title())
		assert.Equal(t, "Heat", list[1].Title())
	})
}

func TestMovieRepository_LockAndDelete(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewMovieRepository(gdb)
	ctx := context.Background()
	tm := db.NewTransactionManager(gdb)

	m := createMovie(t, gdb, "Heat", movie.StatusPublished)
	u := createUser(t, gdb, "jane@example.com")
	n, err := note.NewNote(u.ID(), m.ID(), 4, nil)
	require.NoError(t, err)
	require.NoError(t, NewNoteRepository(gdb).Create(ctx, n))

	err = tm.RunInTransaction(ctx, func(ctx context.Context) error {
		found, err := repo.LockForRatingUpdate(ctx, m.ID())
		require.NoError(t, err)
		assert.True(t, found)

		found, err = repo.LockForRatingUpdate(ctx, 9999)
		require.NoError(t, err)
		assert.False(t, found)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, m.ID()))
	got, err := repo.GetByID(ctx, m.ID())
	require.NoError(t, err)
	assert.Nil(t, got)

	ratings, err := NewNoteRepository(gdb).RatingsForMovie(ctx, m.ID())
	require.NoError(t, err)
	assert.Empty(t, ratings)

	assert.True(t, apperrors.IsNotFoundError(repo.Delete(ctx, m.ID())))
}

func TestNoteRepository(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewNoteRepository(gdb)
	ctx := context.Background()

	m := createMovie(t, gdb, "Heat", movie.StatusPublished)
	jane := createUser(t, gdb, "jane@example.com")
	john := createUser(t, gdb, "john@example.com")

	n1, err := note.NewNote(jane.ID(), m.ID(), 4, strPtr("great"))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, n1))
	n2, err := note.NewNote(john.ID(), m.ID(), 2.5, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, n2))

	t.Run("duplicate rating is a conflict", func(t *testing.T) {
		dup, err := note.NewNote(jane.ID(), m.ID(), 1, nil)
		require.NoError(t, err)
		assert.True(t, apperrors.IsConflictError(repo.Create(ctx, dup)))
	})

	t.Run("ratings for movie", func(t *testing.T) {
		ratings, err := repo.RatingsForMovie(ctx, m.ID())
		require.NoError(t, err)
		assert.ElementsMatch(t, []float64{4, 2.5}, ratings)
	})

	t.Run("ownership", func(t *testing.T) {
		got, err := repo.GetForUser(ctx, n1.ID(), john.ID())
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.GetForUser(ctx, n1.ID(), jane.ID())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "great", *got.Comment())
	})

	t.Run("update", func(t *testing.T) {
		rating := 5.0
		require.NoError(t, n1.Update(&rating, nil))
		require.NoError(t, repo.Update(ctx, n1))

		got, err := repo.GetByUserAndMovie(ctx, jane.ID(), m.ID())
		require.NoError(t, err)
		assert.Equal(t, 5.0, got.Rating())
	})

	t.Run("list by movie", func(t *testing.T) {
		list, err := repo.ListByMovie(ctx, m.ID())
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("deleting a user removes their notes", func(t *testing.T) {
		require.NoError(t, NewUserRepository(gdb).Delete(ctx, john.ID()))
		list, err := repo.ListByUser(ctx, john.ID())
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestWatchlistRepository(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewWatchlistRepository(gdb)
	ctx := context.Background()

	m := createMovie(t, gdb, "Heat", movie.StatusPublished)
	u := createUser(t, gdb, "jane@example.com")

	e, err := watchlist.NewEntry(u.ID(), m.ID())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, e))
	assert.NotZero(t, e.ID())

	dup, err := watchlist.NewEntry(u.ID(), m.ID())
	require.NoError(t, err)
	assert.True(t, apperrors.IsConflictError(repo.Create(ctx, dup)))

	list, err := repo.ListByUser(ctx, u.ID())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, u.ID(), m.ID()))
	assert.True(t, apperrors.IsNotFoundError(repo.Delete(ctx, u.ID(), m.ID())))

	got, err := repo.Get(ctx, u.ID(), m.ID())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHistoryRepository(t *testing.T) {
	gdb := testdb.New(t)
	repo := NewHistoryRepository(gdb)
	ctx := context.Background()

	m := createMovie(t, gdb, "Heat", movie.StatusPublished)
	u := createUser(t, gdb, "jane@example.com")

	for _, action := range []history.Action{history.ActionView, history.ActionRate, history.ActionView} {
		e, err := history.NewEntry(u.ID(), m.ID(), action, map[string]any{"rating": 4.5})
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, e))
	}

	list, total, err := repo.List(ctx, history.ListFilter{UserID: u.ID(), Page: query.PageFilter{Page: 1, Limit: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, list, 2)

	list, total, err = repo.List(ctx, history.ListFilter{
		UserID: u.ID(),
		Page:   query.PageFilter{Page: 1, Limit: 10},
		Action: history.ActionRate,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, 4.5, list[0].Metadata()["rating"])
}
