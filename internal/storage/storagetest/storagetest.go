// Package storagetest checks any storage.UnitOfWorkFactory against the
// repository contract. The memory store, the gorm repositories over sqlite and
// the gorm repositories over postgres all run it.
package storagetest

import (
	"context"
	"testing"
	"time"

	"moviecatalog/proj/internal/domain/fields"
	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store.
type Factory func(t *testing.T) storage.UnitOfWorkFactory

func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.UnitOfWorkFactory)
	}{
		{"MovieCRUD", testMovieCRUD},
		{"UnreleasedMovie", testUnreleasedMovie},
		{"UserCRUD", testUserCRUD},
		{"FindByTitle", testFindByTitle},
		{"List", testList},
		{"WatchedMovies", testWatchedMovies},
		{"DeleteCascades", testDeleteCascades},
		{"MostPopular", testMostPopular},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func Movie(title string) *models.Movie {
	return &models.Movie{
		Title:       title,
		Director:    "Denis Villeneuve",
		Genre:       fields.SciFi,
		IsReleased:  true,
		ReleaseDate: fields.NewDate(2021, time.October, 22),
	}
}

func User(name string) *models.User {
	return &models.User{Name: name, Email: name + "@example.com"}
}

func addMovies(t *testing.T, s storage.UnitOfWorkFactory, titles ...string) []*models.Movie {
	t.Helper()
	movies := make([]*models.Movie, 0, len(titles))
	for _, title := range titles {
		m := Movie(title)
		require.NoError(t, s.NewUnitOfWork().Movies().Add(context.Background(), m))
		movies = append(movies, m)
	}
	return movies
}

func addUsers(t *testing.T, s storage.UnitOfWorkFactory, names ...string) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, len(names))
	for _, name := range names {
		u := User(name)
		require.NoError(t, s.NewUnitOfWork().Users().Add(context.Background(), u))
		users = append(users, u)
	}
	return users
}

func watch(t *testing.T, s storage.UnitOfWorkFactory, user *models.User, movie *models.Movie) {
	t.Helper()
	ctx := context.Background()
	uow := s.NewUnitOfWork()
	u, err := uow.Users().Find(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, u)
	uow.Users().AddWatchedMovie(u, movie)
	affected, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	require.True(t, affected)
}

func testMovieCRUD(t *testing.T, s storage.UnitOfWorkFactory) {
	ctx := context.Background()
	repo := s.NewUnitOfWork().Movies()

	missing, err := repo.Find(ctx, 1000)
	require.NoError(t, err)
	assert.Nil(t, missing)

	movie := Movie("Dune")
	require.NoError(t, repo.Add(ctx, movie))
	require.Positive(t, movie.ID)

	found, err := repo.Find(ctx, movie.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, movie.Title, found.Title)
	assert.Equal(t, movie.Director, found.Director)
	assert.Equal(t, movie.Genre, found.Genre)
	assert.Equal(t, movie.IsReleased, found.IsReleased)
	assert.True(t, movie.ReleaseDate.Equal(found.ReleaseDate.Time))
	assert.Empty(t, found.UsersWhoWatched)

	found.Title = "Dune: Part One"
	found.Genre = fields.Drama
	require.NoError(t, repo.Update(ctx, found))
	updated, err := repo.Find(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune: Part One", updated.Title)
	assert.Equal(t, fields.Drama, updated.Genre)

	require.NoError(t, repo.Delete(ctx, updated))
	gone, err := repo.Find(ctx, movie.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.ErrorIs(t, repo.Update(ctx, updated), storage.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, updated), storage.ErrNotFound)
}

func testUnreleasedMovie(t *testing.T, s storage.UnitOfWorkFactory) {
	ctx := context.Background()
	repo := s.NewUnitOfWork().Movies()

	movie := Movie("Dune: Part Three")
	movie.IsReleased = false
	movie.ReleaseDate = fields.NewDate(2030, time.January, 1)
	require.NoError(t, repo.Add(ctx, movie))
	assert.False(t, movie.IsReleased)

	found, err := repo.Find(ctx, movie.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.IsReleased)
	assert.Equal(t, "2030-01-01", found.ReleaseDate.String())

	found.IsReleased = true
	found.ReleaseDate = fields.NewDate(2026, time.March, 20)
	require.NoError(t, repo.Update(ctx, found))
	released, err := repo.Find(ctx, movie.ID)
	require.NoError(t, err)
	assert.True(t, released.IsReleased)

	released.IsReleased = false
	require.NoError(t, repo.Update(ctx, released))
	again, err := repo.Find(ctx, movie.ID)
	require.NoError(t, err)
	assert.False(t, again.IsReleased)
	assert.Equal(t, "2026-03-20", again.ReleaseDate.String())
}

func testUserCRUD(t *testing.T, s storage.UnitOfWorkFactory) {
	ctx := context.Background()
	repo := s.NewUnitOfWork().Users()
	user := User("alice")
	require.NoError(t, repo.Add(ctx, user))

	found, err := repo.FindByName(ctx, "LIC")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "alice@example.com", found.Email)

	found.Name = "alice cooper"
	require.NoError(t, repo.Update(ctx, found))
	reloaded, err := repo.Find(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice cooper", reloaded.Name)

	none, err := repo.FindByName(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, repo.Delete(ctx, reloaded))
	gone, err := repo.Find(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func testFindByTitle(t *testing.T, s storage.UnitOfWorkFactory) {
	ctx := context.Background()
	movies := addMovies(t, s, "Dune", "Dune: Part Two", "100% Arrival_")
	repo := s.NewUnitOfWork().Movies()

	found, err := repo.FindByTitle(ctx, "dUNE")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, movies[0].ID, found.ID)

	found, err = repo.FindByTitle(ctx, "part")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, movies[1].ID, found.ID)

	found, err = repo.FindByTitle(ctx, "0% a")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, movies[2].ID, found.ID)

	found, err = repo.FindByTitle(ctx, "%")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, movies[2].ID, found.ID)

	found, err = repo.FindByTitle(ctx, "sicario")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func ids(movies []models.Movie) []int {
	out := make([]int, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func testList(t *testing.T, s storage.UnitOfWorkFactory) {
	ctx := context.Background()
	movies := addMovies(t, s, "Dune", "Arrival", "Sicario")
	repo := s.NewUnitOfWork().Movies()

	all, err := repo.List(ctx, filters.Filters{SortSafelist: storage.MovieSortSafelist})
	require.NoError(t, err)
	assert.Equal(t, []int{movies[0].ID, movies[1].ID, movies[2].ID}, ids(all))

	sorted, err := repo.List(ctx, filters.Filters{Sort: "title", SortSafelist: storage.MovieSortSafelist})
	require.NoError(t, err)
	assert.Equal(t, []int{movies[1].ID, movies[0].ID, movies[2].ID}, ids(sorted))

	page, err := repo.List(ctx, filters.Filters{
		Sort:         "-title",
		Page:         2,
		PageSize:     2,
		SortSafelist: storage.MovieSortSafelist,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{movies[1].ID}, ids(page))

	users, err := s.NewUnitOfWork().Users().List(ctx, filters.Filters{SortSafelist: storage.UserSortSafelist})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func testWatchedMovies(t *testing.T, s storage.UnitOfWorkFactory) {
	ctx := context.Background()
	movies := addMovies(t, s, "Dune", "Arrival")
	users := addUsers(t, s, "alice")

	uow := s.NewUnitOfWork()
	affected, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.False(t, affected)

	watch(t, s, users[0], movies[0])

	user, err := s.NewUnitOfWork().Users().Find(ctx, users[0].ID)
	require.NoError(t, err)
	require.Len(t, user.WatchedMovies, 1)
	assert.Equal(t, movies[0].ID, user.WatchedMovies[0].ID)
	assert.Len(t, user.WatchedMovies[0].UsersWhoWatched, 1)
	assert.True(t, user.HasWatched(movies[0].ID))

	movie, err := s.NewUnitOfWork().Movies().Find(ctx, movies[0].ID)
	require.NoError(t, err)
	assert.Len(t, movie.UsersWhoWatched, 1)

	// a stale snapshot that misses the pair hits the store's uniqueness
	uow = s.NewUnitOfWork()
	stale := *users[0]
	uow.Users().AddWatchedMovie(&stale, movies[0])
	_, err = uow.SaveChanges(ctx)
	assert.ErrorIs(t, err, storage.ErrConflict)

	uow = s.NewUnitOfWork()
	uow.Users().RemoveWatchedMovie(user, movies[1])
	affected, err = uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.False(t, affected)

	uow = s.NewUnitOfWork()
	uow.Users().RemoveWatchedMovie(user, movies[0])
	assert.False(t, user.HasWatched(movies[0].ID))
	affected, err = uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.True(t, affected)

	user, err = s.NewUnitOfWork().Users().Find(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Empty(t, user.WatchedMovies)
}

func testDeleteCascades(t *testing.T, s storage.UnitOfWorkFactory) {
	ctx := context.Background()
	movies := addMovies(t, s, "Dune", "Arrival")
	users := addUsers(t, s, "alice", "bobby")
	watch(t, s, users[0], movies[0])
	watch(t, s, users[0], movies[1])
	watch(t, s, users[1], movies[0])

	require.NoError(t, s.NewUnitOfWork().Movies().Delete(ctx, movies[0]))
	alice, err := s.NewUnitOfWork().Users().Find(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []int{movies[1].ID}, ids(alice.WatchedMovies))

	require.NoError(t, s.NewUnitOfWork().Users().Delete(ctx, users[0]))
	arrival, err := s.NewUnitOfWork().Movies().Find(ctx, movies[1].ID)
	require.NoError(t, err)
	assert.Empty(t, arrival.UsersWhoWatched)
}

func testMostPopular(t *testing.T, s storage.UnitOfWorkFactory) {
	ctx := context.Background()
	movies := addMovies(t, s, "A", "B", "C", "D", "E", "F", "G")
	users := addUsers(t, s, "alice", "bobby", "carol")
	watch(t, s, users[0], movies[2])
	watch(t, s, users[1], movies[2])
	watch(t, s, users[2], movies[2])
	watch(t, s, users[0], movies[5])
	watch(t, s, users[1], movies[5])
	watch(t, s, users[0], movies[6])
	watch(t, s, users[0], movies[3])

	popular, err := s.NewUnitOfWork().Movies().MostPopular(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{movies[2].ID, movies[5].ID, movies[3].ID, movies[6].ID, movies[0].ID}, ids(popular))
	for i := 1; i < len(popular); i++ {
		assert.GreaterOrEqual(t, len(popular[i-1].UsersWhoWatched), len(popular[i].UsersWhoWatched))
	}
	assert.Len(t, popular[0].UsersWhoWatched, 3)
}
