package storage

import (
	"context"

	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/domain/models"
)

var (
	MovieSortSafelist = []string{"id", "title", "director", "genre", "release_date"}
	UserSortSafelist  = []string{"id", "name", "email"}
)

// Repository is the CRUD contract shared by every entity repository.
// Find returns nil, nil when no entity has the given key.
// Add, Update and Delete persist immediately.
type Repository[T any, K comparable] interface {
	Find(ctx context.Context, key K) (*T, error)
	List(ctx context.Context, f filters.Filters) ([]T, error)
	Add(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, entity *T) error
}

type MovieRepository interface {
	Repository[models.Movie, int]
	// FindByTitle returns the first movie (lowest id) whose title contains title, ignoring case.
	FindByTitle(ctx context.Context, title string) (*models.Movie, error)
	// MostPopular returns up to limit movies ordered by watcher count desc, id asc.
	MostPopular(ctx context.Context, limit int) ([]models.Movie, error)
}

type UserRepository interface {
	Repository[models.User, int]
	FindByName(ctx context.Context, name string) (*models.User, error)
	// AddWatchedMovie and RemoveWatchedMovie change user's collection in memory
	// and are persisted by UnitOfWork.SaveChanges.
	AddWatchedMovie(user *models.User, movie *models.Movie)
	RemoveWatchedMovie(user *models.User, movie *models.Movie)
}

type UnitOfWork interface {
	Movies() MovieRepository
	Users() UserRepository
	// SaveChanges flushes pending changes and reports whether any row was affected.
	SaveChanges(ctx context.Context) (bool, error)
}

type UnitOfWorkFactory interface {
	NewUnitOfWork() UnitOfWork
}
