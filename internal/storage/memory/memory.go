// Package memory keeps movies, users and watched pairs in process memory.
// It satisfies the storage contracts and backs tests and the "memory" db driver.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/storage"
)

type pair struct {
	userID  int
	movieID int
}

type Store struct {
	mu          sync.RWMutex
	movies      map[int]models.Movie
	users       map[int]models.User
	watched     map[pair]struct{}
	nextMovieID int
	nextUserID  int
}

func New() *Store {
	return &Store{
		movies:  make(map[int]models.Movie),
		users:   make(map[int]models.User),
		watched: make(map[pair]struct{}),
	}
}

func (s *Store) NewUnitOfWork() storage.UnitOfWork {
	uow := &UnitOfWork{store: s}
	uow.movies = &MovieRepository{store: s}
	uow.users = &UserRepository{store: s, uow: uow}
	return uow
}

// movieLocked returns the movie with its watchers. s.mu must be held.
func (s *Store) movieLocked(id int) models.Movie {
	m := s.movies[id]
	m.UsersWhoWatched = []models.User{}
	for p := range s.watched {
		if p.movieID == id {
			m.UsersWhoWatched = append(m.UsersWhoWatched, s.users[p.userID])
		}
	}
	slices.SortFunc(m.UsersWhoWatched, func(a, b models.User) int { return cmp.Compare(a.ID, b.ID) })
	return m
}

// userLocked returns the user with watched movies, each carrying its watchers. s.mu must be held.
func (s *Store) userLocked(id int) models.User {
	u := s.users[id]
	u.WatchedMovies = []models.Movie{}
	for p := range s.watched {
		if p.userID == id {
			u.WatchedMovies = append(u.WatchedMovies, s.movieLocked(p.movieID))
		}
	}
	slices.SortFunc(u.WatchedMovies, func(a, b models.Movie) int { return cmp.Compare(a.ID, b.ID) })
	return u
}

func paginate[T any](items []T, f filters.Filters, key func(T, string) string, id func(T) int) []T {
	column := f.SortColumn()
	desc := f.SortDirection() == filters.DescSort
	slices.SortStableFunc(items, func(a, b T) int {
		c := 0
		if column == "id" {
			c = cmp.Compare(id(a), id(b))
		} else {
			c = cmp.Compare(key(a, column), key(b, column))
		}
		if desc {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(id(a), id(b))
		}
		return c
	})
	if f.Limit() == 0 {
		return items
	}
	start := min(f.Offset(), len(items))
	end := min(start+f.Limit(), len(items))
	return items[start:end]
}

type change func(s *Store) (int64, error)

type UnitOfWork struct {
	store  *Store
	movies *MovieRepository
	users  *UserRepository

	mu      sync.Mutex
	pending []change
}

func (u *UnitOfWork) Movies() storage.MovieRepository {
	return u.movies
}

func (u *UnitOfWork) Users() storage.UserRepository {
	return u.users
}

func (u *UnitOfWork) track(c change) {
	u.mu.Lock()
	u.pending = append(u.pending, c)
	u.mu.Unlock()
}

// SaveChanges applies pending changes atomically: on error none of them stay applied.
func (u *UnitOfWork) SaveChanges(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	u.mu.Lock()
	pending := u.pending
	u.pending = nil
	u.mu.Unlock()
	if len(pending) == 0 {
		return false, nil
	}
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[pair]struct{}, len(s.watched))
	for p := range s.watched {
		snapshot[p] = struct{}{}
	}
	var affected int64
	for _, c := range pending {
		n, err := c(s)
		if err != nil {
			s.watched = snapshot
			return false, err
		}
		affected += n
	}
	return affected > 0, nil
}
