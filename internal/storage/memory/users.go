package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/storage"
)

type UserRepository struct {
	store *Store
	uow   *UnitOfWork
}

func (r *UserRepository) Find(ctx context.Context, id int) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if _, ok := r.store.users[id]; !ok {
		return nil, nil
	}
	u := r.store.userLocked(id)
	return &u, nil
}

func (r *UserRepository) all() []models.User {
	users := make([]models.User, 0, len(r.store.users))
	for id := range r.store.users {
		users = append(users, r.store.userLocked(id))
	}
	slices.SortFunc(users, func(a, b models.User) int { return cmp.Compare(a.ID, b.ID) })
	return users
}

func (r *UserRepository) List(ctx context.Context, f filters.Filters) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return paginate(r.all(), f, userColumn, func(u models.User) int { return u.ID }), nil
}

func userColumn(u models.User, column string) string {
	switch column {
	case "name":
		return u.Name
	case "email":
		return u.Email
	}
	return ""
}

func (r *UserRepository) Add(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextUserID++
	user.ID = r.store.nextUserID
	stored := *user
	stored.WatchedMovies = nil
	r.store.users[user.ID] = stored
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	stored := *user
	stored.WatchedMovies = nil
	r.store.users[user.ID] = stored
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.users[user.ID]; !ok {
		return storage.ErrNotFound
	}
	delete(r.store.users, user.ID)
	for p := range r.store.watched {
		if p.userID == user.ID {
			delete(r.store.watched, p)
		}
	}
	return nil
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	needle := strings.ToLower(name)
	for _, u := range r.all() {
		if strings.Contains(strings.ToLower(u.Name), needle) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) AddWatchedMovie(user *models.User, movie *models.Movie) {
	user.WatchedMovies = append(user.WatchedMovies, *movie)
	p := pair{userID: user.ID, movieID: movie.ID}
	r.uow.track(func(s *Store) (int64, error) {
		if _, ok := s.users[p.userID]; !ok {
			return 0, fmt.Errorf("%w: user %d", storage.ErrNotFound, p.userID)
		}
		if _, ok := s.movies[p.movieID]; !ok {
			return 0, fmt.Errorf("%w: movie %d", storage.ErrNotFound, p.movieID)
		}
		if _, ok := s.watched[p]; ok {
			return 0, fmt.Errorf("%w: user %d already watched movie %d", storage.ErrConflict, p.userID, p.movieID)
		}
		s.watched[p] = struct{}{}
		return 1, nil
	})
}

func (r *UserRepository) RemoveWatchedMovie(user *models.User, movie *models.Movie) {
	user.WatchedMovies = slices.DeleteFunc(user.WatchedMovies, func(m models.Movie) bool { return m.ID == movie.ID })
	p := pair{userID: user.ID, movieID: movie.ID}
	r.uow.track(func(s *Store) (int64, error) {
		if _, ok := s.watched[p]; !ok {
			return 0, nil
		}
		delete(s.watched, p)
		return 1, nil
	})
}
