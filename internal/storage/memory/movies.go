package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/storage"
)

type MovieRepository struct {
	store *Store
}

func (r *MovieRepository) Find(ctx context.Context, id int) (*models.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if _, ok := r.store.movies[id]; !ok {
		return nil, nil
	}
	m := r.store.movieLocked(id)
	return &m, nil
}

func (r *MovieRepository) all() []models.Movie {
	movies := make([]models.Movie, 0, len(r.store.movies))
	for id := range r.store.movies {
		movies = append(movies, r.store.movieLocked(id))
	}
	slices.SortFunc(movies, func(a, b models.Movie) int { return cmp.Compare(a.ID, b.ID) })
	return movies
}

func (r *MovieRepository) List(ctx context.Context, f filters.Filters) ([]models.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return paginate(r.all(), f, movieColumn, func(m models.Movie) int { return m.ID }), nil
}

func movieColumn(m models.Movie, column string) string {
	switch column {
	case "title":
		return m.Title
	case "director":
		return m.Director
	case "genre":
		return m.Genre.String()
	case "release_date":
		return m.ReleaseDate.String()
	}
	return ""
}

func (r *MovieRepository) Add(ctx context.Context, movie *models.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextMovieID++
	movie.ID = r.store.nextMovieID
	stored := *movie
	stored.UsersWhoWatched = nil
	r.store.movies[movie.ID] = stored
	return nil
}

func (r *MovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.movies[movie.ID]; !ok {
		return storage.ErrNotFound
	}
	stored := *movie
	stored.UsersWhoWatched = nil
	r.store.movies[movie.ID] = stored
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, movie *models.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.movies[movie.ID]; !ok {
		return storage.ErrNotFound
	}
	delete(r.store.movies, movie.ID)
	for p := range r.store.watched {
		if p.movieID == movie.ID {
			delete(r.store.watched, p)
		}
	}
	return nil
}

func (r *MovieRepository) FindByTitle(ctx context.Context, title string) (*models.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	needle := strings.ToLower(title)
	for _, m := range r.all() {
		if strings.Contains(strings.ToLower(m.Title), needle) {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *MovieRepository) MostPopular(ctx context.Context, limit int) ([]models.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	movies := r.all()
	slices.SortStableFunc(movies, func(a, b models.Movie) int {
		return cmp.Compare(len(b.UsersWhoWatched), len(a.UsersWhoWatched))
	})
	if len(movies) > limit {
		movies = movies[:limit]
	}
	return movies, nil
}
