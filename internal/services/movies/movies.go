package movies

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/dto"
	"moviecatalog/proj/internal/lib/cache"
	"moviecatalog/proj/internal/lib/csvexport"
	"moviecatalog/proj/internal/storage"
)

const (
	PopularCacheKey = "movies:popular"
	ExportCacheKey  = "movies:export"
	PopularLimit    = 5
)

type Options struct {
	PopularTTL time.Duration
	ExportTTL  time.Duration
}

type MovieService struct {
	log      *slog.Logger
	storage  storage.UnitOfWorkFactory
	cache    *cache.Cache
	exporter *csvexport.Exporter[dto.MovieOutput]
	opts     Options
}

func New(
	log *slog.Logger,
	storage storage.UnitOfWorkFactory,
	cache *cache.Cache,
	exporter *csvexport.Exporter[dto.MovieOutput],
	opts Options,
) *MovieService {
	return &MovieService{
		log:      log,
		storage:  storage,
		cache:    cache,
		exporter: exporter,
		opts:     opts,
	}
}

func (s *MovieService) List(ctx context.Context, f filters.Filters) ([]dto.MovieOutput, error) {
	const op = "movies.MovieService.List"
	log := s.log.With("op", op)
	f.SortSafelist = storage.MovieSortSafelist
	movies, err := s.storage.NewUnitOfWork().Movies().List(ctx, f)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	log.Info("listed movies", "count", len(movies))
	return dto.NewMovieOutputs(movies), nil
}

func (s *MovieService) Get(ctx context.Context, id int) (*dto.MovieOutput, error) {
	const op = "movies.MovieService.Get"
	log := s.log.With("op", op, "id", id)
	movie, err := s.storage.NewUnitOfWork().Movies().Find(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if movie == nil {
		log.Warn("movie not found")
		return nil, ErrMovieNotFound
	}
	out := dto.NewMovieOutput(*movie)
	return &out, nil
}

func (s *MovieService) GetByTitle(ctx context.Context, title string) (*dto.MovieOutput, error) {
	const op = "movies.MovieService.GetByTitle"
	log := s.log.With("op", op, "title", title)
	movie, err := s.storage.NewUnitOfWork().Movies().FindByTitle(ctx, title)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if movie == nil {
		log.Warn("movie not found")
		return nil, ErrMovieNotFound
	}
	out := dto.NewMovieOutput(*movie)
	return &out, nil
}

func (s *MovieService) Create(ctx context.Context, in dto.MovieCreate) (*dto.MovieOutput, error) {
	const op = "movies.MovieService.Create"
	log := s.log.With("op", op, "title", in.Title)
	movie, err := dto.NewMovie(in)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if err := s.storage.NewUnitOfWork().Movies().Add(ctx, movie); err != nil {
		log.Error(err.Error())
		return nil, err
	}
	log.Info("movie created", "id", movie.ID)
	out := dto.NewMovieOutput(*movie)
	return &out, nil
}

// Update replaces the scalar fields of the movie; its watchers are kept.
func (s *MovieService) Update(ctx context.Context, id int, in dto.MovieCreate) (*dto.MovieOutput, error) {
	const op = "movies.MovieService.Update"
	log := s.log.With("op", op, "id", id)
	repo := s.storage.NewUnitOfWork().Movies()
	movie, err := repo.Find(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if movie == nil {
		log.Warn("movie not found")
		return nil, ErrMovieNotFound
	}
	if err := dto.ApplyMovieCreate(in, movie); err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if err := repo.Update(ctx, movie); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("movie disappeared during update")
			return nil, ErrMovieNotFound
		}
		log.Error("Error updating movie: " + err.Error())
		return nil, err
	}
	log.Info("movie updated")
	out := dto.NewMovieOutput(*movie)
	return &out, nil
}

func (s *MovieService) Delete(ctx context.Context, id int) error {
	const op = "movies.MovieService.Delete"
	log := s.log.With("op", op, "id", id)
	repo := s.storage.NewUnitOfWork().Movies()
	movie, err := repo.Find(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return err
	}
	if movie == nil {
		log.Warn("movie not found")
		return ErrMovieNotFound
	}
	if err := repo.Delete(ctx, movie); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrMovieNotFound
		}
		log.Error("Error deleting movie: " + err.Error())
		return err
	}
	log.Info("movie deleted")
	return nil
}

// Popular returns the most watched movies. The result is cached for
// Options.PopularTTL and is not invalidated by writes.
func (s *MovieService) Popular(ctx context.Context) ([]dto.MovieOutput, error) {
	const op = "movies.MovieService.Popular"
	log := s.log.With("op", op)
	popular, err := cache.GetOrCreate(ctx, s.cache, PopularCacheKey, s.opts.PopularTTL,
		func(ctx context.Context) ([]dto.MovieOutput, error) {
			log.Debug("populating popular movies cache")
			movies, err := s.storage.NewUnitOfWork().Movies().MostPopular(ctx, PopularLimit)
			if err != nil {
				return nil, err
			}
			return dto.NewMovieOutputs(movies), nil
		})
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if len(popular) == 0 {
		log.Warn("no popular movies found")
	}
	return popular, nil
}

// Export renders every movie as CSV. The rendering is cached for Options.ExportTTL.
func (s *MovieService) Export(ctx context.Context) ([]byte, error) {
	const op = "movies.MovieService.Export"
	log := s.log.With("op", op)
	data, err := cache.GetOrCreate(ctx, s.cache, ExportCacheKey, s.opts.ExportTTL,
		func(ctx context.Context) ([]byte, error) {
			movies, err := s.storage.NewUnitOfWork().Movies().List(ctx, filters.Filters{
				PageSize:     s.exporter.Options().MaxExportRecords,
				SortSafelist: storage.MovieSortSafelist,
			})
			if err != nil {
				return nil, err
			}
			log.Debug("rendering movies csv", "count", len(movies))
			return s.exporter.Export(dto.NewMovieOutputs(movies))
		})
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return data, nil
}
