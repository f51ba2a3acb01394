package users

import (
	"context"
	"errors"
	"log/slog"

	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/dto"
	"moviecatalog/proj/internal/storage"
)

type UserService struct {
	log     *slog.Logger
	storage storage.UnitOfWorkFactory
}

func New(log *slog.Logger, storage storage.UnitOfWorkFactory) *UserService {
	return &UserService{
		log:     log,
		storage: storage,
	}
}

func (s *UserService) List(ctx context.Context, f filters.Filters) ([]dto.UserOutput, error) {
	const op = "users.UserService.List"
	log := s.log.With("op", op)
	f.SortSafelist = storage.UserSortSafelist
	users, err := s.storage.NewUnitOfWork().Users().List(ctx, f)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	log.Info("listed users", "count", len(users))
	return dto.NewUserOutputs(users), nil
}

func (s *UserService) Get(ctx context.Context, id int) (*dto.UserOutput, error) {
	const op = "users.UserService.Get"
	log := s.log.With("op", op, "id", id)
	user, err := s.storage.NewUnitOfWork().Users().Find(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if user == nil {
		log.Warn("user not found")
		return nil, ErrUserNotFound
	}
	out := dto.NewUserOutput(*user)
	return &out, nil
}

func (s *UserService) GetByName(ctx context.Context, name string) (*dto.UserOutput, error) {
	const op = "users.UserService.GetByName"
	log := s.log.With("op", op, "name", name)
	user, err := s.storage.NewUnitOfWork().Users().FindByName(ctx, name)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if user == nil {
		log.Warn("user not found")
		return nil, ErrUserNotFound
	}
	out := dto.NewUserOutput(*user)
	return &out, nil
}

func (s *UserService) Create(ctx context.Context, in dto.UserCreate) (*dto.UserOutput, error) {
	const op = "users.UserService.Create"
	log := s.log.With("op", op, "name", in.Name)
	user := dto.NewUser(in)
	if err := s.storage.NewUnitOfWork().Users().Add(ctx, user); err != nil {
		log.Error(err.Error())
		return nil, err
	}
	log.Info("user created", "id", user.ID)
	out := dto.NewUserOutput(*user)
	return &out, nil
}

// Update replaces name and email; the watched collection is kept.
func (s *UserService) Update(ctx context.Context, id int, in dto.UserCreate) (*dto.UserOutput, error) {
	const op = "users.UserService.Update"
	log := s.log.With("op", op, "id", id)
	repo := s.storage.NewUnitOfWork().Users()
	user, err := repo.Find(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if user == nil {
		log.Warn("user not found")
		return nil, ErrUserNotFound
	}
	dto.ApplyUserCreate(in, user)
	if err := repo.Update(ctx, user); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("user disappeared during update")
			return nil, ErrUserNotFound
		}
		log.Error("Error updating user: " + err.Error())
		return nil, err
	}
	log.Info("user updated")
	out := dto.NewUserOutput(*user)
	return &out, nil
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	const op = "users.UserService.Delete"
	log := s.log.With("op", op, "id", id)
	repo := s.storage.NewUnitOfWork().Users()
	user, err := repo.Find(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return err
	}
	if user == nil {
		log.Warn("user not found")
		return ErrUserNotFound
	}
	if err := repo.Delete(ctx, user); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		log.Error("Error deleting user: " + err.Error())
		return err
	}
	log.Info("user deleted")
	return nil
}

func (s *UserService) WatchedMovies(ctx context.Context, id int) (*dto.UserWatchedMovies, error) {
	const op = "users.UserService.WatchedMovies"
	log := s.log.With("op", op, "id", id)
	user, err := s.storage.NewUnitOfWork().Users().Find(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if user == nil {
		log.Warn("user not found")
		return nil, ErrUserNotFound
	}
	out := dto.NewUserWatchedMovies(*user)
	return &out, nil
}

func (s *UserService) loadPair(ctx context.Context, uow storage.UnitOfWork, userID, movieID int) (*models.User, *models.Movie, error) {
	user, err := uow.Users().Find(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}
	movie, err := uow.Movies().Find(ctx, movieID)
	if err != nil {
		return nil, nil, err
	}
	if movie == nil {
		return nil, nil, ErrMovieNotFound
	}
	return user, movie, nil
}

// AddWatchedMovie records that the user watched the movie. A pair that already
// exists, including one inserted concurrently, yields ErrMovieAlreadyWatched.
func (s *UserService) AddWatchedMovie(ctx context.Context, userID, movieID int) (*dto.UserWatchedMovies, error) {
	const op = "users.UserService.AddWatchedMovie"
	log := s.log.With("op", op, "user_id", userID, "movie_id", movieID)
	uow := s.storage.NewUnitOfWork()
	user, movie, err := s.loadPair(ctx, uow, userID, movieID)
	if err != nil {
		log.Warn(err.Error())
		return nil, err
	}
	if user.HasWatched(movie.ID) {
		log.Warn("movie already watched")
		return nil, ErrMovieAlreadyWatched
	}
	uow.Users().AddWatchedMovie(user, movie)
	if _, err := uow.SaveChanges(ctx); err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Warn("movie watched concurrently")
			return nil, ErrMovieAlreadyWatched
		case errors.Is(err, storage.ErrNotFound):
			log.Warn(err.Error())
			return nil, ErrMovieNotFound
		}
		log.Error("Error saving watched movie: " + err.Error())
		return nil, err
	}
	log.Info("watched movie added")
	// reload so every watched movie carries its current view count
	reloaded, err := uow.Users().Find(ctx, userID)
	switch {
	case err != nil:
		log.Warn("Error reloading user, view counts may be stale: " + err.Error())
	case reloaded == nil:
		log.Warn("user disappeared after adding watched movie")
	default:
		user = reloaded
	}
	out := dto.NewUserWatchedMovies(*user)
	return &out, nil
}

// RemoveWatchedMovie deletes the pair. A pair that is absent, including one
// removed concurrently, yields ErrMovieNotWatched.
func (s *UserService) RemoveWatchedMovie(ctx context.Context, userID, movieID int) error {
	const op = "users.UserService.RemoveWatchedMovie"
	log := s.log.With("op", op, "user_id", userID, "movie_id", movieID)
	uow := s.storage.NewUnitOfWork()
	user, movie, err := s.loadPair(ctx, uow, userID, movieID)
	if err != nil {
		log.Warn(err.Error())
		return err
	}
	if !user.HasWatched(movie.ID) {
		log.Warn("movie not in watched list")
		return ErrMovieNotWatched
	}
	uow.Users().RemoveWatchedMovie(user, movie)
	affected, err := uow.SaveChanges(ctx)
	if err != nil {
		log.Error("Error removing watched movie: " + err.Error())
		return err
	}
	if !affected {
		log.Warn("watched movie removed concurrently")
		return ErrMovieNotWatched
	}
	log.Info("watched movie removed")
	return nil
}
