package repository

import (
	"context"

	"moviecatalog/proj/internal/domain/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	*GenericRepository[models.User, int]
	uow *UnitOfWork
}

func NewUserRepository(db *gorm.DB, uow *UnitOfWork) *UserRepository {
	return &UserRepository{
		GenericRepository: NewGenericRepository[models.User, int](db, "WatchedMovies.UsersWhoWatched"),
		uow:               uow,
	}
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := r.query(ctx).
		Scopes(ContainsFold("name", name)).
		Order("id").
		First(&user).Error
	return first(&user, err)
}

func (r *UserRepository) AddWatchedMovie(user *models.User, movie *models.Movie) {
	user.WatchedMovies = append(user.WatchedMovies, *movie)
	row := models.WatchedMovie{UserID: user.ID, MovieID: movie.ID}
	r.uow.track(func(tx *gorm.DB) (int64, error) {
		res := tx.Create(&row)
		return res.RowsAffected, res.Error
	})
}

func (r *UserRepository) RemoveWatchedMovie(user *models.User, movie *models.Movie) {
	kept := user.WatchedMovies[:0]
	for _, m := range user.WatchedMovies {
		if m.ID != movie.ID {
			kept = append(kept, m)
		}
	}
	user.WatchedMovies = kept
	userID, movieID := user.ID, movie.ID
	r.uow.track(func(tx *gorm.DB) (int64, error) {
		res := tx.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&models.WatchedMovie{})
		return res.RowsAffected, res.Error
	})
}
