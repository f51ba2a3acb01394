package repository

import (
	"context"

	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/storage/postgres"

	"gorm.io/gorm"
)

type MovieRepository struct {
	*GenericRepository[models.Movie, int]
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{NewGenericRepository[models.Movie, int](db, "UsersWhoWatched")}
}

func (r *MovieRepository) FindByTitle(ctx context.Context, title string) (*models.Movie, error) {
	var movie models.Movie
	err := r.query(ctx).
		Scopes(ContainsFold("title", title)).
		Order("id").
		First(&movie).Error
	return first(&movie, err)
}

func (r *MovieRepository) MostPopular(ctx context.Context, limit int) ([]models.Movie, error) {
	movies := make([]models.Movie, 0, limit)
	err := r.query(ctx).
		Select("movies.*").
		Joins("LEFT JOIN watched_movies ON watched_movies.movie_id = movies.id").
		Group("movies.id").
		Order("COUNT(watched_movies.user_id) DESC").
		Order("movies.id ASC").
		Limit(limit).
		Find(&movies).Error
	if err != nil {
		return nil, postgres.TranslateError(err)
	}
	return movies, nil
}
