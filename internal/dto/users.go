package dto

import "moviecatalog/proj/internal/domain/models"

type UserCreate struct {
	Name  string `json:"name" validate:"required,min=4,max=200"`
	Email string `json:"email" validate:"required,email,max=200"`
}

type UserOutput struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	WatchedMoviesCount int    `json:"watchedMoviesCount"`
}

type UserWatchedMovies struct {
	ID            int           `json:"id"`
	WatchedMovies []MovieOutput `json:"watchedMovies"`
}

func ApplyUserCreate(src UserCreate, dst *models.User) {
	dst.Name = src.Name
	dst.Email = src.Email
}

func NewUser(src UserCreate) *models.User {
	var user models.User
	ApplyUserCreate(src, &user)
	return &user
}

func NewUserOutput(u models.User) UserOutput {
	return UserOutput{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		WatchedMoviesCount: len(u.WatchedMovies),
	}
}

func NewUserOutputs(users []models.User) []UserOutput {
	out := make([]UserOutput, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserOutput(u))
	}
	return out
}

func NewUserWatchedMovies(u models.User) UserWatchedMovies {
	return UserWatchedMovies{ID: u.ID, WatchedMovies: NewMovieOutputs(u.WatchedMovies)}
}
