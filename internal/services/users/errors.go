package users

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrMovieNotFound       = errors.New("movie not found")
	ErrMovieAlreadyWatched = errors.New("user has already watched this movie")
	ErrMovieNotWatched     = errors.New("user hasn't watched this movie")
)
