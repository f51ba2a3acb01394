package movies

import "errors"

var (
	ErrMovieNotFound = errors.New("movie not found")
)
