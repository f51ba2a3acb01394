package dto

import (
	"fmt"

	"moviecatalog/proj/internal/domain/fields"
	"moviecatalog/proj/internal/domain/models"
)

type MovieCreate struct {
	Title       string      `json:"title" validate:"required,max=200"`
	Director    string      `json:"director" validate:"required,max=200,alphaspace" errorMsg:"Director's name can only contain letters"`
	Genre       string      `json:"genre" validate:"required,genre"`
	IsReleased  bool        `json:"isReleased"`
	ReleaseDate fields.Date `json:"releaseDate" validate:"required"`
}

type MovieOutput struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Director    string      `json:"director"`
	Genre       string      `json:"genre"`
	IsReleased  bool        `json:"isReleased"`
	ReleaseDate fields.Date `json:"releaseDate"`
	ViewCount   int         `json:"viewCount"`
}

// ApplyMovieCreate copies the create DTO onto dst. The watchers collection is never touched.
func ApplyMovieCreate(src MovieCreate, dst *models.Movie) error {
	genre, err := fields.ParseGenre(src.Genre)
	if err != nil {
		return fmt.Errorf("dto.ApplyMovieCreate: %w", err)
	}
	dst.Title = src.Title
	dst.Director = src.Director
	dst.Genre = genre
	dst.IsReleased = src.IsReleased
	dst.ReleaseDate = src.ReleaseDate
	return nil
}

func NewMovie(src MovieCreate) (*models.Movie, error) {
	var movie models.Movie
	if err := ApplyMovieCreate(src, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func NewMovieOutput(m models.Movie) MovieOutput {
	return MovieOutput{
		ID:          m.ID,
		Title:       m.Title,
		Director:    m.Director,
		Genre:       m.Genre.String(),
		IsReleased:  m.IsReleased,
		ReleaseDate: m.ReleaseDate,
		ViewCount:   len(m.UsersWhoWatched),
	}
}

func NewMovieOutputs(movies []models.Movie) []MovieOutput {
	out := make([]MovieOutput, 0, len(movies))
	for _, m := range movies {
		out = append(out, NewMovieOutput(m))
	}
	return out
}
