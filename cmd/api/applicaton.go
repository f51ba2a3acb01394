package main

import (
	"log/slog"

	"moviecatalog/proj/internal/config"
	"moviecatalog/proj/internal/lib/cache"
	"moviecatalog/proj/internal/lib/decoder"
	"moviecatalog/proj/internal/lib/validator"
	"moviecatalog/proj/internal/services"
	"moviecatalog/proj/internal/services/movies"
	"moviecatalog/proj/internal/services/users"
	"moviecatalog/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
)

type Application struct {
	cfg       *config.Config
	log       *slog.Logger
	Http      *Http
	movies    *movies.MovieService
	users     *users.UserService
	validator *govalidator.Validate
	decoder   *decoder.URLDecoder
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage storage.UnitOfWorkFactory) (*Application, error) {
	svcs, err := services.New(log, cfg, storage, cache.New())
	if err != nil {
		return nil, err
	}
	app := &Application{
		cfg:       cfg,
		log:       log,
		validator: validator.New(),
		decoder:   decoder.New(),
		movies:    svcs.Movies,
		users:     svcs.Users,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	return app, nil
}
