package main

import (
	"net/http"

	"moviecatalog/proj/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "Page not found")
	})
	router.MethodNotAllowed(app.Http.MethodNotAllowed)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Metrics)
	router.Use(app.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
	router.Use(app.RateLimiter)
	router.Route("/api", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)
		r.Route("/movies", func(r chi.Router) {
			r.Get("/", app.listMovies)
			r.Post("/", app.createMovie)
			r.Get("/popular", app.popularMovies)
			r.Get("/download", app.downloadMovies)
			r.Get("/{id:[0-9]+}", app.getMovie)
			r.Put("/{id:[0-9]+}", app.updateMovie)
			r.Delete("/{id:[0-9]+}", app.deleteMovie)
			r.Get("/{title}", app.getMovieByTitle)
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", app.listUsers)
			r.Post("/", app.createUser)
			r.Get("/{id:[0-9]+}", app.getUser)
			r.Put("/{id:[0-9]+}", app.updateUser)
			r.Delete("/{id:[0-9]+}", app.deleteUser)
			r.Get("/{name}", app.getUserByName)
			r.Route("/{id:[0-9]+}/watched-movies", func(r chi.Router) {
				r.Get("/", app.listWatchedMovies)
				r.Put("/{movieId:[0-9]+}", app.addWatchedMovie)
				r.Delete("/{movieId:[0-9]+}", app.removeWatchedMovie)
			})
		})
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Handle("/*", http.FileServerFS(web.Static()))
	return router
}
