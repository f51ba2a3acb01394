package main

import (
	"errors"
	"mime"
	"net/http"

	"moviecatalog/proj/internal/dto"
	"moviecatalog/proj/internal/services/movies"
	"moviecatalog/proj/internal/storage"

	"github.com/go-chi/chi/v5"
)

func (app *Application) listMovies(w http.ResponseWriter, r *http.Request) {
	f, ok := app.readFilters(w, r, storage.MovieSortSafelist)
	if !ok {
		return
	}
	list, err := app.movies.List(r.Context(), f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": list}, "")
}

func (app *Application) getMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	movie, err := app.movies.Get(r.Context(), id)
	if err != nil {
		app.movieError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "")
}

func (app *Application) getMovieByTitle(w http.ResponseWriter, r *http.Request) {
	movie, err := app.movies.GetByTitle(r.Context(), chi.URLParam(r, "title"))
	if err != nil {
		app.movieError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "")
}

func (app *Application) createMovie(w http.ResponseWriter, r *http.Request) {
	in, ok := readValid[dto.MovieCreate](app, w, r)
	if !ok {
		return
	}
	movie, err := app.movies.Create(r.Context(), in)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"movie": movie}, "")
}

func (app *Application) updateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	in, ok := readValid[dto.MovieCreate](app, w, r)
	if !ok {
		return
	}
	movie, err := app.movies.Update(r.Context(), id, in)
	if err != nil {
		app.movieError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "")
}

func (app *Application) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.movies.Delete(r.Context(), id); err != nil {
		app.movieError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) popularMovies(w http.ResponseWriter, r *http.Request) {
	list, err := app.movies.Popular(r.Context())
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": list}, "")
}

func (app *Application) downloadMovies(w http.ResponseWriter, r *http.Request) {
	data, err := app.movies.Export(r.Context())
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": app.cfg.Export.FileName,
	}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		app.Http.setupLogPerReq(r).Warn("writing csv response", "error", err)
	}
}

func (app *Application) movieError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, movies.ErrMovieNotFound):
		app.Http.NotFound(w, r, err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}
