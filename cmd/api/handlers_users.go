package main

import (
	"errors"
	"net/http"

	"moviecatalog/proj/internal/dto"
	"moviecatalog/proj/internal/services/users"
	"moviecatalog/proj/internal/storage"

	"github.com/go-chi/chi/v5"
)

func (app *Application) listUsers(w http.ResponseWriter, r *http.Request) {
	f, ok := app.readFilters(w, r, storage.UserSortSafelist)
	if !ok {
		return
	}
	list, err := app.users.List(r.Context(), f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"users": list}, "")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	user, err := app.users.Get(r.Context(), id)
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) getUserByName(w http.ResponseWriter, r *http.Request) {
	user, err := app.users.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) createUser(w http.ResponseWriter, r *http.Request) {
	in, ok := readValid[dto.UserCreate](app, w, r)
	if !ok {
		return
	}
	user, err := app.users.Create(r.Context(), in)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "")
}

func (app *Application) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	in, ok := readValid[dto.UserCreate](app, w, r)
	if !ok {
		return
	}
	user, err := app.users.Update(r.Context(), id, in)
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.users.Delete(r.Context(), id); err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) listWatchedMovies(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	watched, err := app.users.WatchedMovies(r.Context(), id)
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"id": watched.ID, "watchedMovies": watched.WatchedMovies}, "")
}

func (app *Application) addWatchedMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	movieID, ok := app.extractIDParam(w, r, "movieId")
	if !ok {
		return
	}
	watched, err := app.users.AddWatchedMovie(r.Context(), userID, movieID)
	if err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"id": watched.ID, "watchedMovies": watched.WatchedMovies}, "")
}

func (app *Application) removeWatchedMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.extractIDParam(w, r, "id")
	if !ok {
		return
	}
	movieID, ok := app.extractIDParam(w, r, "movieId")
	if !ok {
		return
	}
	if err := app.users.RemoveWatchedMovie(r.Context(), userID, movieID); err != nil {
		app.userError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

func (app *Application) userError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound),
		errors.Is(err, users.ErrMovieNotFound),
		errors.Is(err, users.ErrMovieNotWatched):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, users.ErrMovieAlreadyWatched):
		app.Http.Conflict(w, r, err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}
