package main

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"moviecatalog/proj/internal/config"
	"moviecatalog/proj/internal/domain/fields"
	"moviecatalog/proj/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movieData struct {
	Movie dto.MovieOutput `json:"movie"`
}

type moviesData struct {
	Movies []dto.MovieOutput `json:"movies"`
}

type userData struct {
	User dto.UserOutput `json:"user"`
}

func movieBody(title string) map[string]any {
	return map[string]any{
		"title":       title,
		"director":    "Denis Villeneuve",
		"genre":       "SciFi",
		"isReleased":  true,
		"releaseDate": "2021-10-22",
	}
}

func createMovie(t *testing.T, h http.Handler, title string) dto.MovieOutput {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/api/movies", movieBody(title))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[movieData](t, rec).Movie
}

func createUser(t *testing.T, h http.Handler, name string) dto.UserOutput {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/api/users", map[string]any{
		"name":  name,
		"email": strings.ToLower(name) + "@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[userData](t, rec).User
}

func TestHealthcheck(t *testing.T) {
	h := NewTestApplication(nil, t).routes()
	rec := doRequest(t, h, http.MethodGet, "/api/healthcheck", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeData[struct {
		Status  string `json:"status"`
		Storage string `json:"storage"`
		Version string `json:"version"`
	}](t, rec)
	assert.Equal(t, "available", data.Status)
	assert.Equal(t, config.DriverMemory, data.Storage)
	assert.Equal(t, version, data.Version)
}

func TestMovieLifecycle(t *testing.T) {
	h := NewTestApplication(nil, t).routes()

	created := createMovie(t, h, "Dune")
	assert.Positive(t, created.ID)
	assert.Equal(t, 0, created.ViewCount)
	assert.Equal(t, "SciFi", created.Genre)

	rec := doRequest(t, h, http.MethodGet, fmt.Sprintf("/api/movies/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[movieData](t, rec).Movie
	assert.Equal(t, created, got)
	assert.Equal(t, fields.NewDate(2021, 10, 22), got.ReleaseDate)

	rec = doRequest(t, h, http.MethodGet, "/api/movies/dUn", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeData[movieData](t, rec).Movie.ID)

	update := movieBody("Dune: Part One")
	update["genre"] = "drama"
	rec = doRequest(t, h, http.MethodPut, fmt.Sprintf("/api/movies/%d", created.ID), update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeData[movieData](t, rec).Movie
	assert.Equal(t, "Dune: Part One", updated.Title)
	assert.Equal(t, "Drama", updated.Genre)

	rec = doRequest(t, h, http.MethodDelete, fmt.Sprintf("/api/movies/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = doRequest(t, h, http.MethodGet, fmt.Sprintf("/api/movies/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(t, h, http.MethodDelete, fmt.Sprintf("/api/movies/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(t, h, http.MethodPut, fmt.Sprintf("/api/movies/%d", created.ID), movieBody("Dune"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(t, h, http.MethodGet, "/api/movies/dune", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMovieIDParam(t *testing.T) {
	h := NewTestApplication(nil, t).routes()
	rec := doRequest(t, h, http.MethodGet, "/api/movies/0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id must be greater than zero", decodeResponse(t, rec).Message)
}

func TestCreateMovieValidation(t *testing.T) {
	h := NewTestApplication(nil, t).routes()
	future := fields.Today().AddDate(1, 0, 0).Format(fields.DateLayout)
	past := fields.Today().AddDate(-1, 0, 0).Format(fields.DateLayout)

	tests := []struct {
		name       string
		modify     func(body map[string]any)
		invalidKey string
	}{
		{"released in future", func(b map[string]any) { b["releaseDate"] = future }, "releaseDate"},
		{"unreleased in past", func(b map[string]any) {
			b["isReleased"] = false
			b["releaseDate"] = past
		}, "releaseDate"},
		{"missing title", func(b map[string]any) { delete(b, "title") }, "title"},
		{"long title", func(b map[string]any) { b["title"] = strings.Repeat("a", 201) }, "title"},
		{"director with digits", func(b map[string]any) { b["director"] = "R2 D2" }, "director"},
		{"unknown genre", func(b map[string]any) { b["genre"] = "Western" }, "genre"},
		{"missing release date", func(b map[string]any) { delete(b, "releaseDate") }, "releaseDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := movieBody("Dune")
			tt.modify(body)
			rec := doRequest(t, h, http.MethodPost, "/api/movies", body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			data := decodeData[struct {
				Errors map[string]string `json:"errors"`
			}](t, rec)
			assert.Contains(t, data.Errors, tt.invalidKey)
		})
	}

	t.Run("unreleased in future", func(t *testing.T) {
		body := movieBody("Dune: Part Three")
		body["isReleased"] = false
		body["releaseDate"] = future
		rec := doRequest(t, h, http.MethodPost, "/api/movies", body)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	badBodies := []struct {
		name string
		body string
	}{
		{"malformed json", `{"title": "Dune"`},
		{"unknown field", `{"title": "Dune", "rating": 5}`},
		{"bad date format", `{"title": "Dune", "releaseDate": "22.10.2021"}`},
		{"two values", `{} {}`},
	}
	for _, tt := range badBodies {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/api/movies", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, decodeResponse(t, rec).Success)
		})
	}
}

func TestListMovies(t *testing.T) {
	h := NewTestApplication(nil, t).routes()
	for _, title := range []string{"Dune", "Arrival", "Sicario"} {
		createMovie(t, h, title)
	}

	rec := doRequest(t, h, http.MethodGet, "/api/movies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeData[moviesData](t, rec).Movies
	require.Len(t, list, 3)
	assert.Equal(t, "Dune", list[0].Title)

	rec = doRequest(t, h, http.MethodGet, "/api/movies?sort=-title&page=1&page_size=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decodeData[moviesData](t, rec).Movies
	require.Len(t, list, 2)
	assert.Equal(t, "Sicario", list[0].Title)
	assert.Equal(t, "Dune", list[1].Title)

	rec = doRequest(t, h, http.MethodGet, "/api/movies?sort=budget", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doRequest(t, h, http.MethodGet, "/api/movies?page_size=1000", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doRequest(t, h, http.MethodGet, "/api/movies?page=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserLifecycle(t *testing.T) {
	h := NewTestApplication(nil, t).routes()
	user := createUser(t, h, "Alice")
	assert.Equal(t, 0, user.WatchedMoviesCount)

	rec := doRequest(t, h, http.MethodGet, "/api/users/LIC", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, decodeData[userData](t, rec).User.ID)

	rec = doRequest(t, h, http.MethodPut, fmt.Sprintf("/api/users/%d", user.ID), map[string]any{
		"name":  "Alice Cooper",
		"email": "alice@example.org",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice Cooper", decodeData[userData](t, rec).User.Name)

	rec = doRequest(t, h, http.MethodPost, "/api/users", map[string]any{"name": "Bob", "email": "bob"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decodeData[struct {
		Errors map[string]string `json:"errors"`
	}](t, rec).Errors
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")

	rec = doRequest(t, h, http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(t, h, http.MethodGet, fmt.Sprintf("/api/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWatchedMovies(t *testing.T) {
	h := NewTestApplication(nil, t).routes()
	user := createUser(t, h, "Alice")
	movie := createMovie(t, h, "Dune")
	path := fmt.Sprintf("/api/users/%d/watched-movies/%d", user.ID, movie.ID)

	rec := doRequest(t, h, http.MethodPut, path, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	watched := decodeData[dto.UserWatchedMovies](t, rec)
	assert.Equal(t, user.ID, watched.ID)
	require.Len(t, watched.WatchedMovies, 1)
	assert.Equal(t, 1, watched.WatchedMovies[0].ViewCount)

	rec = doRequest(t, h, http.MethodPut, path, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, h, http.MethodGet, fmt.Sprintf("/api/users/%d/watched-movies", user.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeData[dto.UserWatchedMovies](t, rec).WatchedMovies, 1)

	rec = doRequest(t, h, http.MethodGet, fmt.Sprintf("/api/users/%d", user.ID), nil)
	assert.Equal(t, 1, decodeData[userData](t, rec).User.WatchedMoviesCount)

	rec = doRequest(t, h, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(t, h, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	notFound := []string{
		fmt.Sprintf("/api/users/%d/watched-movies/%d", user.ID+100, movie.ID),
		fmt.Sprintf("/api/users/%d/watched-movies/%d", user.ID, movie.ID+100),
	}
	for _, p := range notFound {
		assert.Equal(t, http.StatusNotFound, doRequest(t, h, http.MethodPut, p, nil).Code, p)
		assert.Equal(t, http.StatusNotFound, doRequest(t, h, http.MethodDelete, p, nil).Code, p)
	}
	rec = doRequest(t, h, http.MethodGet, fmt.Sprintf("/api/users/%d/watched-movies", user.ID+100), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPopularMoviesAreCached(t *testing.T) {
	h := NewTestApplication(nil, t).routes()
	dune := createMovie(t, h, "Dune")
	arrival := createMovie(t, h, "Arrival")
	alice := createUser(t, h, "Alice")
	bobby := createUser(t, h, "Bobby")

	watch := func(userID, movieID int) {
		rec := doRequest(t, h, http.MethodPut, fmt.Sprintf("/api/users/%d/watched-movies/%d", userID, movieID), nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	watch(alice.ID, dune.ID)

	first := doRequest(t, h, http.MethodGet, "/api/movies/popular", nil)
	require.Equal(t, http.StatusOK, first.Code)
	popular := decodeData[moviesData](t, first).Movies
	require.Len(t, popular, 2)
	assert.Equal(t, dune.ID, popular[0].ID)

	watch(alice.ID, arrival.ID)
	watch(bobby.ID, arrival.ID)

	second := doRequest(t, h, http.MethodGet, "/api/movies/popular", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestDownloadMovies(t *testing.T) {
	cfg := newTestConfig()
	cfg.Export.CSV.Delimiter = ";"
	cfg.Export.CSV.DateFormat = "02/01/2006"
	cfg.Export.CSV.MaxExportRecords = 2
	cfg.Export.CSV.FieldsToExport = []string{"Title", "releasedate", "ViewCount"}
	h := NewTestApplication(cfg, t).routes()
	for _, title := range []string{"Dune", "Arrival", "Sicario"} {
		createMovie(t, h, title)
	}

	rec := doRequest(t, h, http.MethodGet, "/api/movies/download", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=movies.csv", rec.Header().Get("Content-Disposition"))

	r := csv.NewReader(rec.Body)
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Title", "releasedate", "ViewCount"}, rows[0])
	assert.Equal(t, []string{"Dune", "22/10/2021", "0"}, rows[1])
	assert.Equal(t, []string{"Arrival", "22/10/2021", "0"}, rows[2])
}

func TestUnknownExportFieldFailsStartup(t *testing.T) {
	cfg := newTestConfig()
	cfg.Export.CSV.FieldsToExport = []string{"Title", "Budget"}
	_, err := NewApplication(cfg, nil, nil)
	assert.Error(t, err)
}

func TestNotFoundRoute(t *testing.T) {
	h := NewTestApplication(nil, t).routes()
	rec := doRequest(t, h, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decodeResponse(t, rec).Success)
}

func TestIndexPage(t *testing.T) {
	h := NewTestApplication(nil, t).routes()
	rec := doRequest(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Movie catalog</title>")
}
