package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/lib/validator"

	"github.com/go-chi/chi/v5"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request, param string) (id int, extracted bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil {
		app.Http.BadRequest(w, r, fmt.Sprintf("invalid %s", param))
		return 0, false
	}
	if id < 1 {
		app.Http.BadRequest(w, r, fmt.Sprintf("%s must be greater than zero", param))
		return 0, false
	}
	return id, true
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}

// readValid decodes the JSON body into a T and validates it. On failure the
// 400 response is already written.
func readValid[T any](app *Application, w http.ResponseWriter, r *http.Request) (T, bool) {
	var dst T
	if err := app.readJSON(w, r, &dst); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return dst, false
	}
	if errs := validator.ValidateStruct(app.validator, dst); errs != nil {
		app.Http.FailedValidation(w, r, errs)
		return dst, false
	}
	return dst, true
}

func (app *Application) readFilters(w http.ResponseWriter, r *http.Request, safelist []string) (filters.Filters, bool) {
	f := filters.Filters{SortSafelist: safelist}
	if err := app.decoder.Decode(&f, r.URL.Query()); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return f, false
	}
	if errs := validator.ValidateStruct(app.validator, f); errs != nil {
		app.Http.FailedValidation(w, r, errs)
		return f, false
	}
	if !f.IsSortAllowed() {
		app.Http.FailedValidation(w, r, map[string]string{"sort": "invalid sort value"})
		return f, false
	}
	return f, true
}
