package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moviecatalog/proj/internal/config"
	"moviecatalog/proj/internal/lib/logger"
	"moviecatalog/proj/internal/storage/memory"

	"github.com/stretchr/testify/require"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Limiter: config.Limiter{Rps: 2, Burst: 1},
		DB:      config.DB{Driver: config.DriverMemory},
		CORS:    config.CORS{AllowedOrigins: []string{"*"}},
		Cache: config.Cache{
			PopularTTL: 10 * time.Minute,
			ExportTTL:  10 * time.Minute,
		},
		Export: config.ExportMoviesOptions{
			FileName: "movies.csv",
			CSV: config.CsvOptions{
				Delimiter:        ",",
				DateFormat:       "2006-01-02",
				MaxExportRecords: 1000,
				FieldsToExport:   []string{"Id", "Title", "Director", "Genre", "IsReleased", "ReleaseDate", "ViewCount"},
			},
		},
	}
}

func NewTestApplication(cfg *config.Config, t *testing.T) *Application {
	t.Helper()
	if cfg == nil {
		cfg = newTestConfig()
	}
	app, err := NewApplication(cfg, logger.Discard(), memory.New())
	require.NoError(t, err)
	return app
}

type testResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var data T
	resp := decodeResponse(t, rec)
	require.NoError(t, json.Unmarshal(resp.Data, &data), string(resp.Data))
	return data
}
