package services

import (
	"log/slog"

	"moviecatalog/proj/internal/config"
	"moviecatalog/proj/internal/lib/cache"
	"moviecatalog/proj/internal/lib/csvexport"
	"moviecatalog/proj/internal/services/movies"
	"moviecatalog/proj/internal/services/users"
	"moviecatalog/proj/internal/storage"
)

type Services struct {
	Movies *movies.MovieService
	Users  *users.UserService
}

// New wires the services over one storage and one process-wide cache.
// It fails when the export options reference an unknown movie field.
func New(log *slog.Logger, cfg *config.Config, storage storage.UnitOfWorkFactory, cache *cache.Cache) (*Services, error) {
	exporter, err := movies.NewExporter(csvexport.Options{
		Delimiter:        cfg.Export.CSV.DelimiterRune(),
		DateFormat:       cfg.Export.CSV.DateFormat,
		MaxExportRecords: cfg.Export.CSV.MaxExportRecords,
		FieldsToExport:   cfg.Export.CSV.FieldsToExport,
	})
	if err != nil {
		return nil, err
	}
	return &Services{
		Movies: movies.New(log, storage, cache, exporter, movies.Options{
			PopularTTL: cfg.Cache.PopularTTL,
			ExportTTL:  cfg.Cache.ExportTTL,
		}),
		Users: users.New(log, storage),
	}, nil
}
