package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"moviecatalog/proj/internal/config"
	"moviecatalog/proj/internal/lib/logger"
	"moviecatalog/proj/internal/storage"
	"moviecatalog/proj/internal/storage/memory"
	"moviecatalog/proj/internal/storage/postgres"
	"moviecatalog/proj/internal/storage/postgres/repository"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")

	flag.Parse()
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)
	store, closeStore, err := openStorage(cfg, log)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.DB.Driver, "error", err.Error())
		os.Exit(1)
	}
	defer closeStore()
	app, err := NewApplication(cfg, log, store)
	if err != nil {
		log.Error("failed to initialize application", "error", err.Error())
		os.Exit(1)
	}
	if err := app.serve(); err != nil {
		log.Error("shutting down the server", "reason", err.Error())
		closeStore()
		os.Exit(1)
	}
}

func openStorage(cfg *config.Config, log *slog.Logger) (storage.UnitOfWorkFactory, func(), error) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := postgres.New(ctx, log, cfg.DB.Dsn, postgres.Options{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		MaxConnIdleTime: cfg.DB.MaxConnIdleTime,
		AutoMigrate:     cfg.DB.AutoMigrate,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info("database connection established")
	return repository.New(db), func() {
		if err := db.Close(); err != nil {
			log.Error("closing database", "error", err.Error())
		}
	}, nil
}
