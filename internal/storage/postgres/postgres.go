package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moviecatalog/proj/internal/domain/models"
	"moviecatalog/proj/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	ErrConflictCode   = "23505"
	ErrForeignKeyCode = "23503"
)

type Storage struct {
	DB *gorm.DB
}

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnIdleTime time.Duration
	AutoMigrate     bool
}

func New(ctx context.Context, log *slog.Logger, dsn string, opts Options) (*Storage, error) {
	const op = "postgres.New"
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(opts.MaxConnIdleTime)
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s, err := FromDB(db)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if opts.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return s, nil
}

// FromDB wraps an opened gorm connection and registers the watched_movies join model.
func FromDB(db *gorm.DB) (*Storage, error) {
	s := &Storage{DB: db}
	if err := s.setupJoinTables(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) setupJoinTables() error {
	if err := s.DB.SetupJoinTable(&models.User{}, "WatchedMovies", &models.WatchedMovie{}); err != nil {
		return err
	}
	return s.DB.SetupJoinTable(&models.Movie{}, "UsersWhoWatched", &models.WatchedMovie{})
}

// Migrate creates or updates the movies, users and watched_movies tables.
func (s *Storage) Migrate(ctx context.Context) error {
	return s.DB.WithContext(ctx).AutoMigrate(&models.Movie{}, &models.User{}, &models.WatchedMovie{})
}

func (s *Storage) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// TranslateError maps driver and gorm errors onto storage errors. Dialects opened
// with gorm.Config.TranslateError report constraint violations as gorm errors.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == ErrConflictCode:
		return fmt.Errorf("%w: %s", storage.ErrConflict, pgErr.Detail)
	case errors.As(err, &pgErr) && pgErr.Code == ErrForeignKeyCode:
		return fmt.Errorf("%w: %s", storage.ErrNotFound, pgErr.Detail)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", storage.ErrConflict, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %s", storage.ErrNotFound, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return storage.ErrNotFound
	}
	return err
}

type gormLogAdapter struct {
	log           *slog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(log *slog.Logger) gormlogger.Interface {
	return &gormLogAdapter{log: log.With("component", "gorm"), level: gormlogger.Warn, slowThreshold: 200 * time.Millisecond}
}

func (l *gormLogAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogAdapter) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.log.InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogAdapter) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.log.WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogAdapter) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.log.ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		l.log.ErrorContext(ctx, "query failed", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err.Error())
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.WarnContext(ctx, "slow query", "sql", sql, "rows", rows, "elapsed", elapsed)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log.DebugContext(ctx, "query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
