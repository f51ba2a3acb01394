package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"moviecatalog/proj/internal/lib/validator"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Debug   bool                `yaml:"debug" env:"DEBUG"`
	Limiter Limiter             `yaml:"limiter"`
	Server  Server              `yaml:"server"`
	DB      DB                  `yaml:"db"`
	CORS    CORS                `yaml:"cors"`
	Cache   Cache               `yaml:"cache"`
	Export  ExportMoviesOptions `yaml:"export"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled" env:"LIMITER_ENABLED"`
	Rps     float64 `yaml:"rps" env:"LIMITER_RPS" env-default:"20" validate:"gt=0"`
	Burst   int     `yaml:"burst" env:"LIMITER_BURST" env-default:"5" validate:"gt=0"`
}

type Server struct {
	Port string `yaml:"port" env:"SERVER_PORT" env-default:"8000"`
	Host string `yaml:"host" env:"SERVER_HOST" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DB struct {
	Driver          string        `yaml:"driver" env:"DB_DRIVER" env-default:"postgres" validate:"oneof=postgres memory"`
	Dsn             string        `yaml:"dsn" env:"DB_DSN" validate:"required_if=Driver postgres"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME" env-default:"10m"`
	AutoMigrate     bool          `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

type Cache struct {
	PopularTTL time.Duration `yaml:"popular_ttl" env:"CACHE_POPULAR_TTL" env-default:"10m"`
	ExportTTL  time.Duration `yaml:"export_ttl" env:"CACHE_EXPORT_TTL" env-default:"10m"`
}

type ExportMoviesOptions struct {
	FileName string     `yaml:"file_name" env:"EXPORT_FILE_NAME" env-default:"movies.csv" validate:"required,filename"`
	CSV      CsvOptions `yaml:"csv"`
}

type CsvOptions struct {
	Delimiter        string   `yaml:"delimiter" env:"EXPORT_CSV_DELIMITER" env-default:"," validate:"required,csvdelimiter"`
	DateFormat       string   `yaml:"date_format" env:"EXPORT_CSV_DATE_FORMAT" env-default:"2006-01-02" validate:"required,dateformat"`
	MaxExportRecords int      `yaml:"max_export_records" env:"EXPORT_CSV_MAX_RECORDS" env-default:"1000" validate:"gt=0"`
	FieldsToExport   []string `yaml:"fields_to_export" env:"EXPORT_CSV_FIELDS" env-separator:"," env-default:"Id,Title,Director,Genre,IsReleased,ReleaseDate,ViewCount" validate:"required,min=1,dive,required"`
}

// DelimiterRune returns the configured delimiter; Validate guarantees it is one rune.
func (o CsvOptions) DelimiterRune() rune {
	return []rune(o.Delimiter)[0]
}

// MustLoad reads .env (if present), then the YAML file at configPath when it
// exists, otherwise the environment alone. It panics on invalid configuration.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	var cfg Config
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
	} else {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs govalidator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]error, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Errorf("%s: %s", e.Namespace(), validator.MessageForTag(e)))
			}
			return fmt.Errorf("invalid config: %w", errors.Join(msgs...))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
