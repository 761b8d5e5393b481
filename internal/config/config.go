package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/validation"
	"golang.org/x/text/currency"
)

type Config struct {
	APIURL        string `json:"STOREFRONT_API_URL" validate:"required,url"`
	StorageDriver string `json:"STORAGE_DRIVER" validate:"oneof=file memory redis postgres mongo"`
	StateDir      string `json:"STATE_DIR" validate:"required_if=StorageDriver file"`
	Profile       string `json:"STORE_PROFILE" validate:"required"`

	RedisAddr     string `json:"REDIS_ADDR" validate:"required_if=StorageDriver redis"`
	RedisPassword string `json:"REDIS_PASSWORD"`
	PostgresDSN   string `json:"POSTGRES_DSN" validate:"required_if=StorageDriver postgres"`
	MongoURI      string `json:"MONGO_URI" validate:"required_if=StorageDriver mongo"`
	MongoDBName   string `json:"MONGO_DB_NAME" validate:"required_if=StorageDriver mongo"`

	LogLevel  string `json:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat string `json:"LOG_FORMAT" validate:"oneof=json text"`
	Currency  string `json:"STORE_CURRENCY" validate:"len=3"`
}

// Load reads the environment, after merging in a .env file when one exists.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		APIURL:        getEnv("STOREFRONT_API_URL", api.DefaultBaseURL),
		StorageDriver: getEnv("STORAGE_DRIVER", repository.DriverFile),
		StateDir:      getEnv("STATE_DIR", defaultStateDir()),
		Profile:       getEnv("STORE_PROFILE", "default"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "storefront"),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "warn")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		Currency:  strings.ToUpper(getEnv("STORE_CURRENCY", "USD")),
	}

	if err := validation.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validation.Struct: %w", err)
	}

	return cfg, nil
}

func (c Config) Storage() repository.Config {
	return repository.Config{
		Driver:        c.StorageDriver,
		Namespace:     c.Profile,
		Dir:           c.StateDir,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		PostgresDSN:   c.PostgresDSN,
		MongoURI:      c.MongoURI,
		MongoDB:       c.MongoDBName,
	}
}

func (c Config) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency.ParseISO[%s]: %w", c.Currency, err)
	}
	return unit, nil
}

// NewLogger builds the process logger. Output goes to w so command output on stdout stays clean.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}

	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return level
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(dir, "storefront")
}
