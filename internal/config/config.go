package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/lensflow/internal/model"
	"github.com/MrJamesThe3rd/lensflow/internal/settings"
)

// StorageMode selects the persistence backend for every session.
type StorageMode string

const (
	StorageLocal  StorageMode = "local"
	StorageRemote StorageMode = "remote"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"LensFlow"`
		Port int    `envconfig:"PORT" default:"8080"`
		// Account is used by the CLI and the TUI, which have no login.
		Account string `envconfig:"ACCOUNT_ID" default:"local"`
	}

	Storage struct {
		Mode      StorageMode `envconfig:"STORAGE_MODE" default:"local"`
		LocalPath string      `envconfig:"LOCAL_DB_PATH"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"lensflow"`
	}

	Auth struct {
		JWTSecret         string        `envconfig:"JWT_SECRET"`
		TokenTTL          time.Duration `envconfig:"TOKEN_TTL" default:"12h"`
		AdminUser         string        `envconfig:"ADMIN_USER" default:"admin"`
		AdminPasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`
	}

	Archive struct {
		Endpoint  string `envconfig:"ARCHIVE_ENDPOINT"`
		AccessKey string `envconfig:"ARCHIVE_ACCESS_KEY"`
		SecretKey string `envconfig:"ARCHIVE_SECRET_KEY"`
		Bucket    string `envconfig:"ARCHIVE_BUCKET" default:"lensflow-backups"`
		UseSSL    bool   `envconfig:"ARCHIVE_SSL" default:"false"`
	}

	Deadline struct {
		WindowDays int `envconfig:"DEADLINE_WINDOW_DAYS" default:"3"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// LocalDBPath is LOCAL_DB_PATH, or lensflow.db next to the settings file.
func (c *Config) LocalDBPath() string {
	if c.Storage.LocalPath != "" {
		return c.Storage.LocalPath
	}

	return filepath.Join(settings.Dir(), "lensflow.db")
}

// ArchiveEnabled reports whether an object store is configured for backups.
func (c *Config) ArchiveEnabled() bool {
	return c.Archive.Endpoint != ""
}

func (c *Config) Validate() error {
	switch c.Storage.Mode {
	case StorageLocal, StorageRemote:
	default:
		return fmt.Errorf("unknown STORAGE_MODE %q: %w", c.Storage.Mode, model.ErrValidation)
	}

	if c.Deadline.WindowDays < 0 {
		return fmt.Errorf("DEADLINE_WINDOW_DAYS must not be negative: %w", model.ErrValidation)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
