package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Library backends.
const (
	BackendSQLite   = "sqlite"
	BackendMySQL    = "mysql"
	BackendJSONFile = "jsonfile"
)

type Config struct {
	Port    int    `env:"PORT" envDefault:"7890"`
	DataDir string `env:"DATA_DIR" envDefault:"/data"`

	LibraryBackend string `env:"LIBRARY_BACKEND" envDefault:"sqlite"`
	MySQLDSN       string `env:"MYSQL_DSN"`

	Workers  int    `env:"WORKERS" envDefault:"2"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// ImportDir, when set, is imported into the library at startup.
	ImportDir       string `env:"IMPORT_DIR"`
	MaxImportSizeMB int    `env:"MAX_IMPORT_SIZE_MB" envDefault:"500"`
	FFprobePath     string `env:"FFPROBE_PATH" envDefault:"ffprobe"`

	APIToken        string `env:"API_TOKEN"`
	WritesPerMinute int    `env:"WRITES_PER_MINUTE" envDefault:"60"`
	BehindProxy     bool   `env:"BEHIND_PROXY" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}

	c.LibraryBackend = strings.ToLower(strings.TrimSpace(c.LibraryBackend))
	switch c.LibraryBackend {
	case BackendSQLite, BackendJSONFile:
	case BackendMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN is required when LIBRARY_BACKEND=mysql")
		}
	default:
		return fmt.Errorf("invalid LIBRARY_BACKEND %q: want sqlite, mysql or jsonfile", c.LibraryBackend)
	}

	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid WORKERS: %d", c.Workers)
	}
	if c.MaxImportSizeMB < 0 {
		return fmt.Errorf("invalid MAX_IMPORT_SIZE_MB: %d", c.MaxImportSizeMB)
	}
	if c.WritesPerMinute < 1 {
		return fmt.Errorf("invalid WRITES_PER_MINUTE: %d", c.WritesPerMinute)
	}
	return nil
}

// MaxImportSize is the import limit in bytes; zero means unlimited.
func (c *Config) MaxImportSize() int64 {
	return int64(c.MaxImportSizeMB) << 20
}
