package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"

	"github.com/packagingcountry/stockroom/internal/store"
)

const (
	ServerModeDev  = "dev"
	ServerModeProd = "prod"
)

type Configuration struct {
	Server    Server
	Store     Store
	Scheduler Scheduler
	LogFormat string `default:"console"`
	LogLevel  string `default:"info"`
}

type Server struct {
	ServerMode string `default:"dev"`
	HTTPPort   int    `default:"8000"`
}

type Store struct {
	Backend string `default:"sqlite"`
	// DataFolder holds the database file. Empty means an in-memory
	// database that is lost on exit.
	DataFolder  string
	OpenTimeout time.Duration `default:"0s"`
}

type Scheduler struct {
	Workers int `default:"3"`
}

// NewConfigurationWithDefaults returns a configuration with every field set
// to its default.
func NewConfigurationWithDefaults() *Configuration {
	c := &Configuration{}
	if err := defaults.Set(c); err != nil {
		panic(fmt.Sprintf("invalid configuration defaults: %v", err))
	}
	return c
}

func (c *Configuration) Validate() error {
	switch c.Server.ServerMode {
	case ServerModeDev, ServerModeProd:
	default:
		return fmt.Errorf("invalid server mode %q: must be %q or %q", c.Server.ServerMode, ServerModeDev, ServerModeProd)
	}
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port %d", c.Server.HTTPPort)
	}
	if _, err := store.ParseBackend(c.Store.Backend); err != nil {
		return err
	}
	if c.Store.OpenTimeout < 0 {
		return fmt.Errorf("invalid open timeout %s", c.Store.OpenTimeout)
	}
	if c.Scheduler.Workers < 1 {
		return fmt.Errorf("invalid number of workers %d: must be at least 1", c.Scheduler.Workers)
	}
	return nil
}

// DatabasePath is the file holding the database, or ":memory:" when no
// data folder is configured.
func (s Store) DatabasePath() string {
	if s.DataFolder == "" {
		return ":memory:"
	}
	ext := ".db"
	if s.Backend == string(store.BackendDuckDB) {
		ext = ".duckdb"
	}
	return filepath.Join(s.DataFolder, "stockroom"+ext)
}

// Fields flattens the configuration into key/value pairs for structured
// logging.
func (c *Configuration) Fields() []any {
	return []any{
		"server_mode", c.Server.ServerMode,
		"http_port", c.Server.HTTPPort,
		"store_backend", c.Store.Backend,
		"data_folder", c.Store.DataFolder,
		"open_timeout", c.Store.OpenTimeout,
		"workers", c.Scheduler.Workers,
		"log_format", c.LogFormat,
		"log_level", c.LogLevel,
	}
}
