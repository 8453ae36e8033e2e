package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/packagingcountry/stockroom/internal/config"
	"github.com/packagingcountry/stockroom/internal/store"
)

const envPrefix = "stockroom"

// NewRootCommand builds the CLI. Every configuration field is a persistent
// flag; unset flags are filled from STOCKROOM_* environment variables, then
// from the --config file.
func NewRootCommand() *cobra.Command {
	cfg := config.NewConfigurationWithDefaults()
	var configFile string

	cmd := &cobra.Command{
		Use:           "stockroom",
		Short:         "Inventory and sales tracker for small shops",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(envPrefix),
			func(cmd *cobra.Command, _ []string) error {
				return readConfigFile(cmd.Flags(), configFile)
			},
			func(cmd *cobra.Command, _ []string) error {
				if err := cfg.Validate(); err != nil {
					return err
				}
				return setupLogger(cfg.LogFormat, cfg.LogLevel)
			},
		),
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = zap.L().Sync()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "path to a config file (yaml, json or toml) with flag names as keys")
	flags.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "server mode: dev or prod")
	flags.IntVar(&cfg.Server.HTTPPort, "http-port", cfg.Server.HTTPPort, "HTTP listen port")
	flags.StringVar(&cfg.Store.Backend, "store-backend", cfg.Store.Backend, "database engine: sqlite or duckdb")
	flags.StringVar(&cfg.Store.DataFolder, "data-folder", cfg.Store.DataFolder, "folder of the database file, empty for an in-memory database")
	flags.DurationVar(&cfg.Store.OpenTimeout, "open-timeout", cfg.Store.OpenTimeout, "how long to retry opening a locked database")
	flags.IntVar(&cfg.Scheduler.Workers, "workers", cfg.Scheduler.Workers, "number of scheduler workers")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: console or json")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	cmd.AddCommand(NewRunCommand(cfg))
	cmd.AddCommand(NewMigrateCommand(cfg))
	cmd.AddCommand(NewSeedCommand(cfg))
	cmd.AddCommand(NewReportCommand(cfg))
	cmd.AddCommand(NewDashboardCommand(cfg))

	return cmd
}

// readConfigFile sets every flag that is still at its default from the
// config file.
func readConfigFile(flags *pflag.FlagSet, path string) error {
	if path == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		if setErr := f.Value.Set(v.GetString(f.Name)); setErr != nil {
			err = fmt.Errorf("invalid value for %s in %s: %w", f.Name, path, setErr)
		}
	})
	return err
}

func setupLogger(format, level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	var zcfg zap.Config
	switch strings.ToLower(format) {
	case "json":
		zcfg = zap.NewProductionConfig()
	case "console", "":
		zcfg = zap.NewDevelopmentConfig()
	default:
		return fmt.Errorf("invalid log format %q: must be console or json", format)
	}
	zcfg.Level = lvl

	logger, err := zcfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// openStore opens the configured store and brings its schema up to date.
func openStore(ctx context.Context, cfg *config.Configuration) (*store.Store, error) {
	st := newStore(cfg)
	if err := st.Initialize(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func newStore(cfg *config.Configuration) *store.Store {
	backend, _ := store.ParseBackend(cfg.Store.Backend)
	if cfg.Store.DataFolder == "" {
		zap.S().Warn("no data folder configured: using an in-memory database, data is lost on exit")
	}
	return store.NewStore(backend, cfg.Store.DatabasePath(), store.WithOpenTimeout(cfg.Store.OpenTimeout))
}
