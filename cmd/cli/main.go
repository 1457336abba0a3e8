package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/cmd/cli/commands"
	"github.com/jakechorley/restaurant-rota/internal/config"
	"github.com/jakechorley/restaurant-rota/pkg/core/configcache"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation/rules"
	"github.com/jakechorley/restaurant-rota/pkg/db"
	"github.com/jakechorley/restaurant-rota/pkg/metrics"
	"github.com/jakechorley/restaurant-rota/pkg/postgres"
	"github.com/jakechorley/restaurant-rota/pkg/redis"
	"github.com/jakechorley/restaurant-rota/pkg/rulesfile"
	"github.com/jakechorley/restaurant-rota/pkg/sqlite"
	"github.com/jakechorley/restaurant-rota/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{Ctx: context.Background()}
	closers []func()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rota",
		Short: "Restaurant rota CLI - Validate shift schedules",
		Long:  `A CLI tool for checking restaurant shift schedules against staffing rules.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdown()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects rota_config.<env>.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")

	rootCmd.AddCommand(commands.ValidateCmd(app))
	rootCmd.AddCommand(commands.RulesCmd(app))
	rootCmd.AddCommand(commands.ImportRulesCmd(app))
	rootCmd.AddCommand(commands.WatchCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd())

	if err := rootCmd.Execute(); err != nil {
		shutdown()
		os.Exit(1)
	}
}

// initApp sets up logger, config, rule store, cache and validator
func initApp() error {
	var err error
	app.Env = env

	app.Logger, err = logging.InitLoggerWithOptions(env, logging.Options{Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully", zap.String("driver", app.Cfg.RuleStore.Driver))

	app.Metrics = metrics.New()

	provider, err := initRuleStore()
	if err != nil {
		return err
	}

	app.Cache = configcache.New(provider, app.Logger, configcache.Options{
		TTL:             app.Cfg.Cache.TTL,
		ProviderTimeout: app.Cfg.Cache.ProviderTimeout,
		Metrics:         app.Metrics,
	})

	if app.Cfg.Redis != nil {
		app.Logger.Info("Connecting to redis")
		app.Bus, err = redis.NewBus(app.Cfg.Redis, app.Logger)
		if err != nil {
			return err
		}
		closers = append(closers, func() { _ = app.Bus.Close() })
	}

	if app.RuleStore != nil {
		app.RuleStore.OnWrite(func(keys []string) {
			app.Cache.Invalidate()
			if app.Bus == nil {
				return
			}
			if err := app.Bus.Publish(app.Ctx, keys); err != nil {
				app.Logger.Warn("Failed to publish configuration change", zap.Error(err))
			}
		})
	}

	app.Validator = validation.NewValidator(app.Cache, rules.DefaultRegistry(), app.Logger)
	app.Logger.Debug("Validator initialized")

	return nil
}

// initRuleStore opens the configured rule store and returns the provider the cache reads from
func initRuleStore() (configcache.Provider, error) {
	storeCfg := app.Cfg.RuleStore

	switch storeCfg.Driver {
	case config.DriverFile:
		app.Logger.Info("Reading rules from file", zap.String("path", storeCfg.Path))
		return rulesfile.NewProvider(storeCfg.Path), nil

	case config.DriverSQLite:
		app.Logger.Info("Opening sqlite rule store", zap.String("path", storeCfg.Path))
		database, err := sqlite.Open(app.Ctx, storeCfg.Path, app.Logger)
		if err != nil {
			return nil, err
		}
		closers = append(closers, func() { _ = database.Close() })
		app.RuleStore = db.NewRuleStore(database, app.Logger)
		return app.RuleStore, nil

	case config.DriverPostgres:
		app.Logger.Info("Connecting to postgres rule store")
		database, err := postgres.NewDB(app.Ctx, storeCfg.DSN, storeCfg.NotifyChannel, app.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		closers = append(closers, database.Close)

		if err := database.RunMigrations(app.Ctx); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		app.Postgres = database
		app.RuleStore = db.NewRuleStore(database, app.Logger)
		return app.RuleStore, nil

	default:
		return nil, fmt.Errorf("unknown rule store driver %q", storeCfg.Driver)
	}
}

// shutdown releases connections and flushes the logger. Safe to call more than once.
func shutdown() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil

	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
}
