package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/internal/config"
	"github.com/jakechorley/restaurant-rota/pkg/clients/sheetsclient"
	"github.com/jakechorley/restaurant-rota/pkg/core/configcache"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
	"github.com/jakechorley/restaurant-rota/pkg/db"
	"github.com/jakechorley/restaurant-rota/pkg/metrics"
	"github.com/jakechorley/restaurant-rota/pkg/postgres"
	"github.com/jakechorley/restaurant-rota/pkg/redis"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env       string
	Cfg       *config.Config
	Cache     *configcache.Cache
	Validator *validation.Validator
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	Ctx       context.Context

	// RuleStore is nil when rules are read from a YAML file
	RuleStore *db.RuleStore

	// Postgres is set when the postgres driver is configured
	Postgres *postgres.DB

	// Bus is set when redis is configured
	Bus *redis.Bus

	sheetsClient *sheetsclient.Client
}

// SheetsClient returns the Google Sheets client, authenticating on first use
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	app.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	app.sheetsClient = client
	return client, nil
}
