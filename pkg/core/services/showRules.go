package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

// CurrentRules returns the rule snapshot validation would use for a month
func CurrentRules(ctx context.Context, source validation.RuleSource, year int, month time.Month, logger *zap.Logger) model.RuleSet {
	logger.Debug("Loading rule snapshot", zap.Int("year", year), zap.Int("month", int(month)))
	return source.Snapshot(ctx, year, month)
}
