package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
)

// RuleWriter persists rule configuration. db.RuleStore implements it.
type RuleWriter interface {
	SaveRuleSet(ctx context.Context, rules *model.RuleSet) error
}

// ImportRules writes a complete rule set to the store
func ImportRules(ctx context.Context, store RuleWriter, rules *model.RuleSet, logger *zap.Logger) error {
	logger.Debug("Importing rules",
		zap.Int("staff_groups", len(rules.StaffGroups)),
		zap.Int("priority_rules", len(rules.PriorityRules)),
		zap.Int("weekly_limits", len(rules.WeeklyLimits)),
		zap.Int("backup_assignments", len(rules.BackupAssignments)))

	if err := store.SaveRuleSet(ctx, rules); err != nil {
		return fmt.Errorf("failed to import rules: %w", err)
	}

	logger.Info("Imported rules")
	return nil
}
