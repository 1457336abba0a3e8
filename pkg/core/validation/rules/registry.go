package rules

import "github.com/jakechorley/restaurant-rota/pkg/core/validation"

// DefaultRegistry returns a registry holding every built-in evaluator.
// Registration order decides the order of violations within each pass.
func DefaultRegistry() *validation.Registry {
	registry := validation.NewRegistry()

	mustRegister(registry, NewMonthlyOffLimitEvaluator())
	mustRegister(registry, NewConsecutivePatternEvaluator())
	mustRegister(registry, NewWeeklyLimitEvaluator())
	mustRegister(registry, NewDailyLimitsEvaluator())
	mustRegister(registry, NewGroupConflictEvaluator())
	mustRegister(registry, NewPriorityRuleEvaluator())
	mustRegister(registry, NewCoverageCompensationEvaluator())
	mustRegister(registry, NewProximityPatternEvaluator())

	return registry
}

func mustRegister(r *validation.Registry, e validation.Evaluator) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}
