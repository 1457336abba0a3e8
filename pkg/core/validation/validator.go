package validation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
)

// RuleSource supplies the rule snapshot for a run. configcache.Cache implements it.
type RuleSource interface {
	Snapshot(ctx context.Context, year int, month time.Month) model.RuleSet
}

// Validator runs every registered evaluator over a roster.
//
// The pipeline is: load rules -> per-staff pass -> per-date pass -> period pass -> aggregate.
// It never stops at the first violation; callers always receive the complete set.
type Validator struct {
	rules    RuleSource
	registry *Registry
	logger   *zap.Logger
}

// NewValidator creates a validator reading rules from the given source
func NewValidator(rules RuleSource, registry *Registry, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{rules: rules, registry: registry, logger: logger}
}

// Validate checks a roster against the current rule configuration.
// An error is only returned for invalid input (see ErrInvalidInput).
func (v *Validator) Validate(ctx context.Context, roster model.Roster) (*Report, error) {
	if err := checkRoster(roster); err != nil {
		return nil, err
	}

	first := roster.Dates[0]
	rules := v.rules.Snapshot(ctx, first.Year(), first.Month())

	return v.ValidateWithRules(roster, rules)
}

// ValidateWithRules checks a roster against an explicit rule set, bypassing the rule source
func (v *Validator) ValidateWithRules(roster model.Roster, rules model.RuleSet) (*Report, error) {
	if err := checkRoster(roster); err != nil {
		return nil, err
	}

	evalCtx := NewContext(roster, rules, v.logger)

	var violations []Violation
	checked := 0

	for _, staff := range roster.Staff {
		for _, e := range v.registry.staffEvaluators() {
			violations = append(violations, e.EvaluateStaff(evalCtx, staff)...)
			checked++
		}
	}

	for _, date := range roster.Dates {
		for _, e := range v.registry.dateEvaluators() {
			violations = append(violations, e.EvaluateDate(evalCtx, date)...)
			checked++
		}
	}

	for _, e := range v.registry.periodEvaluators() {
		violations = append(violations, e.EvaluatePeriod(evalCtx)...)
		checked++
	}

	if violations == nil {
		violations = []Violation{}
	}

	report := &Report{
		Valid:      len(violations) == 0,
		Violations: violations,
		Summary:    Summarize(violations, checked),
		RangeStart: model.DateKey(roster.Dates[0]),
		RangeEnd:   model.DateKey(roster.Dates[len(roster.Dates)-1]),
	}

	v.logger.Debug("Validation complete",
		zap.String("range_start", report.RangeStart),
		zap.String("range_end", report.RangeEnd),
		zap.Int("staff", len(roster.Staff)),
		zap.Int("constraints_checked", checked),
		zap.Int("violations", len(violations)))

	return report, nil
}

// checkRoster rejects input no rule could be meaningfully evaluated against
func checkRoster(roster model.Roster) error {
	if len(roster.Dates) == 0 {
		return fmt.Errorf("%w: date range is empty", ErrInvalidInput)
	}
	if roster.Schedule == nil {
		return fmt.Errorf("%w: schedule is nil", ErrInvalidInput)
	}

	for i := 1; i < len(roster.Dates); i++ {
		prev, cur := model.DateKey(roster.Dates[i-1]), model.DateKey(roster.Dates[i])
		if cur <= prev {
			return fmt.Errorf("%w: dates must be strictly increasing (%s follows %s)", ErrInvalidInput, cur, prev)
		}
	}

	seen := make(map[string]bool, len(roster.Staff))
	for _, s := range roster.Staff {
		if s.ID == "" {
			return fmt.Errorf("%w: staff member %q has no id", ErrInvalidInput, s.Name)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate staff id %q", ErrInvalidInput, s.ID)
		}
		seen[s.ID] = true
	}

	return nil
}
