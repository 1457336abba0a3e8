package rules

import (
	"fmt"
	"time"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

// DailyLimitsEvaluator checks per-date minimum and maximum shift counts.
//
// Scope:
//   - Per date, across all rostered staff with an assigned cell
//
// Violations:
//   - insufficient_coverage (critical) when fewer than MinWorking staff work
//   - daily_off_limit (high above MaxOff, medium below MinOff)
//   - daily_early_limit, daily_late_limit (medium)
//
// Only staff whose status is in EarlyCountedStatuses count towards the early tally.
// A maximum of 0 disables that maximum; model.NoneAllowed caps it at zero.
type DailyLimitsEvaluator struct{}

// NewDailyLimitsEvaluator creates a new DailyLimitsEvaluator
func NewDailyLimitsEvaluator() *DailyLimitsEvaluator {
	return &DailyLimitsEvaluator{}
}

func (e *DailyLimitsEvaluator) Name() string {
	return "DailyLimits"
}

// dailyTally counts shift kinds on one date
type dailyTally struct {
	off, early, late, working int
}

func (e *DailyLimitsEvaluator) EvaluateDate(ctx *validation.Context, date time.Time) []validation.Violation {
	limits := ctx.DailyLimitsFor(date)
	dateKey := model.DateKey(date)

	var tally dailyTally
	for _, staff := range ctx.Staff {
		v, ok := ctx.Cell(staff.ID, date)
		if !ok {
			continue
		}
		if shift.IsOffDay(v) {
			tally.off++
		}
		if shift.IsEarlyShift(v) && limits.CountsEarly(staff.Status) {
			tally.early++
		}
		if shift.IsLateShift(v) {
			tally.late++
		}
		if shift.IsWorkingShift(v) {
			tally.working++
		}
	}

	var violations []validation.Violation

	if tally.working < limits.MinWorking {
		violations = append(violations, validation.Violation{
			Type:     validation.TypeInsufficientCoverage,
			Severity: validation.SeverityCritical,
			Date:     dateKey,
			Message:  fmt.Sprintf("Only %d staff working on %s (minimum %d)", tally.working, dateKey, limits.MinWorking),
			Details: map[string]any{
				"count":     tally.working,
				"limit":     limits.MinWorking,
				"shortfall": limits.MinWorking - tally.working,
				"bound":     "min",
			},
		})
	}

	violations = append(violations, checkBounds(dateKey, validation.TypeDailyOffLimit, "off", tally.off, limits.MinOff, limits.MaxOff, validation.SeverityHigh)...)
	violations = append(violations, checkBounds(dateKey, validation.TypeDailyEarlyLimit, "early", tally.early, limits.MinEarly, limits.MaxEarly, validation.SeverityMedium)...)
	violations = append(violations, checkBounds(dateKey, validation.TypeDailyLateLimit, "late", tally.late, limits.MinLate, limits.MaxLate, validation.SeverityMedium)...)

	return violations
}

// checkBounds reports a count outside [min, max]. aboveSeverity applies when the
// maximum is exceeded; falling short of the minimum is always medium.
func checkBounds(dateKey string, kind validation.ViolationType, label string, count, min, max int, aboveSeverity validation.Severity) []validation.Violation {
	capped := max != 0
	if max == model.NoneAllowed {
		max = 0
	}
	if capped && count > max {
		return []validation.Violation{{
			Type:     kind,
			Severity: aboveSeverity,
			Date:     dateKey,
			Message:  fmt.Sprintf("%d staff on %s shifts on %s (maximum %d)", count, label, dateKey, max),
			Details: map[string]any{
				"shiftKind": label,
				"count":     count,
				"limit":     max,
				"excess":    count - max,
				"bound":     "max",
			},
		}}
	}

	if count < min {
		return []validation.Violation{{
			Type:     kind,
			Severity: validation.SeverityMedium,
			Date:     dateKey,
			Message:  fmt.Sprintf("%d staff on %s shifts on %s (minimum %d)", count, label, dateKey, min),
			Details: map[string]any{
				"shiftKind": label,
				"count":     count,
				"limit":     min,
				"shortfall": min - count,
				"bound":     "min",
			},
		}}
	}

	return nil
}
