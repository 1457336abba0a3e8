package rules

import (
	"fmt"
	"time"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

// ProximityPatternEvaluator keeps paired staff taking off days close together.
//
// Scope:
//   - Once per run, for every staff group with a proximity pattern
//
// Violations:
//   - proximity_pattern (medium) for each weekday (Mon-Fri) off day of the
//     trigger with no target off day within MaxDayOffset days either side
//
// The search window may extend beyond the validated range; schedule cells
// outside it are used when present.
type ProximityPatternEvaluator struct{}

// NewProximityPatternEvaluator creates a new ProximityPatternEvaluator
func NewProximityPatternEvaluator() *ProximityPatternEvaluator {
	return &ProximityPatternEvaluator{}
}

func (e *ProximityPatternEvaluator) Name() string {
	return "ProximityPattern"
}

func (e *ProximityPatternEvaluator) EvaluatePeriod(ctx *validation.Context) []validation.Violation {
	var violations []validation.Violation

	for _, group := range ctx.Rules.StaffGroups {
		pattern := group.Proximity
		if pattern == nil {
			continue
		}

		trigger, ok := ctx.ResolveMember(pattern.TriggerStaffID)
		if !ok {
			continue
		}
		target, ok := ctx.ResolveMember(pattern.TargetStaffID)
		if !ok {
			continue
		}

		for _, date := range ctx.Dates {
			if !isWeekday(date) || !ctx.IsOff(trigger.ID, date) {
				continue
			}
			if hasOffWithin(ctx, target.ID, date, pattern.MaxDayOffset) {
				continue
			}

			dateKey := model.DateKey(date)
			violations = append(violations, validation.Violation{
				Type:      validation.TypeProximityPattern,
				Severity:  validation.SeverityMedium,
				Date:      dateKey,
				StaffID:   target.ID,
				StaffName: target.Name,
				GroupName: group.Name,
				Message: fmt.Sprintf("%s is off on %s but %s has no off day within %d days",
					trigger.Name, dateKey, target.Name, pattern.MaxDayOffset),
				Details: map[string]any{
					"trigger":      trigger.Name,
					"target":       target.Name,
					"maxDayOffset": pattern.MaxDayOffset,
					"windowStart":  model.DateKey(date.AddDate(0, 0, -pattern.MaxDayOffset)),
					"windowEnd":    model.DateKey(date.AddDate(0, 0, pattern.MaxDayOffset)),
				},
			})
		}
	}

	return violations
}

func isWeekday(date time.Time) bool {
	day := date.Weekday()
	return day != time.Saturday && day != time.Sunday
}

// hasOffWithin reports whether staffID is off on any day in [date-offset, date+offset]
func hasOffWithin(ctx *validation.Context, staffID string, date time.Time, offset int) bool {
	for delta := -offset; delta <= offset; delta++ {
		if ctx.IsOff(staffID, date.AddDate(0, 0, delta)) {
			return true
		}
	}
	return false
}
