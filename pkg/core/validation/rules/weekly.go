package rules

import (
	"fmt"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

// windowLength is the number of days in a rolling week
const windowLength = 7

// WeeklyLimitEvaluator bounds shift kinds within every rolling 7-day window.
//
// Scope:
//   - Per staff member; a no-op when fewer than 7 dates are supplied
//
// Violations:
//   - weekly_limit_exceeded for each window (of the N-6 windows) and limit where
//     the count exceeds MaxCount. High for hard limits, medium otherwise.
//
// Overlapping windows are not deduplicated.
type WeeklyLimitEvaluator struct{}

// NewWeeklyLimitEvaluator creates a new WeeklyLimitEvaluator
func NewWeeklyLimitEvaluator() *WeeklyLimitEvaluator {
	return &WeeklyLimitEvaluator{}
}

func (e *WeeklyLimitEvaluator) Name() string {
	return "WeeklyLimit"
}

func (e *WeeklyLimitEvaluator) EvaluateStaff(ctx *validation.Context, staff model.StaffMember) []validation.Violation {
	if len(ctx.Dates) < windowLength {
		return nil
	}

	var violations []validation.Violation

	for _, limit := range ctx.Rules.WeeklyLimits {
		if !limit.AppliesTo(staff) {
			continue
		}

		for start := 0; start+windowLength <= len(ctx.Dates); start++ {
			window := ctx.Dates[start : start+windowLength]

			var matched []string
			for _, date := range window {
				if !limit.CountsDay(date.Weekday()) {
					continue
				}
				if v, ok := ctx.Cell(staff.ID, date); ok && matchesKind(v, limit.ShiftKind) {
					matched = append(matched, model.DateKey(date))
				}
			}

			if len(matched) <= limit.MaxCount {
				continue
			}

			severity := validation.SeverityMedium
			if limit.IsHard {
				severity = validation.SeverityHigh
			}

			windowStart := model.DateKey(window[0])
			windowEnd := model.DateKey(window[len(window)-1])

			violations = append(violations, validation.Violation{
				Type:      validation.TypeWeeklyLimitExceeded,
				Severity:  severity,
				Date:      windowStart,
				StaffID:   staff.ID,
				StaffName: staff.Name,
				Message: fmt.Sprintf("%s has %d %s shifts between %s and %s (limit %d)",
					staff.Name, len(matched), limit.ShiftKind, windowStart, windowEnd, limit.MaxCount),
				Details: map[string]any{
					"shiftKind":   string(limit.ShiftKind),
					"count":       len(matched),
					"limit":       limit.MaxCount,
					"windowStart": windowStart,
					"windowEnd":   windowEnd,
					"dates":       matched,
					"isHard":      limit.IsHard,
					"penalty":     limit.Penalty,
				},
			})
		}
	}

	return violations
}

// matchesKind reports whether a cell counts towards a limit on the given kind
func matchesKind(v shift.Value, kind shift.Kind) bool {
	switch kind {
	case shift.KindOff:
		return shift.IsOffDay(v)
	case shift.KindEarly:
		return shift.IsEarlyShift(v)
	case shift.KindLate:
		return shift.IsLateShift(v)
	default:
		return shift.Classify(v) == kind
	}
}
