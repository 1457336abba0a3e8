package rules

import (
	"fmt"
	"time"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

// PriorityRuleEvaluator checks individual weekday preferences.
//
// Scope:
//   - Per date, per rostered staff member with a preference for that weekday
//
// Violations:
//   - priority_rule when the assigned shift does not match the preferred kind.
//     High when the preference priority is "high", medium otherwise.
//
// Unassigned cells and rules for staff who are not rostered are skipped.
type PriorityRuleEvaluator struct{}

// NewPriorityRuleEvaluator creates a new PriorityRuleEvaluator
func NewPriorityRuleEvaluator() *PriorityRuleEvaluator {
	return &PriorityRuleEvaluator{}
}

func (e *PriorityRuleEvaluator) Name() string {
	return "PriorityRule"
}

func (e *PriorityRuleEvaluator) EvaluateDate(ctx *validation.Context, date time.Time) []validation.Violation {
	var violations []validation.Violation
	dateKey := model.DateKey(date)

	for _, rule := range ctx.Rules.PriorityRules {
		staff, ok := ctx.ResolveMember(rule.StaffID)
		if !ok {
			continue
		}

		for _, pref := range rule.Preferences {
			weekday, ok := model.ParseWeekday(pref.DayOfWeek)
			if !ok || weekday != date.Weekday() {
				continue
			}

			v, ok := ctx.Cell(staff.ID, date)
			if !ok || shift.Matches(v, pref.ShiftKind) {
				continue
			}

			severity := validation.SeverityMedium
			if pref.Priority == "high" {
				severity = validation.SeverityHigh
			}

			actual := shift.Classify(v)
			violations = append(violations, validation.Violation{
				Type:      validation.TypePriorityRule,
				Severity:  severity,
				Date:      dateKey,
				StaffID:   staff.ID,
				StaffName: staff.Name,
				Message: fmt.Sprintf("%s prefers %s on %s but is scheduled %s on %s",
					staff.Name, pref.ShiftKind, weekday, actual, dateKey),
				Details: map[string]any{
					"dayOfWeek": weekday.String(),
					"required":  string(pref.ShiftKind),
					"actual":    string(actual),
					"priority":  pref.Priority,
				},
			})
		}
	}

	return violations
}
