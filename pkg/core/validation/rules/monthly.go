package rules

import (
	"fmt"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

// MonthlyOffLimitEvaluator limits the number of off days a staff member takes.
//
// Scope:
//   - Per staff member, across the whole supplied date range
//
// Violations:
//   - monthly_off_limit (high) when the off-day count exceeds MaxOffDaysPerMonth
//     for the month of the first date. Details carry the excess and the off dates.
type MonthlyOffLimitEvaluator struct{}

// NewMonthlyOffLimitEvaluator creates a new MonthlyOffLimitEvaluator
func NewMonthlyOffLimitEvaluator() *MonthlyOffLimitEvaluator {
	return &MonthlyOffLimitEvaluator{}
}

func (e *MonthlyOffLimitEvaluator) Name() string {
	return "MonthlyOffLimit"
}

func (e *MonthlyOffLimitEvaluator) EvaluateStaff(ctx *validation.Context, staff model.StaffMember) []validation.Violation {
	var offDates []string
	for _, date := range ctx.Dates {
		if v, ok := ctx.Cell(staff.ID, date); ok && shift.IsOffDay(v) {
			offDates = append(offDates, model.DateKey(date))
		}
	}

	limits := ctx.Rules.MonthlyLimits
	if len(offDates) <= limits.MaxOffDaysPerMonth {
		return nil
	}

	excess := len(offDates) - limits.MaxOffDaysPerMonth
	return []validation.Violation{{
		Type:      validation.TypeMonthlyOffLimit,
		Severity:  validation.SeverityHigh,
		StaffID:   staff.ID,
		StaffName: staff.Name,
		Message: fmt.Sprintf("%s has %d off days in %04d-%02d (limit %d)",
			staff.Name, len(offDates), limits.Year, limits.Month, limits.MaxOffDaysPerMonth),
		Details: map[string]any{
			"offDays": len(offDates),
			"limit":   limits.MaxOffDaysPerMonth,
			"excess":  excess,
			"dates":   offDates,
		},
	}}
}
