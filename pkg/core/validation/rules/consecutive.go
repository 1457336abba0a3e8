package rules

import (
	"fmt"
	"time"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

// minimumRun is the shortest run of identical days that is reported
const minimumRun = 2

// ConsecutivePatternEvaluator detects runs of consecutive off days and
// consecutive early shifts.
//
// Scope:
//   - Per staff member, scanning dates in order
//
// Violations:
//   - consecutive_off / consecutive_early for every completed run of 2 or more.
//     Exactly 2 days is high, 3 or more is critical.
//
// The two runs are tracked independently; a run still open at the end of the
// range is reported too. An unassigned cell breaks both runs.
type ConsecutivePatternEvaluator struct{}

// NewConsecutivePatternEvaluator creates a new ConsecutivePatternEvaluator
func NewConsecutivePatternEvaluator() *ConsecutivePatternEvaluator {
	return &ConsecutivePatternEvaluator{}
}

func (e *ConsecutivePatternEvaluator) Name() string {
	return "ConsecutivePattern"
}

// run tracks one streak of matching days
type run struct {
	kind      validation.ViolationType
	label     string
	startDate time.Time
	dates     []string
}

func (r *run) extend(date time.Time) {
	if len(r.dates) == 0 {
		r.startDate = date
	}
	r.dates = append(r.dates, model.DateKey(date))
}

// flush ends the run, returning a violation when it was long enough
func (r *run) flush(staff model.StaffMember) []validation.Violation {
	defer func() { r.dates = nil }()

	length := len(r.dates)
	if length < minimumRun {
		return nil
	}

	severity := validation.SeverityHigh
	if length > minimumRun {
		severity = validation.SeverityCritical
	}

	dates := make([]string, length)
	copy(dates, r.dates)

	return []validation.Violation{{
		Type:      r.kind,
		Severity:  severity,
		Date:      model.DateKey(r.startDate),
		StaffID:   staff.ID,
		StaffName: staff.Name,
		Message:   fmt.Sprintf("%s has %d consecutive %s from %s to %s", staff.Name, length, r.label, dates[0], dates[length-1]),
		Details: map[string]any{
			"length":    length,
			"startDate": dates[0],
			"endDate":   dates[length-1],
			"dates":     dates,
		},
	}}
}

func (e *ConsecutivePatternEvaluator) EvaluateStaff(ctx *validation.Context, staff model.StaffMember) []validation.Violation {
	var violations []validation.Violation

	offRun := &run{kind: validation.TypeConsecutiveOff, label: "off days"}
	earlyRun := &run{kind: validation.TypeConsecutiveEarly, label: "early shifts"}

	for _, date := range ctx.Dates {
		v, ok := ctx.Cell(staff.ID, date)

		if ok && shift.IsOffDay(v) {
			offRun.extend(date)
		} else {
			violations = append(violations, offRun.flush(staff)...)
		}

		if ok && shift.IsEarlyShift(v) {
			earlyRun.extend(date)
		} else {
			violations = append(violations, earlyRun.flush(staff)...)
		}
	}

	violations = append(violations, offRun.flush(staff)...)
	violations = append(violations, earlyRun.flush(staff)...)

	return violations
}
