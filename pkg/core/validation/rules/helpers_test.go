package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

// monday is 2024-01-01, the first day of every test roster
var monday = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// testDates returns n consecutive dates starting on monday
func testDates(n int) []time.Time {
	return model.DateRange(monday, monday.AddDate(0, 0, n-1))
}

// rosterBuilder builds rosters from rows of cell symbols, one per date
type rosterBuilder struct {
	roster model.Roster
}

func newRoster(days int) *rosterBuilder {
	return &rosterBuilder{roster: model.Roster{
		Dates:    testDates(days),
		Schedule: model.Schedule{},
	}}
}

// row adds a full-time staff member. An empty cell string leaves the date unassigned;
// use "○" for a normal shift.
func (b *rosterBuilder) row(id string, cells ...string) *rosterBuilder {
	return b.rowWithStatus(id, model.StatusFullTime, cells...)
}

func (b *rosterBuilder) rowWithStatus(id string, status model.StaffStatus, cells ...string) *rosterBuilder {
	b.roster.Staff = append(b.roster.Staff, model.StaffMember{ID: id, Name: "Name " + id, Status: status})
	for i, cell := range cells {
		if cell == "" || i >= len(b.roster.Dates) {
			continue
		}
		b.roster.Schedule.Set(id, b.roster.Dates[i], shift.Value(cell))
	}
	return b
}

func (b *rosterBuilder) build() model.Roster {
	return b.roster
}

// repeat returns n copies of a cell
func repeat(cell string, n int) []string {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = cell
	}
	return cells
}

// permissiveRules disables every rule so tests can enable only what they check
func permissiveRules() model.RuleSet {
	return model.RuleSet{
		MonthlyLimits: model.MonthlyLimits{Year: 2024, Month: 1, MaxOffDaysPerMonth: 31},
	}
}

func newContext(t *testing.T, roster model.Roster, rules model.RuleSet) *validation.Context {
	t.Helper()
	require.NotEmpty(t, roster.Dates)
	return validation.NewContext(roster, rules, nil)
}

func ofType(violations []validation.Violation, kind validation.ViolationType) []validation.Violation {
	var out []validation.Violation
	for _, v := range violations {
		if v.Type == kind {
			out = append(out, v)
		}
	}
	return out
}
