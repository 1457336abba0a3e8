package validation

import (
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
)

// Context is the read-only input shared by every evaluator during one run
type Context struct {
	Staff    []model.StaffMember
	Dates    []time.Time
	Schedule model.Schedule
	Rules    model.RuleSet

	staffByID   map[string]model.StaffMember
	staffByName map[string]model.StaffMember

	// dailyLimits holds per-date limits for dates matched by an override
	dailyLimits map[string]model.DailyLimits
}

// NewContext indexes the roster and resolves date-specific rule overrides
func NewContext(roster model.Roster, rules model.RuleSet, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Context{
		Staff:       roster.Staff,
		Dates:       roster.Dates,
		Schedule:    roster.Schedule,
		Rules:       rules,
		staffByID:   make(map[string]model.StaffMember, len(roster.Staff)),
		staffByName: make(map[string]model.StaffMember, len(roster.Staff)),
	}
	for _, s := range roster.Staff {
		c.staffByID[s.ID] = s
		if _, exists := c.staffByName[s.Name]; !exists {
			c.staffByName[s.Name] = s
		}
	}
	c.dailyLimits = resolveDailyLimits(rules.DailyLimits, roster.Dates, logger)

	return c
}

// StaffByID looks up a rostered staff member by ID
func (c *Context) StaffByID(id string) (model.StaffMember, bool) {
	s, ok := c.staffByID[id]
	return s, ok
}

// ResolveMember finds a rostered staff member by ID, falling back to an exact name match.
// Rule configuration written by hand often refers to staff by name.
func (c *Context) ResolveMember(ref string) (model.StaffMember, bool) {
	if s, ok := c.staffByID[ref]; ok {
		return s, true
	}
	s, ok := c.staffByName[ref]
	return s, ok
}

// ResolveMembers resolves references, dropping unknown and duplicate staff
func (c *Context) ResolveMembers(refs []string) []model.StaffMember {
	var members []model.StaffMember
	seen := make(map[string]bool)
	for _, ref := range refs {
		s, ok := c.ResolveMember(ref)
		if !ok || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		members = append(members, s)
	}
	return members
}

// Cell returns the schedule value for a staff member on a date
func (c *Context) Cell(staffID string, date time.Time) (shift.Value, bool) {
	return c.Schedule.Cell(staffID, date)
}

// IsOff reports whether a staff member has an assigned off day on a date
func (c *Context) IsOff(staffID string, date time.Time) bool {
	v, ok := c.Cell(staffID, date)
	return ok && shift.IsOffDay(v)
}

// DailyLimitsFor returns the limits that apply on a date
func (c *Context) DailyLimitsFor(date time.Time) model.DailyLimits {
	if limits, ok := c.dailyLimits[model.DateKey(date)]; ok {
		return limits
	}
	return c.Rules.DailyLimits
}

// resolveDailyLimits expands each override's RRULE over the validation period.
// Later overrides are layered on top of earlier ones. Overrides with an
// unparseable RRULE are skipped so the remaining rules still apply.
func resolveDailyLimits(limits model.DailyLimits, dates []time.Time, logger *zap.Logger) map[string]model.DailyLimits {
	resolved := make(map[string]model.DailyLimits)
	if len(limits.Overrides) == 0 || len(dates) == 0 {
		return resolved
	}

	// Search a week either side of the period for edge cases
	searchStart := dates[0].AddDate(0, 0, -7)
	searchEnd := dates[len(dates)-1].AddDate(0, 0, 7)

	for i, override := range limits.Overrides {
		rule, err := rrule.StrToRRule(override.RRule)
		if err != nil {
			logger.Warn("Skipping daily limit override with invalid rrule",
				zap.Int("index", i),
				zap.String("rrule", override.RRule),
				zap.Error(err))
			continue
		}
		rule.DTStart(searchStart)

		occurrences := make(map[string]bool)
		for _, occurrence := range rule.Between(searchStart, searchEnd, true) {
			occurrences[model.DateKey(occurrence)] = true
		}

		for _, date := range dates {
			key := model.DateKey(date)
			if !occurrences[key] {
				continue
			}
			base, ok := resolved[key]
			if !ok {
				base = limits
			}
			resolved[key] = override.Apply(base)
		}
	}

	return resolved
}
