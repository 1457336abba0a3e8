package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
)

// DateLayout is the layout of schedule date keys
const DateLayout = "2006-01-02"

// DateKey formats a date as a schedule key (YYYY-MM-DD)
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

type StaffStatus string

const (
	StatusFullTime StaffStatus = "full_time"
	StatusDispatch StaffStatus = "dispatch"
	StatusPartTime StaffStatus = "part_time"
)

func (s StaffStatus) IsValid() bool {
	return s == StatusFullTime || s == StatusDispatch || s == StatusPartTime
}

// StaffMember represents a member of restaurant staff
type StaffMember struct {
	ID     string      `yaml:"id" json:"id" validate:"required"`
	Name   string      `yaml:"name" json:"name" validate:"required"`
	Status StaffStatus `yaml:"status" json:"status" validate:"omitempty,oneof=full_time dispatch part_time"`
}

// Schedule maps staff ID -> date key -> cell value
type Schedule map[string]map[string]shift.Value

// Cell returns the value for a staff member on a date.
// ok is false when no value has been assigned.
func (s Schedule) Cell(staffID string, date time.Time) (shift.Value, bool) {
	row, ok := s[staffID]
	if !ok {
		return "", false
	}
	v, ok := row[DateKey(date)]
	return v, ok
}

// Set assigns a value, creating the staff row if needed
func (s Schedule) Set(staffID string, date time.Time, v shift.Value) {
	row, ok := s[staffID]
	if !ok {
		row = make(map[string]shift.Value)
		s[staffID] = row
	}
	row[DateKey(date)] = v
}

// Roster bundles everything a validation run needs from the caller
type Roster struct {
	Staff    []StaffMember
	Dates    []time.Time
	Schedule Schedule
}

// CoverageRule requires a backup staff member to be in a given state whenever
// a primary member of the group is off
type CoverageRule struct {
	BackupStaffID string `yaml:"backupStaffID" json:"backupStaffID" validate:"required"`

	// RequiredState is the shift kind the backup must be on; empty means any working shift
	RequiredState shift.Kind `yaml:"requiredState,omitempty" json:"requiredState,omitempty"`
}

// ProximityPattern requires the target's off days to fall within MaxDayOffset
// days of every weekday off day of the trigger
type ProximityPattern struct {
	TriggerStaffID string `yaml:"triggerStaffID" json:"triggerStaffID" validate:"required"`
	TargetStaffID  string `yaml:"targetStaffID" json:"targetStaffID" validate:"required"`
	MaxDayOffset   int    `yaml:"maxDayOffset" json:"maxDayOffset" validate:"min=0"`
}

// StaffGroup is a named set of staff whose shifts are mutually constrained
type StaffGroup struct {
	ID        string            `yaml:"id" json:"id"`
	Name      string            `yaml:"name" json:"name" validate:"required"`
	Members   []string          `yaml:"members" json:"members"`
	Coverage  *CoverageRule     `yaml:"coverage,omitempty" json:"coverage,omitempty"`
	Proximity *ProximityPattern `yaml:"proximity,omitempty" json:"proximity,omitempty"`
}

// Preference is a single weekday preference within a priority rule
type Preference struct {
	DayOfWeek string     `yaml:"dayOfWeek" json:"dayOfWeek" validate:"required,weekday"`
	ShiftKind shift.Kind `yaml:"shiftKind" json:"shiftKind" validate:"required"`
	Priority  string     `yaml:"priority" json:"priority" validate:"omitempty,oneof=high medium low"`
}

// PriorityRule holds the weekday preferences of one staff member
type PriorityRule struct {
	StaffID     string       `yaml:"staffID" json:"staffID" validate:"required"`
	Preferences []Preference `yaml:"preferences" json:"preferences" validate:"dive"`
}

// NoneAllowed as a daily maximum means no staff may be on that shift kind
const NoneAllowed = -1

// DailyLimits bounds shift counts across all staff for a single date.
// A maximum of 0 disables that check; NoneAllowed caps it at zero.
type DailyLimits struct {
	MinOff     int `yaml:"minOff" json:"minOff" validate:"min=0"`
	MaxOff     int `yaml:"maxOff" json:"maxOff" validate:"min=-1"`
	MinEarly   int `yaml:"minEarly" json:"minEarly" validate:"min=0"`
	MaxEarly   int `yaml:"maxEarly" json:"maxEarly" validate:"min=-1"`
	MinLate    int `yaml:"minLate" json:"minLate" validate:"min=0"`
	MaxLate    int `yaml:"maxLate" json:"maxLate" validate:"min=-1"`
	MinWorking int `yaml:"minWorking" json:"minWorking" validate:"min=0"`

	// EarlyCountedStatuses restricts which staff count towards the early tally.
	// Empty means everyone counts.
	EarlyCountedStatuses []StaffStatus `yaml:"earlyCountedStatuses,omitempty" json:"earlyCountedStatuses,omitempty"`

	// Overrides replace individual limits on dates matching an RRULE
	Overrides []DailyLimitOverride `yaml:"overrides,omitempty" json:"overrides,omitempty" validate:"dive"`
}

// DailyLimitOverride replaces limits on the dates an RRULE produces
type DailyLimitOverride struct {
	RRule      string `yaml:"rrule" json:"rrule" validate:"required"`
	MinOff     *int   `yaml:"minOff,omitempty" json:"minOff,omitempty" validate:"omitempty,min=0"`
	MaxOff     *int   `yaml:"maxOff,omitempty" json:"maxOff,omitempty" validate:"omitempty,min=-1"`
	MinEarly   *int   `yaml:"minEarly,omitempty" json:"minEarly,omitempty" validate:"omitempty,min=0"`
	MaxEarly   *int   `yaml:"maxEarly,omitempty" json:"maxEarly,omitempty" validate:"omitempty,min=-1"`
	MinLate    *int   `yaml:"minLate,omitempty" json:"minLate,omitempty" validate:"omitempty,min=0"`
	MaxLate    *int   `yaml:"maxLate,omitempty" json:"maxLate,omitempty" validate:"omitempty,min=-1"`
	MinWorking *int   `yaml:"minWorking,omitempty" json:"minWorking,omitempty" validate:"omitempty,min=0"`
}

// Apply returns a copy of base with this override's fields replaced
func (o DailyLimitOverride) Apply(base DailyLimits) DailyLimits {
	limits := base
	limits.Overrides = nil
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&limits.MinOff, o.MinOff)
	set(&limits.MaxOff, o.MaxOff)
	set(&limits.MinEarly, o.MinEarly)
	set(&limits.MaxEarly, o.MaxEarly)
	set(&limits.MinLate, o.MinLate)
	set(&limits.MaxLate, o.MaxLate)
	set(&limits.MinWorking, o.MinWorking)
	return limits
}

// CountsEarly reports whether early shifts of a staff member with the given
// status count towards the daily early tally
func (l DailyLimits) CountsEarly(status StaffStatus) bool {
	if len(l.EarlyCountedStatuses) == 0 {
		return true
	}
	for _, s := range l.EarlyCountedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Weekly limit scopes
const (
	ScopeAll = "all"
)

// WeeklyLimit bounds occurrences of a shift kind within any rolling 7-day window
type WeeklyLimit struct {
	ShiftKind shift.Kind `yaml:"shiftKind" json:"shiftKind" validate:"required,oneof=off early late"`
	MaxCount  int        `yaml:"maxCount" json:"maxCount" validate:"min=0"`

	// DaysOfWeek restricts which weekdays are counted. Empty counts every day.
	DaysOfWeek []string `yaml:"daysOfWeek,omitempty" json:"daysOfWeek,omitempty" validate:"dive,weekday"`

	// Scope is "all" (or empty) for every staff member, otherwise a staff status
	Scope   string  `yaml:"scope,omitempty" json:"scope,omitempty"`
	IsHard  bool    `yaml:"isHard" json:"isHard"`
	Penalty float64 `yaml:"penalty,omitempty" json:"penalty,omitempty"`
}

// AppliesTo reports whether the limit covers a staff member
func (w WeeklyLimit) AppliesTo(staff StaffMember) bool {
	return w.Scope == "" || w.Scope == ScopeAll || StaffStatus(w.Scope) == staff.Status
}

// CountsDay reports whether occurrences on the given weekday are counted
func (w WeeklyLimit) CountsDay(day time.Weekday) bool {
	if len(w.DaysOfWeek) == 0 {
		return true
	}
	for _, d := range w.DaysOfWeek {
		if wd, ok := ParseWeekday(d); ok && wd == day {
			return true
		}
	}
	return false
}

// MonthlyLimits bounds off days within a calendar month
type MonthlyLimits struct {
	Year                int `yaml:"year" json:"year"`
	Month               int `yaml:"month" json:"month" validate:"min=1,max=12"`
	MaxOffDaysPerMonth  int `yaml:"maxOffDaysPerMonth" json:"maxOffDaysPerMonth" validate:"min=0"`
	MinWorkDaysPerMonth int `yaml:"minWorkDaysPerMonth" json:"minWorkDaysPerMonth" validate:"min=0"`
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DeriveMonthlyLimits computes the standard limits for a month: 8 off days in a
// 31-day month, otherwise 7. The minimum number of working days is 23 for
// every month length (see DESIGN.md).
func DeriveMonthlyLimits(year int, month time.Month) MonthlyLimits {
	days := DaysInMonth(year, month)
	limits := MonthlyLimits{
		Year:                year,
		Month:               int(month),
		MaxOffDaysPerMonth:  7,
		MinWorkDaysPerMonth: 23,
	}
	if days == 31 {
		limits.MaxOffDaysPerMonth = 8
		limits.MinWorkDaysPerMonth = days - limits.MaxOffDaysPerMonth
	}
	return limits
}

// BackupAssignment lists staff who can cover for a group
type BackupAssignment struct {
	GroupID        string   `yaml:"groupID" json:"groupID" validate:"required"`
	BackupStaffIDs []string `yaml:"backupStaffIDs" json:"backupStaffIDs" validate:"required,min=1"`
}

// RuleSet is a snapshot of every rule configuration used by one validation run
type RuleSet struct {
	StaffGroups       []StaffGroup       `yaml:"staffGroups" json:"staffGroups" validate:"dive"`
	PriorityRules     []PriorityRule     `yaml:"priorityRules" json:"priorityRules" validate:"dive"`
	DailyLimits       DailyLimits        `yaml:"dailyLimits" json:"dailyLimits"`
	WeeklyLimits      []WeeklyLimit      `yaml:"weeklyLimits" json:"weeklyLimits" validate:"dive"`
	MonthlyLimits     MonthlyLimits      `yaml:"monthlyLimits" json:"monthlyLimits"`
	BackupAssignments []BackupAssignment `yaml:"backupAssignments" json:"backupAssignments" validate:"dive"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

// ParseWeekday parses an English weekday name ("monday" or "mon", any case)
func ParseWeekday(s string) (time.Weekday, bool) {
	wd, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	return wd, ok
}

// ParseDate parses a schedule date key
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DateRange returns every date from start to end inclusive
func DateRange(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
