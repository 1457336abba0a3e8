package validation

import "errors"

// ErrInvalidInput is returned for caller mistakes (e.g. an empty or unsorted date
// range). Rule outcomes are never errors; they are reported as Violations.
var ErrInvalidInput = errors.New("invalid validation input")

// Severity ranks violations for remediation
type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities, higher is more severe
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	}
	return 0
}

// ViolationType enumerates the rule families that can be violated
type ViolationType string

const (
	TypeMonthlyOffLimit      ViolationType = "monthly_off_limit"
	TypeConsecutiveOff       ViolationType = "consecutive_off"
	TypeConsecutiveEarly     ViolationType = "consecutive_early"
	TypeWeeklyLimitExceeded  ViolationType = "weekly_limit_exceeded"
	TypeDailyOffLimit        ViolationType = "daily_off_limit"
	TypeDailyEarlyLimit      ViolationType = "daily_early_limit"
	TypeDailyLateLimit       ViolationType = "daily_late_limit"
	TypeInsufficientCoverage ViolationType = "insufficient_coverage"
	TypeSameDayOff           ViolationType = "same_day_off"
	TypeSameEarlyShift       ViolationType = "same_early_shift"
	TypeMixedOffEarly        ViolationType = "mixed_off_early"
	TypePriorityRule         ViolationType = "priority_rule"
	TypeCoverageCompensation ViolationType = "coverage_compensation"
	TypeProximityPattern     ViolationType = "proximity_pattern"
)

// Violation is a single broken rule. Violations are plain values produced fresh
// on every run and never reference the caller's schedule.
type Violation struct {
	Type      ViolationType  `json:"type"`
	Severity  Severity       `json:"severity"`
	Date      string         `json:"date,omitempty"`
	StaffID   string         `json:"staffId,omitempty"`
	StaffName string         `json:"staffName,omitempty"`
	GroupName string         `json:"groupName,omitempty"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// Summary aggregates a run's violations
type Summary struct {
	TotalViolations    int                   `json:"totalViolations"`
	ConstraintsChecked int                   `json:"constraintsChecked"`
	BySeverity         map[Severity]int      `json:"bySeverity"`
	ByType             map[ViolationType]int `json:"byType"`
	ByStaff            map[string]int        `json:"byStaff"`
	ByDate             map[string]int        `json:"byDate"`
}

// Report is the outcome of validating one schedule
type Report struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
	Summary    Summary     `json:"summary"`
	RangeStart string      `json:"rangeStart"`
	RangeEnd   string      `json:"rangeEnd"`
}
