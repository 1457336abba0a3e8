package validation

import "fmt"

// Recommendation priorities
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityNormal = "normal"
)

// Recommendation is a remediation suggestion for a single violation
type Recommendation struct {
	Violation          Violation `json:"violation"`
	Action             string    `json:"action"`
	Suggestion         string    `json:"suggestion"`
	Priority           string    `json:"priority"`
	AlternativeActions []string  `json:"alternativeActions"`
}

// remedy describes how a violation type is usually fixed
type remedy struct {
	action       string
	suggestion   func(v Violation) string
	alternatives []string
}

var remedies = map[ViolationType]remedy{
	TypeMonthlyOffLimit: {
		action: "reduce_off_days",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Change %v of %s's off days to working shifts", detail(v, "excess", "some"), who(v))
		},
		alternatives: []string{"Move surplus off days into the next month", "Confirm paid leave with the manager"},
	},
	TypeConsecutiveOff: {
		action: "split_off_days",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Move one of %s's consecutive off days starting %s to a separate day", who(v), v.Date)
		},
		alternatives: []string{"Swap an off day with a colleague", "Approve the block as requested leave"},
	},
	TypeConsecutiveEarly: {
		action: "rotate_early_shifts",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Replace one of %s's early shifts starting %s with a normal or late shift", who(v), v.Date)
		},
		alternatives: []string{"Assign the early shift to another full-time member"},
	},
	TypeWeeklyLimitExceeded: {
		action: "rebalance_week",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Reduce %s's %v shifts between %v and %v to at most %v",
				who(v), detail(v, "shiftKind", "restricted"), detail(v, "windowStart", v.Date), detail(v, "windowEnd", "?"), detail(v, "limit", "the limit"))
		},
		alternatives: []string{"Swap shifts with a colleague in the same week", "Move the shift to an adjacent week"},
	},
	TypeDailyOffLimit: {
		action: "adjust_daily_off",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Adjust the number of staff off on %s (currently %v)", v.Date, detail(v, "count", "?"))
		},
		alternatives: []string{"Move an off day to a quieter date", "Bring in dispatch staff"},
	},
	TypeDailyEarlyLimit: {
		action: "adjust_daily_early",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Adjust the number of early shifts on %s (currently %v)", v.Date, detail(v, "count", "?"))
		},
		alternatives: []string{"Convert an early shift to a normal shift"},
	},
	TypeDailyLateLimit: {
		action: "adjust_daily_late",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Adjust the number of late shifts on %s (currently %v)", v.Date, detail(v, "count", "?"))
		},
		alternatives: []string{"Convert a late shift to a normal shift"},
	},
	TypeInsufficientCoverage: {
		action: "add_working_staff",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Schedule at least %v more staff on %s", detail(v, "shortfall", "one"), v.Date)
		},
		alternatives: []string{"Cancel an off day on this date", "Request cover from dispatch staff", "Reduce opening hours"},
	},
	TypeSameDayOff: {
		action: "stagger_group_off_days",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Move the off day of one %s member on %s", v.GroupName, v.Date)
		},
		alternatives: []string{"Assign a backup for the group on this date"},
	},
	TypeSameEarlyShift: {
		action: "stagger_group_early_shifts",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Give one %s member a different shift on %s", v.GroupName, v.Date)
		},
		alternatives: []string{"Move one early shift to a late shift"},
	},
	TypeMixedOffEarly: {
		action: "rebalance_group_day",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Avoid pairing an off day and an early shift within %s on %s", v.GroupName, v.Date)
		},
		alternatives: []string{"Change the early shift to a normal shift", "Move the off day"},
	},
	TypePriorityRule: {
		action: "honour_preference",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Give %s a %v shift on %s", who(v), detail(v, "required", "preferred"), v.Date)
		},
		alternatives: []string{"Confirm the exception with the staff member"},
	},
	TypeCoverageCompensation: {
		action: "schedule_backup",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Schedule a backup for %s to work on %s", v.GroupName, v.Date)
		},
		alternatives: []string{"Move the primary member's off day", "Nominate another backup for the group"},
	},
	TypeProximityPattern: {
		action: "align_off_days",
		suggestion: func(v Violation) string {
			return fmt.Sprintf("Give %v an off day within %v days of %s", detail(v, "target", "the paired staff member"), detail(v, "maxDayOffset", "a few"), v.Date)
		},
		alternatives: []string{"Move the trigger's off day closer to an existing off day"},
	},
}

// Recommend maps every violation to a remediation suggestion, in input order
func Recommend(violations []Violation) []Recommendation {
	recommendations := make([]Recommendation, 0, len(violations))
	for _, v := range violations {
		recommendations = append(recommendations, RecommendOne(v))
	}
	return recommendations
}

// RecommendOne returns the remediation suggestion for a single violation
func RecommendOne(v Violation) Recommendation {
	rec := Recommendation{
		Violation: v,
		Priority:  priorityFor(v.Severity),
	}

	r, ok := remedies[v.Type]
	if !ok {
		rec.Action = "review"
		rec.Suggestion = "Review this violation manually: " + v.Message
		rec.AlternativeActions = []string{}
		return rec
	}

	rec.Action = r.action
	rec.Suggestion = r.suggestion(v)
	rec.AlternativeActions = append([]string{}, r.alternatives...)
	return rec
}

func priorityFor(s Severity) string {
	switch s {
	case SeverityCritical:
		return PriorityUrgent
	case SeverityHigh:
		return PriorityHigh
	default:
		return PriorityNormal
	}
}

// who names the staff member of a violation
func who(v Violation) string {
	if v.StaffName != "" {
		return v.StaffName
	}
	if v.StaffID != "" {
		return v.StaffID
	}
	return "the staff member"
}

// detail reads a violation detail, returning fallback when it is absent
func detail(v Violation, key string, fallback any) any {
	if val, ok := v.Details[key]; ok {
		return val
	}
	return fallback
}
