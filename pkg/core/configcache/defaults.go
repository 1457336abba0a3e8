package configcache

import (
	"time"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
)

// Fallback values used when the provider is unreachable.
// Staff groups, priority rules and backup assignments name real people, so
// their fallbacks are empty.

func DefaultStaffGroups() []model.StaffGroup {
	return []model.StaffGroup{}
}

func DefaultPriorityRules() []model.PriorityRule {
	return []model.PriorityRule{}
}

func DefaultBackupAssignments() []model.BackupAssignment {
	return []model.BackupAssignment{}
}

// DefaultDailyLimits returns conservative daily bounds
func DefaultDailyLimits() model.DailyLimits {
	return model.DailyLimits{
		MinOff:               0,
		MaxOff:               3,
		MinEarly:             0,
		MaxEarly:             2,
		MinLate:              0,
		MaxLate:              3,
		MinWorking:           3,
		EarlyCountedStatuses: []model.StaffStatus{model.StatusFullTime},
	}
}

// DefaultWeeklyLimits returns conservative rolling-week bounds
func DefaultWeeklyLimits() []model.WeeklyLimit {
	return []model.WeeklyLimit{
		{ShiftKind: shift.KindOff, MaxCount: 2, Scope: model.ScopeAll, IsHard: true},
		{ShiftKind: shift.KindEarly, MaxCount: 3, Scope: model.ScopeAll, IsHard: false},
	}
}

// DefaultMonthlyLimits derives limits from the length of the month
func DefaultMonthlyLimits(year int, month time.Month) model.MonthlyLimits {
	return model.DeriveMonthlyLimits(year, month)
}
