package configcache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
)

// ErrNotConfigured is wrapped by providers when a key has no stored value.
// The cache serves defaults for it without logging a warning.
var ErrNotConfigured = errors.New("rule configuration not found")

// Provider is the external rule store the cache loads configuration from.
// Implementations may be slow, fail, or ignore ctx; the cache copes with all three.
type Provider interface {
	GetStaffGroups(ctx context.Context) ([]model.StaffGroup, error)
	GetPriorityRules(ctx context.Context) ([]model.PriorityRule, error)
	GetDailyLimits(ctx context.Context) (*model.DailyLimits, error)
	GetWeeklyLimits(ctx context.Context) ([]model.WeeklyLimit, error)
	GetMonthlyLimits(ctx context.Context, year int, month time.Month) (*model.MonthlyLimits, error)
	GetBackupAssignments(ctx context.Context) ([]model.BackupAssignment, error)
}

// Key identifies one cached configuration value
type Key string

const (
	KeyStaffGroups       Key = "staff_groups"
	KeyPriorityRules     Key = "priority_rules"
	KeyDailyLimits       Key = "daily_limits"
	KeyWeeklyLimits      Key = "weekly_limits"
	KeyBackupAssignments Key = "backup_assignments"

	monthlyKeyPrefix = "monthly_limits"
)

// MonthlyKey returns the key for a month's limits, e.g. "monthly_limits:2024-01"
func MonthlyKey(year int, month time.Month) Key {
	return Key(fmt.Sprintf("%s:%04d-%02d", monthlyKeyPrefix, year, int(month)))
}

// IsMonthlyKey reports whether key names a month's limits
func IsMonthlyKey(key Key) bool {
	return strings.HasPrefix(string(key), monthlyKeyPrefix+":")
}

// Metrics receives cache events. All methods must be safe for concurrent use.
type Metrics interface {
	CacheHit(key Key)
	CacheMiss(key Key)
	CacheFallback(key Key)
	CacheInvalidated()
}

type noopMetrics struct{}

func (noopMetrics) CacheHit(Key)      {}
func (noopMetrics) CacheMiss(Key)     {}
func (noopMetrics) CacheFallback(Key) {}
func (noopMetrics) CacheInvalidated() {}
