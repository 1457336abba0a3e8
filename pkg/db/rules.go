package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/pkg/core/configcache"
	"github.com/jakechorley/restaurant-rota/pkg/core/model"
)

// RuleStore reads and writes rule configuration documents. It implements
// configcache.Provider so the cache can load from any DocumentStore.
type RuleStore struct {
	docs   DocumentStore
	logger *zap.Logger

	mu        sync.Mutex
	observers []func(keys []string)
}

var _ configcache.Provider = (*RuleStore)(nil)

// NewRuleStore creates a rule store over a document store
func NewRuleStore(docs DocumentStore, logger *zap.Logger) *RuleStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleStore{docs: docs, logger: logger}
}

// OnWrite registers fn to be called with the written keys after every successful save
func (s *RuleStore) OnWrite(fn func(keys []string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *RuleStore) notify(keys []string) {
	s.mu.Lock()
	observers := make([]func([]string), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(keys)
	}
}

// getDocument decodes the document stored under key into a T
func getDocument[T any](ctx context.Context, s *RuleStore, key configcache.Key) (T, error) {
	var value T

	payload, ok, err := s.docs.GetDocument(ctx, string(key))
	if err != nil {
		return value, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if !ok {
		return value, fmt.Errorf("%w: %s", ErrNotConfigured, key)
	}

	if err := json.Unmarshal(payload, &value); err != nil {
		return value, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return value, nil
}

func (s *RuleStore) putDocument(ctx context.Context, key configcache.Key, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := s.docs.PutDocument(ctx, string(key), payload); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}

	s.logger.Debug("Stored rule document", zap.String("key", string(key)), zap.Int("bytes", len(payload)))
	return nil
}

// GetStaffGroups retrieves the configured staff groups
func (s *RuleStore) GetStaffGroups(ctx context.Context) ([]model.StaffGroup, error) {
	return getDocument[[]model.StaffGroup](ctx, s, configcache.KeyStaffGroups)
}

// GetPriorityRules retrieves the configured priority rules
func (s *RuleStore) GetPriorityRules(ctx context.Context) ([]model.PriorityRule, error) {
	return getDocument[[]model.PriorityRule](ctx, s, configcache.KeyPriorityRules)
}

// GetDailyLimits retrieves the configured daily limits
func (s *RuleStore) GetDailyLimits(ctx context.Context) (*model.DailyLimits, error) {
	limits, err := getDocument[model.DailyLimits](ctx, s, configcache.KeyDailyLimits)
	if err != nil {
		return nil, err
	}
	return &limits, nil
}

// GetWeeklyLimits retrieves the configured weekly limits
func (s *RuleStore) GetWeeklyLimits(ctx context.Context) ([]model.WeeklyLimit, error) {
	return getDocument[[]model.WeeklyLimit](ctx, s, configcache.KeyWeeklyLimits)
}

// GetMonthlyLimits retrieves the limits stored for one month
func (s *RuleStore) GetMonthlyLimits(ctx context.Context, year int, month time.Month) (*model.MonthlyLimits, error) {
	limits, err := getDocument[model.MonthlyLimits](ctx, s, configcache.MonthlyKey(year, month))
	if err != nil {
		return nil, err
	}
	return &limits, nil
}

// GetBackupAssignments retrieves the configured backup assignments
func (s *RuleStore) GetBackupAssignments(ctx context.Context) ([]model.BackupAssignment, error) {
	return getDocument[[]model.BackupAssignment](ctx, s, configcache.KeyBackupAssignments)
}

// SaveStaffGroups replaces the staff groups. Groups without an ID are assigned one.
func (s *RuleStore) SaveStaffGroups(ctx context.Context, groups []model.StaffGroup) error {
	return s.saveOne(ctx, configcache.KeyStaffGroups, withGroupIDs(groups))
}

// SavePriorityRules replaces the priority rules
func (s *RuleStore) SavePriorityRules(ctx context.Context, rules []model.PriorityRule) error {
	return s.saveOne(ctx, configcache.KeyPriorityRules, rules)
}

// SaveDailyLimits replaces the daily limits
func (s *RuleStore) SaveDailyLimits(ctx context.Context, limits model.DailyLimits) error {
	return s.saveOne(ctx, configcache.KeyDailyLimits, limits)
}

// SaveWeeklyLimits replaces the weekly limits
func (s *RuleStore) SaveWeeklyLimits(ctx context.Context, limits []model.WeeklyLimit) error {
	return s.saveOne(ctx, configcache.KeyWeeklyLimits, limits)
}

// SaveMonthlyLimits stores the limits for the month they name
func (s *RuleStore) SaveMonthlyLimits(ctx context.Context, limits model.MonthlyLimits) error {
	if limits.Month < 1 || limits.Month > 12 {
		return fmt.Errorf("invalid month %d in monthly limits", limits.Month)
	}
	return s.saveOne(ctx, configcache.MonthlyKey(limits.Year, time.Month(limits.Month)), limits)
}

// SaveBackupAssignments replaces the backup assignments
func (s *RuleStore) SaveBackupAssignments(ctx context.Context, assignments []model.BackupAssignment) error {
	return s.saveOne(ctx, configcache.KeyBackupAssignments, assignments)
}

// ruleDocument pairs a key with the value stored under it
type ruleDocument struct {
	key   configcache.Key
	value any
}

// SaveRuleSet writes every rule family and notifies observers once.
// Monthly limits are only written when a month is set. If a write fails,
// observers are still told about the documents stored before it.
func (s *RuleStore) SaveRuleSet(ctx context.Context, rules *model.RuleSet) error {
	docs := []ruleDocument{
		{configcache.KeyStaffGroups, withGroupIDs(rules.StaffGroups)},
		{configcache.KeyPriorityRules, rules.PriorityRules},
		{configcache.KeyDailyLimits, rules.DailyLimits},
		{configcache.KeyWeeklyLimits, rules.WeeklyLimits},
		{configcache.KeyBackupAssignments, rules.BackupAssignments},
	}
	if m := rules.MonthlyLimits; m.Month >= 1 && m.Month <= 12 {
		docs = append(docs, ruleDocument{configcache.MonthlyKey(m.Year, time.Month(m.Month)), m})
	}

	var written []string
	for _, doc := range docs {
		if err := s.putDocument(ctx, doc.key, doc.value); err != nil {
			if len(written) > 0 {
				s.notify(written)
			}
			return err
		}
		written = append(written, string(doc.key))
	}

	s.notify(written)
	return nil
}

func (s *RuleStore) saveOne(ctx context.Context, key configcache.Key, value any) error {
	if err := s.putDocument(ctx, key, value); err != nil {
		return err
	}
	s.notify([]string{string(key)})
	return nil
}

// withGroupIDs returns a copy of groups with a UUID assigned to any group missing an ID
func withGroupIDs(groups []model.StaffGroup) []model.StaffGroup {
	if groups == nil {
		return []model.StaffGroup{}
	}
	out := make([]model.StaffGroup, len(groups))
	copy(out, groups)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.New().String()
		}
	}
	return out
}
