package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

// mockValidator implements ScheduleValidator for testing
type mockValidator struct {
	report *validation.Report
	err    error
	calls  int
}

func (m *mockValidator) Validate(ctx context.Context, roster model.Roster) (*validation.Report, error) {
	m.calls++
	return m.report, m.err
}

// mockObserver implements ReportObserver for testing
type mockObserver struct {
	reports  int
	failures int
}

func (m *mockObserver) ObserveReport(report *validation.Report, elapsed time.Duration) {
	m.reports++
}

func (m *mockObserver) ObserveFailure() {
	m.failures++
}

// mockRuleWriter implements RuleWriter for testing
type mockRuleWriter struct {
	saved *model.RuleSet
	err   error
}

func (m *mockRuleWriter) SaveRuleSet(ctx context.Context, rules *model.RuleSet) error {
	m.saved = rules
	return m.err
}

// mockRuleSource implements validation.RuleSource for testing
type mockRuleSource struct {
	year  int
	month time.Month
}

func (m *mockRuleSource) Snapshot(ctx context.Context, year int, month time.Month) model.RuleSet {
	m.year, m.month = year, month
	return model.RuleSet{MonthlyLimits: model.DeriveMonthlyLimits(year, month)}
}

func testRoster() *model.Roster {
	return &model.Roster{
		Staff:    []model.StaffMember{{ID: "s1", Name: "Alice"}},
		Dates:    []time.Time{time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		Schedule: model.Schedule{},
	}
}

func testReport() *validation.Report {
	violations := []validation.Violation{
		{Type: validation.TypePriorityRule, Severity: validation.SeverityMedium, StaffID: "s1", Date: "2024-02-01"},
		{Type: validation.TypeInsufficientCoverage, Severity: validation.SeverityCritical, Date: "2024-02-01"},
		{Type: validation.TypeSameDayOff, Severity: validation.SeverityHigh, Date: "2024-02-01", GroupName: "Kitchen"},
	}
	return &validation.Report{
		Valid:      false,
		Violations: violations,
		Summary:    validation.Summarize(violations, 5),
		RangeStart: "2024-02-01",
		RangeEnd:   "2024-02-01",
	}
}

func TestValidateSchedule_SortsBySeverity(t *testing.T) {
	validator := &mockValidator{report: testReport()}
	observer := &mockObserver{}

	result, err := ValidateSchedule(context.Background(), validator, testRoster(), zap.NewNop(), false, observer)
	require.NoError(t, err)

	require.Len(t, result.Report.Violations, 3)
	assert.Equal(t, validation.SeverityCritical, result.Report.Violations[0].Severity)
	assert.Equal(t, validation.SeverityHigh, result.Report.Violations[1].Severity)
	assert.Equal(t, validation.SeverityMedium, result.Report.Violations[2].Severity)
	assert.Nil(t, result.Recommendations)
	assert.Equal(t, 1, observer.reports)
	assert.Equal(t, 0, observer.failures)
}

func TestValidateSchedule_WithRecommendations(t *testing.T) {
	validator := &mockValidator{report: testReport()}

	result, err := ValidateSchedule(context.Background(), validator, testRoster(), zap.NewNop(), true, nil)
	require.NoError(t, err)

	require.Len(t, result.Recommendations, 3)
	assert.Equal(t, validation.PriorityUrgent, result.Recommendations[0].Priority)
	assert.Equal(t, "add_working_staff", result.Recommendations[0].Action)
	assert.Equal(t, validation.PriorityNormal, result.Recommendations[2].Priority)
}

func TestValidateSchedule_ValidatorError(t *testing.T) {
	validator := &mockValidator{err: validation.ErrInvalidInput}
	observer := &mockObserver{}

	_, err := ValidateSchedule(context.Background(), validator, testRoster(), zap.NewNop(), false, observer)
	assert.ErrorIs(t, err, validation.ErrInvalidInput)
	assert.ErrorContains(t, err, "failed to validate schedule")
	assert.Equal(t, 1, observer.failures)
	assert.Equal(t, 0, observer.reports)
}

func TestValidateSchedule_NilRoster(t *testing.T) {
	validator := &mockValidator{}

	_, err := ValidateSchedule(context.Background(), validator, nil, zap.NewNop(), false, nil)
	assert.ErrorIs(t, err, validation.ErrInvalidInput)
	assert.Equal(t, 0, validator.calls)
}

func TestImportRules(t *testing.T) {
	store := &mockRuleWriter{}
	rules := &model.RuleSet{WeeklyLimits: []model.WeeklyLimit{{ShiftKind: "off", MaxCount: 2}}}

	require.NoError(t, ImportRules(context.Background(), store, rules, zap.NewNop()))
	assert.Same(t, rules, store.saved)
}

func TestImportRules_Error(t *testing.T) {
	store := &mockRuleWriter{err: errors.New("disk full")}

	err := ImportRules(context.Background(), store, &model.RuleSet{}, zap.NewNop())
	assert.ErrorContains(t, err, "failed to import rules: disk full")
}

func TestCurrentRules(t *testing.T) {
	source := &mockRuleSource{}

	rules := CurrentRules(context.Background(), source, 2024, time.March, zap.NewNop())

	assert.Equal(t, 2024, source.year)
	assert.Equal(t, time.March, source.month)
	assert.Equal(t, 3, rules.MonthlyLimits.Month)
}
