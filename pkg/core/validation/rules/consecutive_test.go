package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

func TestConsecutivePatternEvaluator_Name(t *testing.T) {
	assert.Equal(t, "ConsecutivePattern", NewConsecutivePatternEvaluator().Name())
}

func TestConsecutivePatternEvaluator_TwoDayRunIsHigh(t *testing.T) {
	roster := newRoster(4).row("s1", "○", "×", "×", "○").build()

	violations := NewConsecutivePatternEvaluator().EvaluateStaff(newContext(t, roster, permissiveRules()), roster.Staff[0])
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, validation.TypeConsecutiveOff, v.Type)
	assert.Equal(t, validation.SeverityHigh, v.Severity)
	assert.Equal(t, "2024-01-02", v.Date)
	assert.Equal(t, 2, v.Details["length"])
	assert.Equal(t, "2024-01-02", v.Details["startDate"])
	assert.Equal(t, "2024-01-03", v.Details["endDate"])
}

func TestConsecutivePatternEvaluator_ThreeDayRunIsCritical(t *testing.T) {
	roster := newRoster(5).row("s1", "○", "×", "×", "×", "○").build()

	violations := NewConsecutivePatternEvaluator().EvaluateStaff(newContext(t, roster, permissiveRules()), roster.Staff[0])
	require.Len(t, violations, 1)
	assert.Equal(t, validation.SeverityCritical, violations[0].Severity)
	assert.Equal(t, 3, violations[0].Details["length"])
}

func TestConsecutivePatternEvaluator_RunAtEndOfRange(t *testing.T) {
	roster := newRoster(4).row("s1", "○", "○", "△", "△").build()

	violations := NewConsecutivePatternEvaluator().EvaluateStaff(newContext(t, roster, permissiveRules()), roster.Staff[0])
	require.Len(t, violations, 1)
	assert.Equal(t, validation.TypeConsecutiveEarly, violations[0].Type)
	assert.Equal(t, "2024-01-03", violations[0].Date)
}

func TestConsecutivePatternEvaluator_SingleDaysIgnored(t *testing.T) {
	roster := newRoster(5).row("s1", "×", "○", "△", "○", "×").build()

	violations := NewConsecutivePatternEvaluator().EvaluateStaff(newContext(t, roster, permissiveRules()), roster.Staff[0])
	assert.Empty(t, violations)
}

func TestConsecutivePatternEvaluator_OffAndEarlyTrackedIndependently(t *testing.T) {
	roster := newRoster(6).row("s1", "×", "×", "△", "△", "△", "○").build()

	violations := NewConsecutivePatternEvaluator().EvaluateStaff(newContext(t, roster, permissiveRules()), roster.Staff[0])
	require.Len(t, violations, 2)
	assert.Equal(t, validation.TypeConsecutiveOff, violations[0].Type)
	assert.Equal(t, validation.SeverityHigh, violations[0].Severity)
	assert.Equal(t, validation.TypeConsecutiveEarly, violations[1].Type)
	assert.Equal(t, validation.SeverityCritical, violations[1].Severity)
}

func TestConsecutivePatternEvaluator_UnassignedCellBreaksRun(t *testing.T) {
	roster := newRoster(3).row("s1", "×", "", "×").build()

	violations := NewConsecutivePatternEvaluator().EvaluateStaff(newContext(t, roster, permissiveRules()), roster.Staff[0])
	assert.Empty(t, violations)
}

func TestConsecutivePatternEvaluator_HolidayExtendsOffRun(t *testing.T) {
	roster := newRoster(3).row("s1", "×", "★", "○").build()

	violations := NewConsecutivePatternEvaluator().EvaluateStaff(newContext(t, roster, permissiveRules()), roster.Staff[0])
	require.Len(t, violations, 1)
	assert.Equal(t, validation.TypeConsecutiveOff, violations[0].Type)
}
