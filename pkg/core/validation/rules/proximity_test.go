package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

func proximityRules(offset int) model.RuleSet {
	rules := permissiveRules()
	rules.StaffGroups = []model.StaffGroup{{
		ID:        "g1",
		Name:      "Pair",
		Members:   []string{"a", "b"},
		Proximity: &model.ProximityPattern{TriggerStaffID: "a", TargetStaffID: "b", MaxDayOffset: offset},
	}}
	return rules
}

func TestProximityPatternEvaluator_Name(t *testing.T) {
	assert.Equal(t, "ProximityPattern", NewProximityPatternEvaluator().Name())
}

func TestProximityPatternEvaluator_TargetOffWithinOffset(t *testing.T) {
	roster := newRoster(7).
		row("a", "×", "○", "○", "○", "○", "○", "○").
		row("b", "○", "○", "×", "○", "○", "○", "○").
		build()

	violations := NewProximityPatternEvaluator().EvaluatePeriod(newContext(t, roster, proximityRules(2)))
	assert.Empty(t, violations)
}

func TestProximityPatternEvaluator_TargetOffTooFar(t *testing.T) {
	roster := newRoster(7).
		row("a", "×", "○", "○", "○", "○", "○", "○").
		row("b", "○", "○", "○", "×", "○", "○", "○").
		build()

	violations := NewProximityPatternEvaluator().EvaluatePeriod(newContext(t, roster, proximityRules(2)))
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, validation.TypeProximityPattern, v.Type)
	assert.Equal(t, validation.SeverityMedium, v.Severity)
	assert.Equal(t, "2024-01-01", v.Date)
	assert.Equal(t, "b", v.StaffID)
	assert.Equal(t, "Pair", v.GroupName)
}

func TestProximityPatternEvaluator_WeekendTriggersIgnored(t *testing.T) {
	// 2024-01-06 and 2024-01-07 are a weekend
	roster := newRoster(7).
		row("a", "○", "○", "○", "○", "○", "×", "×").
		row("b", repeat("○", 7)...).
		build()

	violations := NewProximityPatternEvaluator().EvaluatePeriod(newContext(t, roster, proximityRules(1)))
	assert.Empty(t, violations)
}

func TestProximityPatternEvaluator_SearchesBeyondRange(t *testing.T) {
	roster := newRoster(3).
		row("a", "×", "○", "○").
		row("b", "○", "○", "○").
		build()
	roster.Schedule.Set("b", monday.AddDate(0, 0, -1), shift.Off)

	violations := NewProximityPatternEvaluator().EvaluatePeriod(newContext(t, roster, proximityRules(1)))
	assert.Empty(t, violations)
}

func TestProximityPatternEvaluator_ZeroOffsetRequiresSameDay(t *testing.T) {
	roster := newRoster(2).
		row("a", "×", "×").
		row("b", "×", "○").
		build()

	violations := NewProximityPatternEvaluator().EvaluatePeriod(newContext(t, roster, proximityRules(0)))
	require.Len(t, violations, 1)
	assert.Equal(t, "2024-01-02", violations[0].Date)
}
