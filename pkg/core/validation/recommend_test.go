package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_EveryTypeHasRemedy(t *testing.T) {
	types := []ViolationType{
		TypeMonthlyOffLimit, TypeConsecutiveOff, TypeConsecutiveEarly, TypeWeeklyLimitExceeded,
		TypeDailyOffLimit, TypeDailyEarlyLimit, TypeDailyLateLimit, TypeInsufficientCoverage,
		TypeSameDayOff, TypeSameEarlyShift, TypeMixedOffEarly, TypePriorityRule,
		TypeCoverageCompensation, TypeProximityPattern,
	}

	for _, vt := range types {
		rec := RecommendOne(Violation{Type: vt, Severity: SeverityMedium, Date: "2024-01-01"})
		assert.NotEqual(t, "review", rec.Action, "type %s", vt)
		assert.NotEmpty(t, rec.Suggestion, "type %s", vt)
		assert.NotEmpty(t, rec.AlternativeActions, "type %s", vt)
	}
}

func TestRecommend_PriorityFollowsSeverity(t *testing.T) {
	recs := Recommend([]Violation{
		{Type: TypeInsufficientCoverage, Severity: SeverityCritical},
		{Type: TypeSameDayOff, Severity: SeverityHigh},
		{Type: TypeMixedOffEarly, Severity: SeverityMedium},
	})

	require.Len(t, recs, 3)
	assert.Equal(t, PriorityUrgent, recs[0].Priority)
	assert.Equal(t, PriorityHigh, recs[1].Priority)
	assert.Equal(t, PriorityNormal, recs[2].Priority)
}

func TestRecommend_SuggestionUsesDetails(t *testing.T) {
	rec := RecommendOne(Violation{
		Type:      TypeMonthlyOffLimit,
		Severity:  SeverityHigh,
		StaffName: "Alice",
		Details:   map[string]any{"excess": 2},
	})

	assert.Equal(t, "reduce_off_days", rec.Action)
	assert.Equal(t, "Change 2 of Alice's off days to working shifts", rec.Suggestion)
}

func TestRecommend_UnknownTypeFallsBackToReview(t *testing.T) {
	rec := RecommendOne(Violation{Type: "something_new", Severity: SeverityHigh, Message: "odd"})

	assert.Equal(t, "review", rec.Action)
	assert.Equal(t, "Review this violation manually: odd", rec.Suggestion)
	assert.NotNil(t, rec.AlternativeActions)
}

func TestRecommend_AlternativesAreCopies(t *testing.T) {
	first := RecommendOne(Violation{Type: TypeSameDayOff})
	first.AlternativeActions[0] = "changed"

	second := RecommendOne(Violation{Type: TypeSameDayOff})
	assert.NotEqual(t, "changed", second.AlternativeActions[0])
}

func TestRecommend_EmptyInput(t *testing.T) {
	recs := Recommend(nil)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}
