package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

func TestMonthlyOffLimitEvaluator_Name(t *testing.T) {
	assert.Equal(t, "MonthlyOffLimit", NewMonthlyOffLimitEvaluator().Name())
}

func TestMonthlyOffLimitEvaluator_AtLimit(t *testing.T) {
	cells := append(repeat("×", 8), repeat("○", 23)...)
	roster := newRoster(31).row("s1", cells...).build()
	rules := permissiveRules()
	rules.MonthlyLimits = model.DeriveMonthlyLimits(2024, time.January)

	violations := NewMonthlyOffLimitEvaluator().EvaluateStaff(newContext(t, roster, rules), roster.Staff[0])
	assert.Empty(t, violations)
}

func TestMonthlyOffLimitEvaluator_OneOverLimit(t *testing.T) {
	// Alternate off days so only the monthly rule matters
	cells := repeat("○", 31)
	for i := 0; i < 18; i += 2 {
		cells[i] = "×"
	}
	roster := newRoster(31).row("s1", cells...).build()
	rules := permissiveRules()
	rules.MonthlyLimits = model.DeriveMonthlyLimits(2024, time.January)

	violations := NewMonthlyOffLimitEvaluator().EvaluateStaff(newContext(t, roster, rules), roster.Staff[0])
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, validation.TypeMonthlyOffLimit, v.Type)
	assert.Equal(t, validation.SeverityHigh, v.Severity)
	assert.Equal(t, "s1", v.StaffID)
	assert.Equal(t, 9, v.Details["offDays"])
	assert.Equal(t, 8, v.Details["limit"])
	assert.Equal(t, 1, v.Details["excess"])
	assert.Len(t, v.Details["dates"], 9)
}

func TestMonthlyOffLimitEvaluator_HolidaysCountAsOff(t *testing.T) {
	roster := newRoster(3).row("s1", "★", "×", "○").build()
	rules := permissiveRules()
	rules.MonthlyLimits.MaxOffDaysPerMonth = 1

	violations := NewMonthlyOffLimitEvaluator().EvaluateStaff(newContext(t, roster, rules), roster.Staff[0])
	require.Len(t, violations, 1)
	assert.Equal(t, 2, violations[0].Details["offDays"])
}
