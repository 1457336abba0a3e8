package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/restaurant-rota/pkg/core/services"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

func invalidResult() *services.ValidationResult {
	violations := []validation.Violation{
		{
			Type:     validation.TypeInsufficientCoverage,
			Severity: validation.SeverityCritical,
			Date:     "2024-02-01",
			Message:  "Only 2 staff working on 2024-02-01 (minimum 4)",
			Details:  map[string]any{"shortfall": 2},
		},
		{
			Type:      validation.TypePriorityRule,
			Severity:  validation.SeverityMedium,
			Date:      "2024-02-04",
			StaffID:   "s1",
			StaffName: "Alice",
			Message:   "Alice prefers off on Sunday",
		},
	}
	report := &validation.Report{
		Valid:      false,
		Violations: violations,
		Summary:    validation.Summarize(violations, 12),
		RangeStart: "2024-02-01",
		RangeEnd:   "2024-02-07",
	}
	return &services.ValidationResult{
		Report:          report,
		Recommendations: validation.Recommend(violations),
	}
}

func TestPrintReport_Valid(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, &services.ValidationResult{
		Report: &validation.Report{
			Valid:      true,
			Violations: []validation.Violation{},
			Summary:    validation.Summarize(nil, 7),
			RangeStart: "2024-02-01",
			RangeEnd:   "2024-02-07",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Schedule 2024-02-01 to 2024-02-07")
	assert.Contains(t, out, "Constraints checked: 7")
	assert.Contains(t, out, "No violations found")
	assert.NotContains(t, out, "Recommendations")
}

func TestPrintReport_Violations(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, invalidResult())

	out := buf.String()
	assert.Contains(t, out, "2 violations")
	assert.Contains(t, out, "(critical: 1, high: 0, medium: 1)")
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "insufficient_coverage")
	assert.Contains(t, out, "Alice prefers off on Sunday")
	assert.Contains(t, out, "Recommendations")
	assert.Contains(t, out, "[urgent] Schedule at least 2 more staff on 2024-02-01")
	assert.Contains(t, out, "or: Cancel an off day on this date")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, invalidResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	report := decoded["report"].(map[string]any)
	assert.Equal(t, false, report["valid"])
	assert.Len(t, report["violations"], 2)
	assert.Len(t, decoded["recommendations"], 2)
}

func TestSeverityLabel(t *testing.T) {
	assert.Equal(t, "CRITICAL", severityLabel(validation.SeverityCritical))
	assert.Equal(t, "HIGH", severityLabel(validation.SeverityHigh))
	assert.Equal(t, "MEDIUM", severityLabel(validation.SeverityMedium))
	assert.Equal(t, colorRed, severityColor(validation.SeverityHigh))
	assert.Equal(t, colorYellow, severityColor(validation.SeverityMedium))
}
