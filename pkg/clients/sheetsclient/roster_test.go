package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
)

func TestParseRoster(t *testing.T) {
	raw := [][]interface{}{
		{"ID", "Name", "Status", "2024-01-02", "Notes", "2024-01-01"},
		{"s1", "Alice", "full_time", "×", "likes mornings", "early"},
		{"s2", "Bob", "Dispatch", "", "", "10-18"},
		{"", "", "", "", "", ""},
		{"s3", "Carol"},
	}

	roster, err := parseRoster(raw)
	require.NoError(t, err)

	require.Len(t, roster.Dates, 2)
	assert.Equal(t, "2024-01-01", model.DateKey(roster.Dates[0]))
	assert.Equal(t, "2024-01-02", model.DateKey(roster.Dates[1]))

	require.Len(t, roster.Staff, 3)
	assert.Equal(t, model.StaffMember{ID: "s1", Name: "Alice", Status: model.StatusFullTime}, roster.Staff[0])
	assert.Equal(t, model.StatusDispatch, roster.Staff[1].Status)
	assert.Equal(t, model.StaffStatus(""), roster.Staff[2].Status)

	v, ok := roster.Schedule.Cell("s1", roster.Dates[0])
	require.True(t, ok)
	assert.Equal(t, shift.Early, v)

	v, ok = roster.Schedule.Cell("s1", roster.Dates[1])
	require.True(t, ok)
	assert.Equal(t, shift.Off, v)

	v, ok = roster.Schedule.Cell("s2", roster.Dates[0])
	require.True(t, ok)
	assert.Equal(t, shift.Value("10-18"), v)

	v, ok = roster.Schedule.Cell("s2", roster.Dates[1])
	require.True(t, ok, "empty cells are normal working shifts")
	assert.Equal(t, shift.Blank, v)
	assert.True(t, shift.IsWorkingShift(v))

	v, ok = roster.Schedule.Cell("s3", roster.Dates[0])
	require.True(t, ok, "trimmed trailing cells are blank")
	assert.Equal(t, shift.Blank, v)
}

func TestParseRoster_HeaderErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  [][]interface{}
		want string
	}{
		{name: "no header", raw: [][]interface{}{}, want: "no header row"},
		{name: "missing id", raw: [][]interface{}{{"Name", "2024-01-01"}}, want: "missing required field in header: ID"},
		{name: "missing name", raw: [][]interface{}{{"ID", "2024-01-01"}}, want: "missing required field in header: Name"},
		{name: "no dates", raw: [][]interface{}{{"ID", "Name", "Status"}}, want: "no date columns"},
		{name: "duplicate date", raw: [][]interface{}{{"ID", "Name", "2024-01-01", "2024-01-01"}}, want: "duplicate date column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRoster(tt.raw)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParseRoster_InvalidStatus(t *testing.T) {
	raw := [][]interface{}{
		{"ID", "Name", "Status", "2024-01-01"},
		{"s1", "Alice", "contractor", "○"},
	}

	_, err := parseRoster(raw)
	assert.ErrorContains(t, err, `invalid status "contractor"`)
	assert.ErrorContains(t, err, "row 2")
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "", cellString(nil))
	assert.Equal(t, "abc", cellString("  abc "))
	assert.Equal(t, "42", cellString(float64(42)))
}
