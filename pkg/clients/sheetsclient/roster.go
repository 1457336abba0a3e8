package sheetsclient

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
)

// Expected column names in the schedule sheet. Every other header that parses
// as a YYYY-MM-DD date is a schedule column; anything else is ignored.
const (
	columnID     = "ID"
	columnName   = "Name"
	columnStatus = "Status"
)

// ReadRoster reads a schedule grid from a sheet tab and converts it into a roster
func (c *Client) ReadRoster(ctx context.Context, spreadsheetID, tab string) (*model.Roster, error) {
	values, err := c.GetValues(ctx, spreadsheetID, tab)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule data: %w", err)
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("spreadsheet is empty")
	}

	roster, err := parseRoster(values)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule: %w", err)
	}

	c.logger.Debug("Read schedule from sheet",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.String("tab", tab),
		zap.Int("staff", len(roster.Staff)),
		zap.Int("dates", len(roster.Dates)))

	return roster, nil
}

// dateColumn is a header cell that holds a schedule date
type dateColumn struct {
	index int
	date  time.Time
}

// parseRoster converts raw spreadsheet data into a roster.
// Empty cells are normal working shifts.
func parseRoster(raw [][]interface{}) (*model.Roster, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("no header row found")
	}

	fieldIndexes := map[string]int{}
	var dateColumns []dateColumn
	seenDates := make(map[string]bool)

	for i, cell := range raw[0] {
		header := cellString(cell)
		switch {
		case strings.EqualFold(header, columnID):
			fieldIndexes[columnID] = i
		case strings.EqualFold(header, columnName):
			fieldIndexes[columnName] = i
		case strings.EqualFold(header, columnStatus):
			fieldIndexes[columnStatus] = i
		default:
			date, err := model.ParseDate(header)
			if err != nil {
				continue
			}
			key := model.DateKey(date)
			if seenDates[key] {
				return nil, fmt.Errorf("duplicate date column: %s", key)
			}
			seenDates[key] = true
			dateColumns = append(dateColumns, dateColumn{index: i, date: date})
		}
	}

	for _, field := range []string{columnID, columnName} {
		if _, ok := fieldIndexes[field]; !ok {
			return nil, fmt.Errorf("missing required field in header: %s", field)
		}
	}
	if len(dateColumns) == 0 {
		return nil, fmt.Errorf("no date columns found in header")
	}

	sort.Slice(dateColumns, func(i, j int) bool {
		return dateColumns[i].date.Before(dateColumns[j].date)
	})

	getField := func(field string, row []interface{}) string {
		index, ok := fieldIndexes[field]
		if !ok || index >= len(row) {
			return ""
		}
		return cellString(row[index])
	}

	roster := &model.Roster{
		Dates:    make([]time.Time, 0, len(dateColumns)),
		Schedule: model.Schedule{},
	}
	for _, col := range dateColumns {
		roster.Dates = append(roster.Dates, col.date)
	}

	for i := 1; i < len(raw); i++ {
		row := raw[i]

		id := getField(columnID, row)
		// Skip empty rows (rows with no id)
		if id == "" {
			continue
		}

		status := model.StaffStatus(strings.ToLower(getField(columnStatus, row)))
		if status != "" && !status.IsValid() {
			return nil, fmt.Errorf("invalid status %q for staff member in row %d", status, i+1)
		}

		roster.Staff = append(roster.Staff, model.StaffMember{
			ID:     id,
			Name:   getField(columnName, row),
			Status: status,
		})

		// The API trims trailing empty cells, so short rows are blank
		// (normal) shifts rather than missing ones.
		for _, col := range dateColumns {
			cell := ""
			if col.index < len(row) {
				cell = cellString(row[col.index])
			}
			roster.Schedule.Set(id, col.date, shift.Parse(cell))
		}
	}

	return roster, nil
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(cell))
}
