// Package schedulefile reads a roster from a YAML file.
//
// A schedule file lists the staff, the validated period and a grid of shifts:
//
//	start: 2024-02-01
//	end: 2024-02-29
//	staff:
//	  - {id: s1, name: Alice, status: full_time}
//	shifts:
//	  s1:
//	    2024-02-01: early
//	    2024-02-02: "×"
//
// Dates may be listed explicitly under "dates" instead of start/end.
package schedulefile

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
)

// File is the on-disk layout of a schedule
type File struct {
	Start  string                       `yaml:"start"`
	End    string                       `yaml:"end"`
	Dates  []string                     `yaml:"dates"`
	Staff  []model.StaffMember          `yaml:"staff" validate:"required,min=1,dive"`
	Shifts map[string]map[string]string `yaml:"shifts"`
}

var validate = validator.New()

// Load reads and parses a schedule file
func Load(path string) (*model.Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}

	return Parse(data)
}

// Parse parses schedule YAML into a roster
func Parse(data []byte) (*model.Roster, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schedule file: %w", err)
	}

	return f.Roster()
}

// Roster validates the file and converts it to a roster.
// Blank cells are normal working shifts; cells not listed are left unassigned.
func (f *File) Roster() (*model.Roster, error) {
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("schedule validation failed: %w", err)
	}

	dates, err := f.dates()
	if err != nil {
		return nil, err
	}

	inRange := make(map[string]bool, len(dates))
	for _, d := range dates {
		inRange[model.DateKey(d)] = true
	}

	known := make(map[string]bool, len(f.Staff))
	for _, s := range f.Staff {
		known[s.ID] = true
	}

	schedule := model.Schedule{}
	for staffID, row := range f.Shifts {
		if !known[staffID] {
			return nil, fmt.Errorf("shifts listed for unknown staff id %q", staffID)
		}
		for rawDate, cell := range row {
			date, err := model.ParseDate(rawDate)
			if err != nil {
				return nil, fmt.Errorf("shifts for %q: %w", staffID, err)
			}
			if !inRange[model.DateKey(date)] {
				return nil, fmt.Errorf("shifts for %q: date %s is outside the schedule period", staffID, model.DateKey(date))
			}
			schedule.Set(staffID, date, shift.Parse(cell))
		}
	}

	return &model.Roster{
		Staff:    f.Staff,
		Dates:    dates,
		Schedule: schedule,
	}, nil
}

// dates returns the period as sorted, de-duplicated dates
func (f *File) dates() ([]time.Time, error) {
	if len(f.Dates) > 0 {
		if f.Start != "" || f.End != "" {
			return nil, fmt.Errorf("schedule must use either dates or start/end, not both")
		}
		seen := make(map[string]bool, len(f.Dates))
		var dates []time.Time
		for _, raw := range f.Dates {
			d, err := model.ParseDate(raw)
			if err != nil {
				return nil, err
			}
			if seen[model.DateKey(d)] {
				continue
			}
			seen[model.DateKey(d)] = true
			dates = append(dates, d)
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		return dates, nil
	}

	if f.Start == "" || f.End == "" {
		return nil, fmt.Errorf("schedule must define start and end, or dates")
	}
	start, err := model.ParseDate(f.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid start: %w", err)
	}
	end, err := model.ParseDate(f.End)
	if err != nil {
		return nil, fmt.Errorf("invalid end: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("schedule end %s is before start %s", f.End, f.Start)
	}

	return model.DateRange(start, end), nil
}
