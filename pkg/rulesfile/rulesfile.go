// Package rulesfile reads rule configuration from a YAML file.
package rulesfile

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/restaurant-rota/pkg/core/configcache"
	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
)

// ErrSectionMissing is returned by the Provider for a rule family the file omits
var ErrSectionMissing = fmt.Errorf("section not present in rules file: %w", configcache.ErrNotConfigured)

// Section names as they appear in the YAML file
const (
	SectionStaffGroups       = "staffGroups"
	SectionPriorityRules     = "priorityRules"
	SectionDailyLimits       = "dailyLimits"
	SectionWeeklyLimits      = "weeklyLimits"
	SectionMonthlyLimits     = "monthlyLimits"
	SectionBackupAssignments = "backupAssignments"
)

// File is a parsed rules file together with the sections it defines
type File struct {
	Rules    model.RuleSet
	Sections map[string]bool
}

// Has reports whether the file defines a section
func (f *File) Has(section string) bool {
	return f.Sections[section]
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := model.RegisterValidations(validate); err != nil {
		panic(fmt.Sprintf("failed to register validations: %v", err))
	}
}

// Load reads, parses and validates a rules file
func Load(path string) (*model.RuleSet, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &f.Rules, nil
}

// LoadFile reads a rules file, keeping track of which sections it defines
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	return Parse(data)
}

// Parse parses and validates rules YAML
func Parse(data []byte) (*File, error) {
	var present map[string]yaml.Node
	if err := yaml.Unmarshal(data, &present); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	f := &File{Sections: make(map[string]bool, len(present))}
	for key := range present {
		f.Sections[key] = true
	}

	if err := yaml.Unmarshal(data, &f.Rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	if err := Validate(f); err != nil {
		return nil, err
	}

	return f, nil
}

// Validate checks every section the file defines
func Validate(f *File) error {
	rules := &f.Rules

	for i, g := range rules.StaffGroups {
		if err := validate.Struct(g); err != nil {
			return fmt.Errorf("rules validation failed: staffGroups[%d]: %w", i, err)
		}
		if g.Coverage != nil && g.Coverage.RequiredState != "" && !shift.IsValidKind(g.Coverage.RequiredState) {
			return fmt.Errorf("rules validation failed: staffGroups[%d]: unknown coverage requiredState %q", i, g.Coverage.RequiredState)
		}
	}

	for i, r := range rules.PriorityRules {
		if err := validate.Struct(r); err != nil {
			return fmt.Errorf("rules validation failed: priorityRules[%d]: %w", i, err)
		}
		for j, p := range r.Preferences {
			if !shift.IsValidKind(p.ShiftKind) {
				return fmt.Errorf("rules validation failed: priorityRules[%d].preferences[%d]: unknown shiftKind %q", i, j, p.ShiftKind)
			}
		}
	}

	if f.Has(SectionDailyLimits) {
		if err := validate.Struct(rules.DailyLimits); err != nil {
			return fmt.Errorf("rules validation failed: dailyLimits: %w", err)
		}
		for i, o := range rules.DailyLimits.Overrides {
			if _, err := rrule.StrToRRule(o.RRule); err != nil {
				return fmt.Errorf("invalid rrule in dailyLimits.overrides[%d]: %w", i, err)
			}
		}
	}

	for i, w := range rules.WeeklyLimits {
		if err := validate.Struct(w); err != nil {
			return fmt.Errorf("rules validation failed: weeklyLimits[%d]: %w", i, err)
		}
	}

	if f.Has(SectionMonthlyLimits) {
		if err := validate.Struct(rules.MonthlyLimits); err != nil {
			return fmt.Errorf("rules validation failed: monthlyLimits: %w", err)
		}
	}

	for i, b := range rules.BackupAssignments {
		if err := validate.Struct(b); err != nil {
			return fmt.Errorf("rules validation failed: backupAssignments[%d]: %w", i, err)
		}
	}

	return nil
}
