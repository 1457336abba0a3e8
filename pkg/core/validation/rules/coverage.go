package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

// CoverageCompensationEvaluator requires a backup to step in when a primary
// member of a group is off.
//
// Scope:
//   - Per date, per staff group with a coverage rule or a backup assignment
//
// Violations:
//   - coverage_compensation (high), at most one per group and date, when a
//     primary member is off, no backup is in the required state and at
//     least one backup is scheduled off
//
// Backups are the coverage rule's backup plus every backup assigned to the
// group (matched by group ID or name). Primaries are the remaining members.
// With no required state any working shift satisfies the rule.
type CoverageCompensationEvaluator struct{}

// NewCoverageCompensationEvaluator creates a new CoverageCompensationEvaluator
func NewCoverageCompensationEvaluator() *CoverageCompensationEvaluator {
	return &CoverageCompensationEvaluator{}
}

func (e *CoverageCompensationEvaluator) Name() string {
	return "CoverageCompensation"
}

func (e *CoverageCompensationEvaluator) EvaluateDate(ctx *validation.Context, date time.Time) []validation.Violation {
	var violations []validation.Violation
	dateKey := model.DateKey(date)

	for _, group := range ctx.Rules.StaffGroups {
		backups := ctx.ResolveMembers(backupRefs(group, ctx.Rules.BackupAssignments))
		if len(backups) == 0 {
			continue
		}

		isBackup := make(map[string]bool, len(backups))
		for _, b := range backups {
			isBackup[b.ID] = true
		}

		var offPrimaries []string
		for _, member := range ctx.ResolveMembers(group.Members) {
			if isBackup[member.ID] {
				continue
			}
			if ctx.IsOff(member.ID, date) {
				offPrimaries = append(offPrimaries, member.Name)
			}
		}
		if len(offPrimaries) == 0 {
			continue
		}

		var required shift.Kind
		if group.Coverage != nil {
			required = group.Coverage.RequiredState
		}

		covered, backupOff := false, false
		for _, b := range backups {
			v, ok := ctx.Cell(b.ID, date)
			if !ok {
				continue
			}
			if satisfiesCoverage(v, required) {
				covered = true
				break
			}
			if shift.IsOffDay(v) {
				backupOff = true
			}
		}
		// A gap needs at least one backup scheduled off
		if covered || !backupOff {
			continue
		}

		backupNames := make([]string, 0, len(backups))
		for _, b := range backups {
			backupNames = append(backupNames, b.Name)
		}

		requiredLabel := string(required)
		if requiredLabel == "" {
			requiredLabel = "working"
		}

		violations = append(violations, validation.Violation{
			Type:      validation.TypeCoverageCompensation,
			Severity:  validation.SeverityHigh,
			Date:      dateKey,
			GroupName: group.Name,
			Message: fmt.Sprintf("%s off on %s but no backup (%s) is %s",
				strings.Join(offPrimaries, ", "), dateKey, strings.Join(backupNames, ", "), requiredLabel),
			Details: map[string]any{
				"groupId":       group.ID,
				"offMembers":    offPrimaries,
				"backups":       backupNames,
				"requiredState": requiredLabel,
			},
		})
	}

	return violations
}

// backupRefs merges the group's coverage backup with its backup assignments
func backupRefs(group model.StaffGroup, assignments []model.BackupAssignment) []string {
	var refs []string
	if group.Coverage != nil && group.Coverage.BackupStaffID != "" {
		refs = append(refs, group.Coverage.BackupStaffID)
	}
	for _, a := range assignments {
		if a.GroupID == "" {
			continue
		}
		if a.GroupID == group.ID || a.GroupID == group.Name {
			refs = append(refs, a.BackupStaffIDs...)
		}
	}
	return refs
}

func satisfiesCoverage(v shift.Value, required shift.Kind) bool {
	if required == "" {
		return shift.IsWorkingShift(v)
	}
	return shift.Matches(v, required)
}
