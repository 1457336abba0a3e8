package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/shift"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
)

// GroupConflictEvaluator keeps members of a staff group from sharing off days
// or early shifts.
//
// Scope:
//   - Per date, per configured staff group with at least 2 rostered members
//
// Violations (each checked independently, so one group/date can yield all three):
//   - same_day_off (high) when 2 or more members are off
//   - same_early_shift (high) when 2 or more members are on early shifts
//   - mixed_off_early (medium) when at least one member is off and another is early
type GroupConflictEvaluator struct{}

// NewGroupConflictEvaluator creates a new GroupConflictEvaluator
func NewGroupConflictEvaluator() *GroupConflictEvaluator {
	return &GroupConflictEvaluator{}
}

func (e *GroupConflictEvaluator) Name() string {
	return "GroupConflict"
}

func (e *GroupConflictEvaluator) EvaluateDate(ctx *validation.Context, date time.Time) []validation.Violation {
	var violations []validation.Violation
	dateKey := model.DateKey(date)

	for _, group := range ctx.Rules.StaffGroups {
		members := ctx.ResolveMembers(group.Members)
		if len(members) < 2 {
			continue
		}

		var offMembers, earlyMembers []string
		for _, member := range members {
			v, ok := ctx.Cell(member.ID, date)
			if !ok {
				continue
			}
			if shift.IsOffDay(v) {
				offMembers = append(offMembers, member.Name)
			}
			if shift.IsEarlyShift(v) {
				earlyMembers = append(earlyMembers, member.Name)
			}
		}

		if len(offMembers) >= 2 {
			violations = append(violations, groupViolation(group, dateKey, validation.TypeSameDayOff, validation.SeverityHigh,
				fmt.Sprintf("%s are all off on %s (group %s)", strings.Join(offMembers, ", "), dateKey, group.Name),
				offMembers, nil))
		}

		if len(earlyMembers) >= 2 {
			violations = append(violations, groupViolation(group, dateKey, validation.TypeSameEarlyShift, validation.SeverityHigh,
				fmt.Sprintf("%s are all on early shifts on %s (group %s)", strings.Join(earlyMembers, ", "), dateKey, group.Name),
				nil, earlyMembers))
		}

		if len(offMembers) >= 1 && len(earlyMembers) >= 1 {
			violations = append(violations, groupViolation(group, dateKey, validation.TypeMixedOffEarly, validation.SeverityMedium,
				fmt.Sprintf("Group %s has %s off and %s on early shifts on %s",
					group.Name, strings.Join(offMembers, ", "), strings.Join(earlyMembers, ", "), dateKey),
				offMembers, earlyMembers))
		}
	}

	return violations
}

func groupViolation(group model.StaffGroup, dateKey string, kind validation.ViolationType, severity validation.Severity, message string, offMembers, earlyMembers []string) validation.Violation {
	details := map[string]any{
		"groupId": group.ID,
	}
	if offMembers != nil {
		details["offMembers"] = offMembers
	}
	if earlyMembers != nil {
		details["earlyMembers"] = earlyMembers
	}

	return validation.Violation{
		Type:      kind,
		Severity:  severity,
		Date:      dateKey,
		GroupName: group.Name,
		Message:   message,
		Details:   details,
	}
}
