package validation

import "sort"

// Summarize counts violations by severity, type, staff member and date.
// Staff are keyed by ID; violations without a staff member or date are
// only counted by severity and type.
func Summarize(violations []Violation, constraintsChecked int) Summary {
	summary := Summary{
		TotalViolations:    len(violations),
		ConstraintsChecked: constraintsChecked,
		BySeverity:         make(map[Severity]int),
		ByType:             make(map[ViolationType]int),
		ByStaff:            make(map[string]int),
		ByDate:             make(map[string]int),
	}

	for _, v := range violations {
		summary.BySeverity[v.Severity]++
		summary.ByType[v.Type]++
		if v.StaffID != "" {
			summary.ByStaff[v.StaffID]++
		}
		if v.Date != "" {
			summary.ByDate[v.Date]++
		}
	}

	return summary
}

// SortBySeverity returns a copy of violations ordered most severe first.
// The sort is stable so evaluation order is kept within a severity.
func SortBySeverity(violations []Violation) []Violation {
	sorted := make([]Violation, len(violations))
	copy(sorted, violations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() > sorted[j].Severity.Rank()
	})
	return sorted
}
