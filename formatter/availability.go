package formatter

import (
	"encoding/json"
	"fmt"
	"pto-advisor/advisor"
	"strings"
)

// FormatAvailabilityText returns the text representation of an availability report
func FormatAvailabilityText(r advisor.AvailabilityReport) string {
	var sb strings.Builder

	status := "OK"
	if !r.MeetsMinStaffing {
		status = "BELOW MINIMUM"
	}
	sb.WriteString(fmt.Sprintf("%s : %s ; available=%d/%d coverage=%.0f%% min=%d [%s]\n",
		r.Department, r.Period, r.AvailableEmployees, r.TotalEmployees,
		r.CoverageRatio*100, r.MinStaffing, status))

	if len(r.AvailableNames) > 0 {
		sb.WriteString(fmt.Sprintf("  Available: %s\n", strings.Join(r.AvailableNames, ", ")))
	}
	if len(r.UnavailableNames) > 0 {
		sb.WriteString(fmt.Sprintf("  Out: %s\n", strings.Join(r.UnavailableNames, ", ")))
	}

	for _, sc := range r.SkillCoverage {
		if sc.Available == 0 {
			sb.WriteString(fmt.Sprintf("  ⚠️  %s: no one available\n", sc.Skill))
			continue
		}
		sb.WriteString(fmt.Sprintf("  • %s: %d (%s)\n", sc.Skill, sc.Available, strings.Join(sc.Employees, ", ")))
	}

	return sb.String()
}

// FormatAvailabilityJSON returns the JSON representation of an availability report
func FormatAvailabilityJSON(r advisor.AvailabilityReport) string {
	jsonBytes, _ := json.MarshalIndent(r, "", "  ")
	return string(jsonBytes)
}
