package formatter

import (
	"encoding/json"
	"fmt"
	"pto-advisor/advisor"
	"pto-advisor/models"
	"strings"
	"time"
)

// FormatAnalyticsText returns the text representation of analytics
func FormatAnalyticsText(a advisor.Analytics) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("PTO analytics %d\n", a.Year))
	sb.WriteString(fmt.Sprintf("  employees=%d requests=%d pending=%d approved=%d denied=%d\n",
		a.TotalEmployees, a.TotalRequests, a.PendingRequests, a.ApprovedRequests, a.DeniedRequests))
	sb.WriteString(fmt.Sprintf("  approval rate=%d%% average request=%dd utilization=%d%% (%d/%d days)\n",
		a.ApprovalRate, a.AverageRequestDays, a.Utilization, a.UsedDays, a.TotalDays))

	for _, d := range a.Departments {
		sb.WriteString(fmt.Sprintf("  %s : %d employees, %d/%d days used (%d%%)\n",
			d.Department, d.Employees, d.UsedDays, d.TotalDays, d.Utilization))
	}

	return sb.String()
}

// FormatAnalyticsJSON returns the JSON representation of analytics
func FormatAnalyticsJSON(a advisor.Analytics) string {
	jsonBytes, _ := json.MarshalIndent(a, "", "  ")
	return string(jsonBytes)
}

// FormatAbsencesText lists who is out on day
func FormatAbsencesText(day time.Time, absences []advisor.Absence) string {
	var sb strings.Builder

	date := day.Format(models.DateLayout)
	if len(absences) == 0 {
		sb.WriteString(fmt.Sprintf("Out on %s: nobody\n", date))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Out on %s: %d\n", date, len(absences)))
	for _, a := range absences {
		dept := a.Department
		if dept == "" {
			dept = "-"
		}
		sb.WriteString(fmt.Sprintf("  %s : %s %s %s\n", dept, a.Employee, a.Type, a.Period))
	}

	return sb.String()
}

// FormatAbsencesJSON returns the JSON representation of an absence list
func FormatAbsencesJSON(day time.Time, absences []advisor.Absence) string {
	jsonBytes, _ := json.MarshalIndent(struct {
		Date     string            `json:"date"`
		Absences []advisor.Absence `json:"absences"`
	}{Date: day.Format(models.DateLayout), Absences: absences}, "", "  ")
	return string(jsonBytes)
}
