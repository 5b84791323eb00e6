package formatter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"pto-advisor/advisor"
	"pto-advisor/models"
	"sort"
	"strings"
)

// ReviewData holds prepared review rows used by all formatters
type ReviewData struct {
	Rows     []ReviewRow
	ByStatus map[advisor.Status]int
}

// ReviewRow is the flattened view of one recommendation
type ReviewRow struct {
	RequestID     string   `json:"request_id"`
	Employee      string   `json:"employee"`
	Department    string   `json:"department"`
	Start         string   `json:"start"`
	End           string   `json:"end"`
	Days          int      `json:"days"`
	Type          string   `json:"type"`
	Status        string   `json:"status"`
	Label         string   `json:"recommendation"`
	Coverage      float64  `json:"coverage_ratio"`
	Available     int      `json:"available"`
	Roster        int      `json:"roster"`
	MinStaffing   int      `json:"min_staffing"`
	SkillsAtRisk  []string `json:"skills_at_risk"`
	CriticalTasks []string `json:"critical_tasks"`
	Reasoning     string   `json:"reasoning"`
	PolicyNotes   []string `json:"policy_notes,omitempty"`
}

// prepareReviewData flattens recommendations for formatting
func prepareReviewData(recs []*advisor.Recommendation) *ReviewData {
	data := &ReviewData{
		Rows:     make([]ReviewRow, 0, len(recs)),
		ByStatus: make(map[advisor.Status]int),
	}

	for _, rec := range recs {
		if rec == nil {
			continue
		}
		tasks := make([]string, len(rec.CriticalTasks))
		for i, t := range rec.CriticalTasks {
			tasks[i] = t.Title
		}
		data.Rows = append(data.Rows, ReviewRow{
			RequestID:     rec.Request.ID,
			Employee:      rec.Employee.Name,
			Department:    rec.Employee.Department,
			Start:         rec.Request.Period.Start.Format(models.DateLayout),
			End:           rec.Request.Period.End.Format(models.DateLayout),
			Days:          rec.Request.Days(),
			Type:          string(rec.Request.Type),
			Status:        string(rec.Status),
			Label:         rec.Label,
			Coverage:      rec.Availability.CoverageRatio,
			Available:     rec.Availability.AvailableEmployees,
			Roster:        rec.Availability.TotalEmployees,
			MinStaffing:   rec.Availability.MinStaffing,
			SkillsAtRisk:  rec.SkillsAtRisk,
			CriticalTasks: tasks,
			Reasoning:     rec.Reasoning,
			PolicyNotes:   rec.PolicyNotes,
		})
		data.ByStatus[rec.Status]++
	}

	return data
}

// FormatText returns the text representation of a review batch
func FormatText(recs []*advisor.Recommendation) string {
	data := prepareReviewData(recs)
	var sb strings.Builder

	if len(data.Rows) == 0 {
		return "No pending requests to review.\n"
	}

	for _, row := range data.Rows {
		sb.WriteString(formatTextLine(row))
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("  %s\n", row.Reasoning))

		if len(row.CriticalTasks) > 0 {
			sb.WriteString(fmt.Sprintf("  Critical tasks: %s\n", strings.Join(row.CriticalTasks, ", ")))
		}
		for _, note := range row.PolicyNotes {
			sb.WriteString(fmt.Sprintf("  • %s\n", note))
		}
	}

	sb.WriteString(formatSummary(data.ByStatus))
	return sb.String()
}

// FormatJSON returns the JSON representation of a review batch
func FormatJSON(recs []*advisor.Recommendation) string {
	data := prepareReviewData(recs)
	jsonBytes, _ := json.MarshalIndent(data.Rows, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns the CSV representation of a review batch
func FormatCSV(recs []*advisor.Recommendation) string {
	data := prepareReviewData(recs)
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	writer.Write([]string{
		"Request ID", "Employee", "Department", "Start", "End", "Days", "Type",
		"Recommendation", "Coverage", "Available", "Min Staffing",
		"Skills At Risk", "Critical Tasks", "Reasoning",
	})

	for _, row := range data.Rows {
		writer.Write([]string{
			row.RequestID,
			row.Employee,
			row.Department,
			row.Start,
			row.End,
			fmt.Sprintf("%d", row.Days),
			row.Type,
			row.Label,
			fmt.Sprintf("%.2f", row.Coverage),
			fmt.Sprintf("%d/%d", row.Available, row.Roster),
			fmt.Sprintf("%d", row.MinStaffing),
			strings.Join(row.SkillsAtRisk, "; "),
			strings.Join(row.CriticalTasks, "; "),
			row.Reasoning,
		})
	}

	writer.Flush()
	return sb.String()
}

// formatTextLine formats the headline of one review row
func formatTextLine(row ReviewRow) string {
	return fmt.Sprintf("%s : %s (%s) %s..%s %dd %s ; coverage=%.0f%% available=%d/%d min=%d",
		row.Label, row.Employee, row.Department, row.Start, row.End, row.Days, row.Type,
		row.Coverage*100, row.Available, row.Roster, row.MinStaffing)
}

// formatSummary counts rows per classification in a stable order
func formatSummary(byStatus map[advisor.Status]int) string {
	statuses := make([]string, 0, len(byStatus))
	for s := range byStatus {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)

	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = fmt.Sprintf("%s=%d", s, byStatus[advisor.Status(s)])
	}
	return fmt.Sprintf("summary: [%s]\n", strings.Join(parts, ", "))
}
