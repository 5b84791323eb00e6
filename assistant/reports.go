package assistant

import (
	"fmt"
	"pto-advisor/advisor"
	"pto-advisor/models"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const displayDate = "Jan 2, 2006"

const helpText = `I'm your AI PTO Assistant! Here's what I can help you with:

🔍 **"Show me pending requests"** - Analyze all pending PTO requests with recommendations
📊 **"Team availability"** - Check current team availability across departments
🛠️ **"Skills coverage"** - View critical skill availability across teams
📋 **"Active tasks"** - See current high-priority projects and assignments
⚡ **Quick Actions** - I can help you approve or deny requests with reasoning

I analyze team workload, skill coverage, critical tasks, and business impact to help you make informed decisions. Just ask me anything about your team's PTO!`

const approvalHint = "I can help you with approvals! To make the best decision, please ask me to 'show pending requests' first, and I'll provide detailed recommendations for each one."

func fallback(query string) string {
	return fmt.Sprintf(`I understand you're asking about: "%s".

I specialize in intelligent PTO management with skill and task analysis. Try asking me:
• "Show me pending requests"
• "What's my team availability?"
• "Skills coverage analysis"
• "Show me critical tasks"

How can I help you manage your team's time off more effectively?`, query)
}

// truncated joins the first n items and marks any remainder with "...".
func truncated(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return strings.Join(items[:n], ", ") + "..."
}

func pendingReport(ds models.Dataset) string {
	recs := advisor.RecommendPending(ds)
	pending := len(ds.RequestsWithStatus(models.StatusPending))
	if pending == 0 {
		return "Great news! 🎉 You have no pending PTO requests to review right now."
	}

	var sb strings.Builder
	plural := ""
	if pending > 1 {
		plural = "s"
	}
	fmt.Fprintf(&sb, "I found %d pending PTO request%s that need your attention:\n\n", pending, plural)

	for _, rec := range recs {
		e, req := rec.Employee, rec.Request
		fmt.Fprintf(&sb, "%s **%s** (%s)\n", rec.Status.Icon(), e.Name, e.Department)
		fmt.Fprintf(&sb, "👔 %s - %s level\n", e.JobTitle, e.Level)
		fmt.Fprintf(&sb, "🛠️ Skills: %s\n", truncated(e.Skills, 3))
		fmt.Fprintf(&sb, "📅 %s - %s (%d days)\n",
			req.Period.Start.Format(displayDate), req.Period.End.Format(displayDate), req.Days())
		fmt.Fprintf(&sb, "💼 %s - %s\n", cases.Title(language.English).String(string(req.Type)), req.Reason)
		fmt.Fprintf(&sb, "🤖 **%s**\n", rec.Label)
		fmt.Fprintf(&sb, "📊 %s\n", rec.Reasoning)

		if len(rec.CriticalTasks) > 0 {
			titles := make([]string, len(rec.CriticalTasks))
			for i, t := range rec.CriticalTasks {
				titles[i] = t.Title
			}
			fmt.Fprintf(&sb, "⚠️ Critical tasks affected: %s\n", strings.Join(titles, ", "))
		}
		if len(rec.SkillsAtRisk) > 0 {
			fmt.Fprintf(&sb, "🚨 Skills at risk: %s\n", strings.Join(rec.SkillsAtRisk, ", "))
		}
		if len(rec.Availability.AvailableNames) > 0 {
			fmt.Fprintf(&sb, "👥 Available for coverage: %s\n", truncated(rec.Availability.AvailableNames, 3))
		}
		for _, note := range rec.PolicyNotes {
			fmt.Fprintf(&sb, "📌 %s\n", note)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// rosterDepartments lists departments with at least one role-employee member,
// in the order they first appear.
func rosterDepartments(ds models.Dataset) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range ds.Employees {
		if e.Role == models.RoleEmployee && !seen[e.Department] {
			seen[e.Department] = true
			out = append(out, e.Department)
		}
	}
	return out
}

func teamReport(ds models.Dataset, now time.Time) string {
	today := models.Day(now)
	period := models.DateRange{Start: today, End: today}

	var sb strings.Builder
	sb.WriteString("Here's your current team availability by department:\n\n")
	for _, dept := range rosterDepartments(ds) {
		report := advisor.AnalyzeAvailability(ds, period, dept)
		icon := "✅"
		if !report.MeetsMinStaffing {
			icon = "⚠️"
		}
		fmt.Fprintf(&sb, "%s **%s**: %d/%d available (min: %d)\n",
			icon, dept, report.AvailableEmployees, report.TotalEmployees, report.MinStaffing)
		if len(report.SkillCoverage) > 0 {
			covered := len(report.SkillCoverage) - len(report.CriticalSkillsAtRisk)
			fmt.Fprintf(&sb, "   🛠️ Critical skills covered: %d/%d\n", covered, len(report.SkillCoverage))
		}
		if len(report.UnavailableNames) > 0 {
			fmt.Fprintf(&sb, "   Currently out: %s\n", strings.Join(report.UnavailableNames, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func skillsReport(ds models.Dataset, now time.Time) string {
	out := make(map[string]bool)
	for _, r := range ds.RequestsWithStatus(models.StatusApproved) {
		if r.Period.Contains(now) {
			out[r.EmployeeID] = true
		}
	}

	seen := make(map[string]bool)
	var skills []string
	for _, d := range ds.Departments {
		for _, s := range d.CriticalSkills {
			if !seen[s] {
				seen[s] = true
				skills = append(skills, s)
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("Here's the current skill coverage across your team:\n\n")
	for _, skill := range skills {
		var holders, available []string
		for _, e := range ds.Employees {
			if e.Role != models.RoleEmployee || !e.HasSkill(skill) {
				continue
			}
			holders = append(holders, e.Name)
			if !out[e.ID] {
				available = append(available, fmt.Sprintf("%s (%s)", e.Name, e.Level))
			}
		}

		risk := "✅"
		switch len(available) {
		case 0:
			risk = "🚨"
		case 1:
			risk = "⚠️"
		}
		fmt.Fprintf(&sb, "%s **%s**: %d/%d available\n", risk, skill, len(available), len(holders))
		if len(available) > 0 {
			fmt.Fprintf(&sb, "   Available: %s\n", strings.Join(available, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func tasksReport(ds models.Dataset) string {
	var active, critical []models.Task
	for _, t := range ds.Tasks {
		if !t.Status.IsActive() {
			continue
		}
		active = append(active, t)
		if t.Priority.IsCritical() {
			critical = append(critical, t)
		}
	}

	var sb strings.Builder
	sb.WriteString("Current active tasks overview:\n\n")
	fmt.Fprintf(&sb, "📊 **Summary**: %d active tasks (%d critical/high priority)\n\n", len(active), len(critical))
	for _, t := range critical {
		icon := "⚠️"
		if t.Priority == models.PriorityCritical {
			icon = "🚨"
		}
		assignee := "Unassigned"
		if e, ok := ds.EmployeeByID(t.AssignedEmployeeID); ok {
			assignee = fmt.Sprintf("%s (%s)", e.Name, e.Department)
		}
		fmt.Fprintf(&sb, "%s **%s** (%s)\n", icon, t.Title, t.Priority)
		fmt.Fprintf(&sb, "   👤 Assigned: %s\n", assignee)
		fmt.Fprintf(&sb, "   📅 %s - %s\n", t.Period.Start.Format(displayDate), t.Period.End.Format(displayDate))
		fmt.Fprintf(&sb, "   🛠️ Skills: %s\n\n", strings.Join(t.RequiredSkills, ", "))
	}
	return sb.String()
}
