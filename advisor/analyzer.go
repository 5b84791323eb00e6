package advisor

import (
	"pto-advisor/metrics"
	"pto-advisor/models"
	"time"
)

// DefaultMinStaffing applies when a department has no record.
const DefaultMinStaffing = 1

// UnknownDepartmentLabel is the metric label shared by departments with no record.
const UnknownDepartmentLabel = "unknown"

// SkillCoverage is the availability of one critical skill.
type SkillCoverage struct {
	Skill     string   `json:"skill"`
	Available int      `json:"available"`
	Employees []string `json:"employees"`
}

// AvailabilityReport summarises who in a department is free over a period.
type AvailabilityReport struct {
	Department           string           `json:"department"`
	Period               models.DateRange `json:"period"`
	TotalEmployees       int              `json:"total_employees"`
	AvailableEmployees   int              `json:"available_employees"`
	UnavailableEmployees int              `json:"unavailable_employees"`
	AvailableNames       []string         `json:"available_names"`
	UnavailableNames     []string         `json:"unavailable_names"`
	CoverageRatio        float64          `json:"coverage_ratio"`
	MinStaffing          int              `json:"min_staffing"`
	MeetsMinStaffing     bool             `json:"meets_min_staffing"`
	SkillCoverage        []SkillCoverage  `json:"skill_coverage"`
	CriticalSkillsAtRisk []string         `json:"critical_skills_at_risk"`
}

// AnalyzeAvailability computes department availability over an inclusive period.
//
// The roster is every employee with role employee in the department; managers
// are not counted. A roster member is unavailable when an approved request of
// theirs overlaps the period. Matching is by employee id, so two people who
// share a display name are never conflated. An unknown department falls back
// to DefaultMinStaffing with no critical skills, and an empty roster yields a
// coverage ratio of 0.
func AnalyzeAvailability(ds models.Dataset, period models.DateRange, department string) AvailabilityReport {
	start := time.Now()
	defer func() {
		metrics.AnalyzerDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	var roster []models.Employee
	for _, e := range ds.Employees {
		if e.Role == models.RoleEmployee && e.Department == department {
			roster = append(roster, e)
		}
	}

	blocked := make(map[string]bool)
	for _, req := range ds.Requests {
		if req.Status == models.StatusApproved && req.Period.Overlaps(period) {
			blocked[req.EmployeeID] = true
		}
	}

	report := AvailabilityReport{
		Department:           department,
		Period:               period,
		TotalEmployees:       len(roster),
		AvailableNames:       []string{},
		UnavailableNames:     []string{},
		MinStaffing:          DefaultMinStaffing,
		SkillCoverage:        []SkillCoverage{},
		CriticalSkillsAtRisk: []string{},
	}

	available := make([]models.Employee, 0, len(roster))
	for _, e := range roster {
		if blocked[e.ID] {
			report.UnavailableNames = append(report.UnavailableNames, e.Name)
			continue
		}
		available = append(available, e)
		report.AvailableNames = append(report.AvailableNames, e.Name)
	}
	report.AvailableEmployees = len(available)
	report.UnavailableEmployees = len(report.UnavailableNames)

	var criticalSkills []string
	dept, known := ds.DepartmentByName(department)
	if known {
		if dept.MinStaffingLevel > 0 {
			report.MinStaffing = dept.MinStaffingLevel
		}
		criticalSkills = dept.CriticalSkills
	}

	for _, skill := range criticalSkills {
		sc := SkillCoverage{Skill: skill, Employees: []string{}}
		for _, e := range available {
			if e.HasSkill(skill) {
				sc.Employees = append(sc.Employees, e.Name)
			}
		}
		sc.Available = len(sc.Employees)
		report.SkillCoverage = append(report.SkillCoverage, sc)
		if sc.Available == 0 {
			report.CriticalSkillsAtRisk = append(report.CriticalSkillsAtRisk, skill)
		}
	}

	if len(roster) > 0 {
		report.CoverageRatio = float64(len(available)) / float64(len(roster))
	}
	report.MeetsMinStaffing = report.AvailableEmployees >= report.MinStaffing

	label := UnknownDepartmentLabel
	if known {
		label = dept.Name
	}
	metrics.CoverageRatio.WithLabelValues(label).Set(report.CoverageRatio)
	metrics.SkillsAtRisk.WithLabelValues(label).Set(float64(len(report.CriticalSkillsAtRisk)))
	// Only known departments count toward shortfalls.
	if known && !report.MeetsMinStaffing {
		metrics.StaffingShortfalls.WithLabelValues(label).Inc()
	}

	return report
}
