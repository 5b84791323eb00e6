package advisor_test

import (
	"fmt"
	"pto-advisor/advisor"
	"pto-advisor/metrics"
	"pto-advisor/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var window = models.MustDateRange("2025-11-18", "2025-11-22")

func employee(id, name, dept string, skills ...string) models.Employee {
	return models.Employee{
		ID:         id,
		Name:       name,
		Department: dept,
		Role:       models.RoleEmployee,
		Skills:     skills,
		Level:      models.LevelMid,
	}
}

func approvedLeave(id, employeeID string, period models.DateRange) models.LeaveRequest {
	return models.LeaveRequest{
		ID:         id,
		EmployeeID: employeeID,
		Type:       models.LeaveVacation,
		Period:     period,
		Status:     models.StatusApproved,
	}
}

func pendingLeave(id, employeeID string) models.LeaveRequest {
	return models.LeaveRequest{
		ID:          id,
		EmployeeID:  employeeID,
		Type:        models.LeaveVacation,
		Period:      window,
		Status:      models.StatusPending,
		SubmittedAt: time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC),
	}
}

// team builds a department of n employees ids e1..en, the first holding skill.
func team(dept string, n, minStaffing int, skill string) models.Dataset {
	ds := models.Dataset{
		Departments: []models.Department{{
			ID:               dept,
			Name:             dept,
			MinStaffingLevel: minStaffing,
			CriticalSkills:   []string{skill},
		}},
	}
	for i := 1; i <= n; i++ {
		var skills []string
		if i == 1 {
			skills = []string{skill}
		}
		ds.Employees = append(ds.Employees, employee(fmt.Sprintf("e%d", i), fmt.Sprintf("Person %d", i), dept, skills...))
	}
	return ds
}

func TestAnalyzeAvailability(t *testing.T) {
	tests := map[string]struct {
		ds                models.Dataset
		department        string
		period            models.DateRange
		expectedTotal     int
		expectedAvailable int
		expectedRatio     float64
		expectedMin       int
		expectedMeets     bool
		expectedAtRisk    []string
		expectedOut       []string
	}{
		"EmptyRoster_UnknownDepartment": {
			ds:             team("Engineering", 3, 3, "AWS"),
			department:     "Nowhere",
			period:         window,
			expectedMin:    advisor.DefaultMinStaffing,
			expectedAtRisk: []string{},
			expectedOut:    []string{},
		},
		"ApprovedLeaveOverlaps": {
			ds: func() models.Dataset {
				ds := team("Engineering", 3, 3, "AWS")
				ds.Requests = []models.LeaveRequest{approvedLeave("r1", "e1", models.MustDateRange("2025-11-20", "2025-11-25"))}
				return ds
			}(),
			department:        "Engineering",
			period:            window,
			expectedTotal:     3,
			expectedAvailable: 2,
			expectedRatio:     2.0 / 3.0,
			expectedMin:       3,
			expectedAtRisk:    []string{"AWS"},
			expectedOut:       []string{"Person 1"},
		},
		"PendingAndDeniedIgnored": {
			ds: func() models.Dataset {
				ds := team("Engineering", 2, 1, "AWS")
				pending := approvedLeave("r1", "e1", window)
				pending.Status = models.StatusPending
				denied := approvedLeave("r2", "e2", window)
				denied.Status = models.StatusDenied
				ds.Requests = []models.LeaveRequest{pending, denied}
				return ds
			}(),
			department:        "Engineering",
			period:            window,
			expectedTotal:     2,
			expectedAvailable: 2,
			expectedRatio:     1,
			expectedMin:       1,
			expectedMeets:     true,
			expectedAtRisk:    []string{},
			expectedOut:       []string{},
		},
		"AdjacentLeaveDoesNotOverlap": {
			ds: func() models.Dataset {
				ds := team("Engineering", 2, 1, "AWS")
				ds.Requests = []models.LeaveRequest{
					approvedLeave("r1", "e1", models.MustDateRange("2025-11-10", "2025-11-17")),
					approvedLeave("r2", "e2", models.MustDateRange("2025-11-23", "2025-11-30")),
				}
				return ds
			}(),
			department:        "Engineering",
			period:            window,
			expectedTotal:     2,
			expectedAvailable: 2,
			expectedRatio:     1,
			expectedMin:       1,
			expectedMeets:     true,
			expectedAtRisk:    []string{},
			expectedOut:       []string{},
		},
		"SingleDayOnlySameDay": {
			ds: func() models.Dataset {
				ds := team("Engineering", 2, 1, "AWS")
				ds.Requests = []models.LeaveRequest{
					approvedLeave("r1", "e1", models.MustDateRange("2025-11-18", "2025-11-18")),
					approvedLeave("r2", "e2", models.MustDateRange("2025-11-19", "2025-11-19")),
				}
				return ds
			}(),
			department:        "Engineering",
			period:            models.MustDateRange("2025-11-18", "2025-11-18"),
			expectedTotal:     2,
			expectedAvailable: 1,
			expectedRatio:     0.5,
			expectedMin:       1,
			expectedMeets:     true,
			expectedAtRisk:    []string{"AWS"},
			expectedOut:       []string{"Person 1"},
		},
		"MatchesByIDNotName": {
			ds: func() models.Dataset {
				ds := team("Engineering", 2, 1, "AWS")
				ds.Employees[1].Name = ds.Employees[0].Name
				ds.Requests = []models.LeaveRequest{approvedLeave("r1", "e2", window)}
				return ds
			}(),
			department:        "Engineering",
			period:            window,
			expectedTotal:     2,
			expectedAvailable: 1,
			expectedRatio:     0.5,
			expectedMin:       1,
			expectedMeets:     true,
			expectedAtRisk:    []string{},
			expectedOut:       []string{"Person 1"},
		},
		"ManagersExcluded": {
			ds: func() models.Dataset {
				ds := team("Engineering", 2, 1, "AWS")
				boss := employee("m1", "Boss", "Engineering", "AWS")
				boss.Role = models.RoleManager
				ds.Employees = append(ds.Employees, boss)
				ds.Requests = []models.LeaveRequest{approvedLeave("r1", "m1", window)}
				return ds
			}(),
			department:        "Engineering",
			period:            window,
			expectedTotal:     2,
			expectedAvailable: 2,
			expectedRatio:     1,
			expectedMin:       1,
			expectedMeets:     true,
			expectedAtRisk:    []string{},
			expectedOut:       []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			report := advisor.AnalyzeAvailability(tt.ds, tt.period, tt.department)

			assert.Equal(t, tt.expectedTotal, report.TotalEmployees)
			assert.Equal(t, tt.expectedAvailable, report.AvailableEmployees)
			assert.Equal(t, tt.expectedTotal-tt.expectedAvailable, report.UnavailableEmployees)
			assert.InDelta(t, tt.expectedRatio, report.CoverageRatio, 1e-9)
			assert.Equal(t, tt.expectedMin, report.MinStaffing)
			assert.Equal(t, tt.expectedMeets, report.MeetsMinStaffing)
			assert.Equal(t, tt.expectedAtRisk, report.CriticalSkillsAtRisk)
			assert.Equal(t, tt.expectedOut, report.UnavailableNames)
		})
	}
}

func TestAnalyzeAvailability_MetricLabels(t *testing.T) {
	ds := team("Engineering", 2, 3, "Go")

	advisor.AnalyzeAvailability(ds, window, "junk-1")
	advisor.AnalyzeAvailability(ds, window, "junk-2")
	advisor.AnalyzeAvailability(ds, window, "Engineering")

	families, err := metrics.Registry.Gather()
	assert.NoError(t, err)

	seen := map[string]map[string]bool{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() != "department" {
					continue
				}
				if seen[mf.GetName()] == nil {
					seen[mf.GetName()] = map[string]bool{}
				}
				seen[mf.GetName()][lp.GetValue()] = true
			}
		}
	}

	for _, name := range []string{"advisor_coverage_ratio", "advisor_critical_skills_at_risk"} {
		assert.True(t, seen[name][advisor.UnknownDepartmentLabel], name)
		assert.True(t, seen[name]["Engineering"], name)
	}
	for name, values := range seen {
		assert.False(t, values["junk-1"], name)
		assert.False(t, values["junk-2"], name)
	}
	assert.False(t, seen["advisor_staffing_shortfalls_total"][advisor.UnknownDepartmentLabel])
	assert.True(t, seen["advisor_staffing_shortfalls_total"]["Engineering"])
}

func TestAnalyzeAvailability_Idempotent(t *testing.T) {
	ds := team("Engineering", 4, 2, "AWS")
	ds.Requests = []models.LeaveRequest{approvedLeave("r1", "e1", window)}

	first := advisor.AnalyzeAvailability(ds, window, "Engineering")
	second := advisor.AnalyzeAvailability(ds, window, "Engineering")
	assert.Equal(t, first, second)
}

func TestRecommend(t *testing.T) {
	tests := map[string]struct {
		ds                models.Dataset
		request           models.LeaveRequest
		expectedStatus    advisor.Status
		expectedLabel     string
		reasoningContains []string
	}{
		"BelowMinimumStaffing": {
			// e1 holds AWS and is already out; e2 asks; e3 stays.
			ds: func() models.Dataset {
				ds := team("Engineering", 3, 3, "AWS")
				ds.Employees[1].Skills = []string{"AWS"}
				ds.Requests = []models.LeaveRequest{approvedLeave("r0", "e1", window)}
				return ds
			}(),
			request:           pendingLeave("r1", "e2"),
			expectedStatus:    advisor.StatusDeny,
			expectedLabel:     advisor.LabelDeny,
			reasoningContains: []string{"❌ ", "Below minimum staffing (2/3)"},
		},
		"StrongCoverage": {
			ds: func() models.Dataset {
				ds := team("Sales", 5, 2, "CRM")
				ds.Employees[2].Skills = []string{"CRM"}
				ds.Requests = []models.LeaveRequest{approvedLeave("r0", "e1", window)}
				return ds
			}(),
			request:        pendingLeave("r1", "e2"),
			expectedStatus: advisor.StatusApprove,
			expectedLabel:  advisor.LabelApprove,
			reasoningContains: []string{
				"✅ Strong team coverage with all critical skills covered. No high-priority tasks affected.",
			},
		},
		"CautionSkillAtRisk": {
			ds: func() models.Dataset {
				ds := team("Support", 4, 2, "Escalations")
				ds.Requests = []models.LeaveRequest{
					approvedLeave("r0", "e1", window),
					approvedLeave("r2", "e3", window),
				}
				return ds
			}(),
			request:           pendingLeave("r1", "e2"),
			expectedStatus:    advisor.StatusCaution,
			expectedLabel:     advisor.LabelCaution,
			reasoningContains: []string{"⚠️ Moderate coverage. Critical skills at risk: Escalations."},
		},
		"CautionCriticalTask": {
			ds: func() models.Dataset {
				ds := team("Engineering", 4, 1, "AWS")
				ds.Tasks = []models.Task{
					{ID: "t1", Title: "API Migration", AssignedEmployeeID: "e2", Priority: models.PriorityHigh,
						Period: models.MustDateRange("2025-11-01", "2025-11-30"), Status: models.TaskInProgress},
					{ID: "t2", Title: "Docs", AssignedEmployeeID: "e2", Priority: models.PriorityLow,
						Period: models.MustDateRange("2025-11-01", "2025-11-30"), Status: models.TaskInProgress},
					{ID: "t3", Title: "Done", AssignedEmployeeID: "e2", Priority: models.PriorityCritical,
						Period: models.MustDateRange("2025-11-01", "2025-11-30"), Status: models.TaskCompleted},
				}
				return ds
			}(),
			request:           pendingLeave("r1", "e2"),
			expectedStatus:    advisor.StatusCaution,
			expectedLabel:     advisor.LabelCaution,
			reasoningContains: []string{"⚠️ Moderate coverage. 1 critical task(s) affected."},
		},
		"LowCoverageNoOtherReason": {
			ds: func() models.Dataset {
				ds := team("Ops", 5, 1, "Pager")
				ds.Employees[1].Skills = []string{"Pager"}
				ds.Requests = []models.LeaveRequest{
					approvedLeave("r0", "e1", window),
					approvedLeave("r2", "e3", window),
					approvedLeave("r3", "e4", window),
				}
				return ds
			}(),
			request:           pendingLeave("r1", "e2"),
			expectedStatus:    advisor.StatusDeny,
			expectedLabel:     advisor.LabelDeny,
			reasoningContains: []string{"❌ Low team coverage (40% available)."},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec, ok := advisor.Recommend(tt.ds, tt.request)

			assert.True(t, ok)
			if !assert.NotNil(t, rec) {
				return
			}
			assert.Equal(t, tt.expectedStatus, rec.Status)
			assert.Equal(t, tt.expectedLabel, rec.Label)
			assert.Equal(t, tt.request.EmployeeID, rec.Employee.ID)
			for _, s := range tt.reasoningContains {
				assert.Contains(t, rec.Reasoning, s)
			}
		})
	}
}

func TestRecommend_CriticalTasks(t *testing.T) {
	ds := team("Engineering", 4, 1, "AWS")
	ds.Tasks = []models.Task{
		{ID: "t1", Title: "API Migration", AssignedEmployeeID: "e2", Priority: models.PriorityCritical,
			Period: models.MustDateRange("2025-11-20", "2025-12-10"), Status: models.TaskInProgress},
		{ID: "t2", Title: "Docs", AssignedEmployeeID: "e2", Priority: models.PriorityMedium,
			Period: models.MustDateRange("2025-11-01", "2025-11-30"), Status: models.TaskInProgress},
		{ID: "t3", Title: "Later", AssignedEmployeeID: "e2", Priority: models.PriorityHigh,
			Period: models.MustDateRange("2025-12-01", "2025-12-10"), Status: models.TaskInProgress},
		{ID: "t4", Title: "Someone else", AssignedEmployeeID: "e3", Priority: models.PriorityHigh,
			Period: window, Status: models.TaskInProgress},
	}

	rec, ok := advisor.Recommend(ds, pendingLeave("r1", "e2"))
	assert.True(t, ok)
	assert.Len(t, rec.AffectedTasks, 2)
	if assert.Len(t, rec.CriticalTasks, 1) {
		assert.Equal(t, "t1", rec.CriticalTasks[0].ID)
	}
}

func TestRecommend_UnknownEmployee(t *testing.T) {
	ds := team("Engineering", 3, 1, "AWS")

	rec, ok := advisor.Recommend(ds, pendingLeave("r1", "ghost"))
	assert.False(t, ok)
	assert.Nil(t, rec)
}

func TestRecommend_Monotonic(t *testing.T) {
	rank := map[advisor.Status]int{advisor.StatusDeny: 0, advisor.StatusCaution: 1, advisor.StatusApprove: 2}

	// A roster of ten with minimum staffing 1; every member holds the skill
	// so coverage only moves with the number of colleagues already out.
	prev := -1
	var seen []advisor.Status
	for out := 9; out >= 0; out-- {
		ds := team("Engineering", 10, 1, "AWS")
		for i := range ds.Employees {
			ds.Employees[i].Skills = []string{"AWS"}
		}
		for i := 0; i < out; i++ {
			// e10 is the requester and is never pre-booked.
			ds.Requests = append(ds.Requests, approvedLeave(fmt.Sprintf("r%d", i), fmt.Sprintf("e%d", i+1), window))
		}

		rec, ok := advisor.Recommend(ds, pendingLeave("req", "e10"))
		assert.True(t, ok)
		assert.GreaterOrEqual(t, rank[rec.Status], prev, "coverage %.1f", rec.Availability.CoverageRatio)
		prev = rank[rec.Status]
		if len(seen) == 0 || seen[len(seen)-1] != rec.Status {
			seen = append(seen, rec.Status)
		}
	}
	assert.Equal(t, []advisor.Status{advisor.StatusDeny, advisor.StatusCaution, advisor.StatusApprove}, seen)
}

func TestRecommend_PolicyNotesAreAdvisory(t *testing.T) {
	ds := team("Sales", 5, 2, "CRM")
	ds.Employees[2].Skills = []string{"CRM"}
	ds.Policies = []models.Policy{{
		ID:                 "p1",
		Name:               "Quarter Close",
		MaxConsecutiveDays: 2,
		BlackoutPeriods:    []models.DateRange{models.MustDateRange("2025-11-20", "2025-11-21")},
	}}

	rec, ok := advisor.Recommend(ds, pendingLeave("r1", "e2"))
	assert.True(t, ok)
	assert.Equal(t, advisor.StatusApprove, rec.Status)
	assert.Equal(t, []string{
		"Overlaps blackout period 2025-11-20 to 2025-11-21 (Quarter Close)",
		"Exceeds max consecutive days (4/2)",
	}, rec.PolicyNotes)
}

func TestRecommendPending(t *testing.T) {
	ds := team("Engineering", 4, 1, "AWS")
	approved := pendingLeave("r2", "e3")
	approved.Status = models.StatusApproved
	approved.Period = models.MustDateRange("2026-01-05", "2026-01-06")
	ds.Requests = []models.LeaveRequest{
		pendingLeave("r1", "e2"),
		approved,
		pendingLeave("r3", "ghost"),
		pendingLeave("r4", "e4"),
	}

	recs := advisor.RecommendPending(ds)
	if assert.Len(t, recs, 2) {
		assert.Equal(t, "r1", recs[0].Request.ID)
		assert.Equal(t, "r4", recs[1].Request.ID)
	}

	assert.NotNil(t, advisor.RecommendPending(models.Dataset{}))
}
