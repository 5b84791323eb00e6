package formatter_test

import (
	"encoding/json"
	"pto-advisor/advisor"
	"pto-advisor/formatter"
	"pto-advisor/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRecommendations() []*advisor.Recommendation {
	return []*advisor.Recommendation{
		{
			Label:     advisor.LabelDeny,
			Status:    advisor.StatusDeny,
			Reasoning: "❌ Below minimum staffing (2/3). 1 critical task(s) at risk.",
			Request: models.LeaveRequest{
				ID:     "1",
				Type:   models.LeaveVacation,
				Period: models.MustDateRange("2025-11-18", "2025-11-22"),
			},
			Employee: models.Employee{Name: "John Smith", Department: "Engineering"},
			Availability: advisor.AvailabilityReport{
				TotalEmployees:     3,
				AvailableEmployees: 2,
				CoverageRatio:      2.0 / 3.0,
				MinStaffing:        3,
			},
			CriticalTasks: []models.Task{{Title: "API Migration"}},
			SkillsAtRisk:  []string{"AWS"},
			PolicyNotes:   []string{"Short notice (3 of 14 days required)"},
		},
		{
			Label:     advisor.LabelApprove,
			Status:    advisor.StatusApprove,
			Reasoning: "✅ Strong team coverage with all critical skills covered. No high-priority tasks affected.",
			Request: models.LeaveRequest{
				ID:     "2",
				Type:   models.LeaveSick,
				Period: models.MustDateRange("2025-11-05", "2025-11-05"),
			},
			Employee: models.Employee{Name: "Lisa Brown", Department: "Sales"},
			Availability: advisor.AvailabilityReport{
				TotalEmployees:     5,
				AvailableEmployees: 4,
				CoverageRatio:      0.8,
				MinStaffing:        2,
			},
			CriticalTasks: []models.Task{},
			SkillsAtRisk:  []string{},
		},
	}
}

func TestFormatText(t *testing.T) {
	tests := map[string]struct {
		recs     []*advisor.Recommendation
		contains []string
	}{
		"Empty": {
			recs:     nil,
			contains: []string{"No pending requests to review."},
		},
		"NilEntriesSkipped": {
			recs:     []*advisor.Recommendation{nil},
			contains: []string{"No pending requests to review."},
		},
		"Batch": {
			recs: sampleRecommendations(),
			contains: []string{
				"CONSIDER DENYING : John Smith (Engineering) 2025-11-18..2025-11-22 5d vacation ; coverage=67% available=2/3 min=3",
				"  ❌ Below minimum staffing (2/3). 1 critical task(s) at risk.",
				"  Critical tasks: API Migration",
				"  • Short notice (3 of 14 days required)",
				"APPROVE : Lisa Brown (Sales) 2025-11-05..2025-11-05 1d sick ; coverage=80% available=4/5 min=2",
				"summary: [approve=1, deny=1]",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output := formatter.FormatText(tt.recs)
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	tests := map[string]struct {
		recs     []*advisor.Recommendation
		expected int
	}{
		"Empty": {recs: nil, expected: 0},
		"Batch": {recs: sampleRecommendations(), expected: 2},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output := formatter.FormatJSON(tt.recs)

			var rows []formatter.ReviewRow
			assert.NoError(t, json.Unmarshal([]byte(output), &rows))
			assert.Len(t, rows, tt.expected)
			if tt.expected > 0 {
				assert.Equal(t, "CONSIDER DENYING", rows[0].Label)
				assert.Equal(t, []string{"API Migration"}, rows[0].CriticalTasks)
				assert.Equal(t, []string{"AWS"}, rows[0].SkillsAtRisk)
				assert.Contains(t, output, `"recommendation": "APPROVE"`)
			}
		})
	}
}

func TestFormatCSV(t *testing.T) {
	output := formatter.FormatCSV(sampleRecommendations())
	lines := strings.Split(strings.TrimSpace(output), "\n")

	assert.Len(t, lines, 3)
	assert.Equal(t, "Request ID,Employee,Department,Start,End,Days,Type,Recommendation,Coverage,Available,Min Staffing,Skills At Risk,Critical Tasks,Reasoning", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,John Smith,Engineering,2025-11-18,2025-11-22,5,vacation,CONSIDER DENYING,0.67,2/3,3,AWS,API Migration,"))
	assert.True(t, strings.HasPrefix(lines[2], "2,Lisa Brown,Sales,2025-11-05,2025-11-05,1,sick,APPROVE,0.80,4/5,2,,,"))
}

func TestFormatAvailabilityText(t *testing.T) {
	report := advisor.AvailabilityReport{
		Department:         "Engineering",
		Period:             models.MustDateRange("2025-11-18", "2025-11-22"),
		TotalEmployees:     3,
		AvailableEmployees: 2,
		AvailableNames:     []string{"Mike Johnson", "Alex Kim"},
		UnavailableNames:   []string{"John Smith"},
		CoverageRatio:      2.0 / 3.0,
		MinStaffing:        3,
		SkillCoverage: []advisor.SkillCoverage{
			{Skill: "Backend", Available: 1, Employees: []string{"Mike Johnson"}},
			{Skill: "AWS", Available: 0, Employees: []string{}},
		},
	}

	output := formatter.FormatAvailabilityText(report)
	for _, s := range []string{
		"Engineering : 2025-11-18 to 2025-11-22 ; available=2/3 coverage=67% min=3 [BELOW MINIMUM]",
		"  Available: Mike Johnson, Alex Kim",
		"  Out: John Smith",
		"  • Backend: 1 (Mike Johnson)",
		"  ⚠️  AWS: no one available",
	} {
		assert.Contains(t, output, s)
	}

	var decoded advisor.AvailabilityReport
	assert.NoError(t, json.Unmarshal([]byte(formatter.FormatAvailabilityJSON(report)), &decoded))
	assert.Equal(t, report.Period, decoded.Period)
	assert.Equal(t, report.UnavailableNames, decoded.UnavailableNames)
}
