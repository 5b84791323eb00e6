package advisor

import (
	"fmt"
	"pto-advisor/metrics"
	"pto-advisor/models"
	"strings"
	"time"
)

// Status is the machine-readable recommendation classification.
type Status string

const (
	StatusApprove Status = "approve"
	StatusCaution Status = "caution"
	StatusDeny    Status = "deny"
)

// Recommendation labels shown to reviewers.
const (
	LabelApprove = "APPROVE"
	LabelCaution = "APPROVE WITH CAUTION"
	LabelDeny    = "CONSIDER DENYING"
)

// Coverage ratio gates for the decision tree.
const (
	ApproveCoverage = 0.7
	CautionCoverage = 0.5
)

// Icon returns the marker prefixed to reasoning for the status.
func (s Status) Icon() string {
	switch s {
	case StatusApprove:
		return "✅"
	case StatusCaution:
		return "⚠️"
	default:
		return "❌"
	}
}

// Recommendation is the advisory outcome for one leave request.
type Recommendation struct {
	Label         string              `json:"recommendation"`
	Status        Status              `json:"status"`
	Reasoning     string              `json:"reasoning"`
	Request       models.LeaveRequest `json:"request"`
	Employee      models.Employee     `json:"employee"`
	Availability  AvailabilityReport  `json:"availability"`
	AffectedTasks []models.Task       `json:"affected_tasks"`
	CriticalTasks []models.Task       `json:"critical_tasks"`
	SkillsAtRisk  []string            `json:"skills_at_risk"`
	PolicyNotes   []string            `json:"policy_notes,omitempty"`
}

// Recommend classifies a leave request as approve, caution or deny.
// It returns false when the requesting employee cannot be resolved.
//
// The classification is a fixed decision tree evaluated top-down:
//
//	APPROVE               coverage >= 0.7, all critical skills covered,
//	                      minimum staffing met, no high/critical tasks affected
//	APPROVE WITH CAUTION  coverage >= 0.5 and minimum staffing met
//	CONSIDER DENYING      otherwise
func Recommend(ds models.Dataset, req models.LeaveRequest) (*Recommendation, bool) {
	return recommendAt(ds, req, time.Now())
}

func recommendAt(ds models.Dataset, req models.LeaveRequest, now time.Time) (*Recommendation, bool) {
	employee, ok := ds.EmployeeByID(req.EmployeeID)
	if !ok {
		metrics.RecommendationsSkipped.Inc()
		return nil, false
	}

	availability := AnalyzeAvailability(ds, req.Period, employee.Department)

	affected := []models.Task{}
	critical := []models.Task{}
	for _, task := range ds.Tasks {
		if task.AssignedEmployeeID != employee.ID || task.Status != models.TaskInProgress {
			continue
		}
		if !req.Period.Overlaps(task.Period) {
			continue
		}
		affected = append(affected, task)
		if task.Priority.IsCritical() {
			critical = append(critical, task)
		}
	}

	status, reasoning := classify(availability, len(critical))

	rec := &Recommendation{
		Label:         labelFor(status),
		Status:        status,
		Reasoning:     reasoning,
		Request:       req,
		Employee:      employee,
		Availability:  availability,
		AffectedTasks: affected,
		CriticalTasks: critical,
		SkillsAtRisk:  availability.CriticalSkillsAtRisk,
	}
	if policy, ok := ds.PolicyFor(employee); ok {
		balance, hasBalance := ds.BalanceFor(employee.ID, req.Period.Start.Year())
		var bp *models.Balance
		if hasBalance {
			bp = &balance
		}
		rec.PolicyNotes = CheckPolicy(policy, req, bp, now)
	}

	metrics.RecommendationsTotal.WithLabelValues(string(status)).Inc()
	return rec, true
}

// RecommendPending returns a recommendation for every pending request in
// dataset order. Requests whose employee is unknown are skipped.
func RecommendPending(ds models.Dataset) []*Recommendation {
	now := time.Now()
	out := []*Recommendation{}
	for _, req := range ds.RequestsWithStatus(models.StatusPending) {
		if rec, ok := recommendAt(ds, req, now); ok {
			out = append(out, rec)
		}
	}
	return out
}

func classify(a AvailabilityReport, criticalTasks int) (Status, string) {
	hasSkillCoverage := len(a.CriticalSkillsAtRisk) == 0
	hasCriticalTasks := criticalTasks > 0
	meetsStaffing := a.MeetsMinStaffing

	switch {
	case a.CoverageRatio >= ApproveCoverage && hasSkillCoverage && meetsStaffing && !hasCriticalTasks:
		return StatusApprove, StatusApprove.Icon() + " Strong team coverage with all critical skills covered. No high-priority tasks affected."

	case a.CoverageRatio >= CautionCoverage && meetsStaffing:
		var reasons []string
		if !hasSkillCoverage {
			reasons = append(reasons, "Critical skills at risk: "+strings.Join(a.CriticalSkillsAtRisk, ", "))
		}
		if hasCriticalTasks {
			reasons = append(reasons, fmt.Sprintf("%d critical task(s) affected", criticalTasks))
		}
		if len(reasons) == 0 {
			return StatusCaution, StatusCaution.Icon() + " Moderate coverage."
		}
		return StatusCaution, StatusCaution.Icon() + " Moderate coverage. " + strings.Join(reasons, ". ") + "."

	default:
		var reasons []string
		if !meetsStaffing {
			reasons = append(reasons, fmt.Sprintf("Below minimum staffing (%d/%d)", a.AvailableEmployees, a.MinStaffing))
		}
		if !hasSkillCoverage {
			reasons = append(reasons, "Critical skills unavailable: "+strings.Join(a.CriticalSkillsAtRisk, ", "))
		}
		if hasCriticalTasks {
			reasons = append(reasons, fmt.Sprintf("%d critical task(s) at risk", criticalTasks))
		}
		if len(reasons) == 0 {
			reasons = append(reasons, fmt.Sprintf("Low team coverage (%.0f%% available)", a.CoverageRatio*100))
		}
		return StatusDeny, StatusDeny.Icon() + " " + strings.Join(reasons, ". ") + "."
	}
}

func labelFor(s Status) string {
	switch s {
	case StatusApprove:
		return LabelApprove
	case StatusCaution:
		return LabelCaution
	default:
		return LabelDeny
	}
}
