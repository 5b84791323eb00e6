package advisor

import (
	"math"
	"pto-advisor/models"
	"sort"
	"time"
)

// DepartmentUsage is PTO consumption for one department in a year.
type DepartmentUsage struct {
	Department  string `json:"department"`
	Employees   int    `json:"employees"`
	UsedDays    int    `json:"used_days"`
	TotalDays   int    `json:"total_days"`
	Utilization int    `json:"utilization_percent"`
}

// Analytics summarises requests and balance consumption.
type Analytics struct {
	Year               int               `json:"year"`
	TotalEmployees     int               `json:"total_employees"`
	TotalRequests      int               `json:"total_requests"`
	PendingRequests    int               `json:"pending_requests"`
	ApprovedRequests   int               `json:"approved_requests"`
	DeniedRequests     int               `json:"denied_requests"`
	ApprovalRate       int               `json:"approval_rate_percent"`
	AverageRequestDays int               `json:"average_request_days"`
	UsedDays           int               `json:"used_days"`
	TotalDays          int               `json:"total_days"`
	Utilization        int               `json:"utilization_percent"`
	Departments        []DepartmentUsage `json:"departments"`
}

// Summarize computes request statistics over every request and balance
// utilization for year. Every employee counts toward their department,
// managers included. Percentages and the average are rounded to whole
// numbers and are 0 when there is nothing to divide by.
func Summarize(ds models.Dataset, year int) Analytics {
	a := Analytics{
		Year:           year,
		TotalEmployees: len(ds.Employees),
		TotalRequests:  len(ds.Requests),
		Departments:    []DepartmentUsage{},
	}

	days := 0
	for _, r := range ds.Requests {
		days += r.Days()
		switch r.Status {
		case models.StatusPending:
			a.PendingRequests++
		case models.StatusApproved:
			a.ApprovedRequests++
		case models.StatusDenied:
			a.DeniedRequests++
		}
	}
	a.ApprovalRate = percent(a.ApprovedRequests, a.TotalRequests)
	if a.TotalRequests > 0 {
		a.AverageRequestDays = int(math.Round(float64(days) / float64(a.TotalRequests)))
	}

	byDept := map[string]*DepartmentUsage{}
	for _, e := range ds.Employees {
		usage, ok := byDept[e.Department]
		if !ok {
			usage = &DepartmentUsage{Department: e.Department}
			byDept[e.Department] = usage
		}
		usage.Employees++
		if b, ok := ds.BalanceFor(e.ID, year); ok {
			usage.UsedDays += b.Used()
			usage.TotalDays += b.Entitled()
		}
	}
	for _, usage := range byDept {
		usage.Utilization = percent(usage.UsedDays, usage.TotalDays)
		a.UsedDays += usage.UsedDays
		a.TotalDays += usage.TotalDays
		a.Departments = append(a.Departments, *usage)
	}
	sort.Slice(a.Departments, func(i, j int) bool {
		return a.Departments[i].Department < a.Departments[j].Department
	})
	a.Utilization = percent(a.UsedDays, a.TotalDays)

	return a
}

// Absence is one approved leave covering a given day.
type Absence struct {
	RequestID  string           `json:"request_id"`
	EmployeeID string           `json:"employee_id"`
	Employee   string           `json:"employee"`
	Department string           `json:"department"`
	Type       models.LeaveType `json:"type"`
	Period     models.DateRange `json:"period"`
}

// WhoIsOut lists approved leave covering day, ordered by department then
// employee name. Requests whose employee is unknown keep the name recorded
// on the request and an empty department.
func WhoIsOut(ds models.Dataset, day time.Time) []Absence {
	out := []Absence{}
	for _, r := range ds.Requests {
		if r.Status != models.StatusApproved || !r.Period.Contains(day) {
			continue
		}
		absence := Absence{
			RequestID:  r.ID,
			EmployeeID: r.EmployeeID,
			Employee:   r.EmployeeName,
			Type:       r.Type,
			Period:     r.Period,
		}
		if e, ok := ds.EmployeeByID(r.EmployeeID); ok {
			absence.Employee = e.Name
			absence.Department = e.Department
		}
		out = append(out, absence)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Department != out[j].Department {
			return out[i].Department < out[j].Department
		}
		return out[i].Employee < out[j].Employee
	})
	return out
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
