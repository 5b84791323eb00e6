package models

import "time"

// Role distinguishes individual contributors from people managers.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// Level is the seniority of an employee.
type Level string

const (
	LevelJunior Level = "junior"
	LevelMid    Level = "mid"
	LevelSenior Level = "senior"
	LevelLead   Level = "lead"
)

// Rank orders levels from junior (1) to lead (4). Unknown levels rank 0.
func (l Level) Rank() int {
	switch l {
	case LevelJunior:
		return 1
	case LevelMid:
		return 2
	case LevelSenior:
		return 3
	case LevelLead:
		return 4
	default:
		return 0
	}
}

// Priority is the business priority of a task.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsCritical reports whether the priority blocks leave (high or critical).
func (p Priority) IsCritical() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// TaskStatus is the progress state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskBlocked    TaskStatus = "blocked"
)

// IsActive reports whether the task still represents committed work.
func (s TaskStatus) IsActive() bool {
	return s == TaskInProgress || s == TaskPending
}

// LeaveType is the kind of time off being requested.
type LeaveType string

const (
	LeaveVacation LeaveType = "vacation"
	LeaveSick     LeaveType = "sick"
	LeavePersonal LeaveType = "personal"
)

// Valid reports whether t is one of the known leave types.
func (t LeaveType) Valid() bool {
	return t == LeaveVacation || t == LeaveSick || t == LeavePersonal
}

// RequestStatus is the lifecycle state of a leave request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDenied   RequestStatus = "denied"
)

// Valid reports whether s is one of the known request states.
func (s RequestStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusDenied
}

// Employee is a member of staff. ManagerID is only set for role employee.
type Employee struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email,omitempty"`
	Department string   `json:"department"`
	Role       Role     `json:"role"`
	JobTitle   string   `json:"job_title"`
	Skills     []string `json:"skills"`
	Level      Level    `json:"level"`
	ManagerID  *string  `json:"manager_id,omitempty"`
}

// HasSkill reports whether the employee lists skill.
func (e Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// Department carries the staffing rules used by the availability analysis.
type Department struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	ManagerID        string   `json:"manager_id,omitempty"`
	MinStaffingLevel int      `json:"min_staffing_level"`
	CriticalSkills   []string `json:"critical_skills"`
}

// Task is committed work competing with leave for the same employee-time.
type Task struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	DepartmentID       string     `json:"department_id,omitempty"`
	AssignedEmployeeID string     `json:"assigned_employee_id"`
	RequiredSkills     []string   `json:"required_skills"`
	Priority           Priority   `json:"priority"`
	Period             DateRange  `json:"period"`
	Status             TaskStatus `json:"status"`
}

// LeaveRequest is a request for time off and its review outcome.
type LeaveRequest struct {
	ID           string        `json:"id"`
	EmployeeID   string        `json:"employee_id"`
	EmployeeName string        `json:"employee_name,omitempty"`
	Type         LeaveType     `json:"type"`
	Period       DateRange     `json:"period"`
	Reason       string        `json:"reason"`
	Status       RequestStatus `json:"status"`
	SubmittedAt  time.Time     `json:"submitted_at"`
	ReviewedAt   *time.Time    `json:"reviewed_at,omitempty"`
	ReviewedBy   string        `json:"reviewed_by,omitempty"`
	ManagerNotes string        `json:"manager_notes,omitempty"`
}

// Days is the inclusive number of calendar days requested.
func (r LeaveRequest) Days() int {
	return r.Period.Days()
}

// Balance is a yearly PTO entitlement and its consumption.
type Balance struct {
	EmployeeID   string `json:"employee_id"`
	Year         int    `json:"year"`
	VacationDays int    `json:"vacation_days"`
	SickDays     int    `json:"sick_days"`
	PersonalDays int    `json:"personal_days"`
	UsedVacation int    `json:"used_vacation"`
	UsedSick     int    `json:"used_sick"`
	UsedPersonal int    `json:"used_personal"`
}

// Remaining returns the unused days for the given leave type.
func (b Balance) Remaining(t LeaveType) int {
	switch t {
	case LeaveVacation:
		return b.VacationDays - b.UsedVacation
	case LeaveSick:
		return b.SickDays - b.UsedSick
	case LeavePersonal:
		return b.PersonalDays - b.UsedPersonal
	default:
		return 0
	}
}

// Entitled is the total days granted across all leave types.
func (b Balance) Entitled() int {
	return b.VacationDays + b.SickDays + b.PersonalDays
}

// Used is the total days consumed across all leave types.
func (b Balance) Used() int {
	return b.UsedVacation + b.UsedSick + b.UsedPersonal
}

// Charge records days of the given leave type as used.
func (b *Balance) Charge(t LeaveType, days int) {
	switch t {
	case LeaveVacation:
		b.UsedVacation += days
	case LeaveSick:
		b.UsedSick += days
	case LeavePersonal:
		b.UsedPersonal += days
	}
}

// Policy is leave policy metadata. It is advisory only.
type Policy struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Department         string      `json:"department,omitempty"`
	MinLevel           Level       `json:"min_level,omitempty"`
	MaxConsecutiveDays int         `json:"max_consecutive_days"`
	AdvanceNoticeDays  int         `json:"advance_notice_days"`
	BlackoutPeriods    []DateRange `json:"blackout_periods,omitempty"`
}
