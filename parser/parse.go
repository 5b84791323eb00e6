package parser

import (
	"fmt"
	"io"
	customerrors "pto-advisor/errors"
	"pto-advisor/metrics"
	"pto-advisor/models"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Source names used in ParseError.
const (
	SourceFixtures = "fixtures"
	SourceRequests = "requests"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their fixture key rather than the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type departmentRecord struct {
	ID               string   `yaml:"id" validate:"required"`
	Name             string   `yaml:"name" validate:"required"`
	Description      string   `yaml:"description"`
	ManagerID        string   `yaml:"manager_id"`
	MinStaffingLevel int      `yaml:"min_staffing_level" validate:"min=1"`
	CriticalSkills   []string `yaml:"critical_skills" validate:"dive,required"`
}

type employeeRecord struct {
	ID         string   `yaml:"id" validate:"required"`
	Name       string   `yaml:"name" validate:"required"`
	Email      string   `yaml:"email" validate:"omitempty,email"`
	Department string   `yaml:"department" validate:"required"`
	Role       string   `yaml:"role" validate:"required,oneof=employee manager"`
	JobTitle   string   `yaml:"job_title"`
	Skills     []string `yaml:"skills" validate:"dive,required"`
	Level      string   `yaml:"level" validate:"required,oneof=junior mid senior lead"`
	ManagerID  string   `yaml:"manager_id"`
}

type taskRecord struct {
	ID                 string   `yaml:"id" validate:"required"`
	Title              string   `yaml:"title" validate:"required"`
	Description        string   `yaml:"description"`
	DepartmentID       string   `yaml:"department_id"`
	AssignedEmployeeID string   `yaml:"assigned_employee_id" validate:"required"`
	RequiredSkills     []string `yaml:"required_skills"`
	Priority           string   `yaml:"priority" validate:"required,oneof=low medium high critical"`
	StartDate          string   `yaml:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate            string   `yaml:"end_date" validate:"required,datetime=2006-01-02"`
	Status             string   `yaml:"status" validate:"required,oneof=pending in-progress completed blocked"`
}

type requestRecord struct {
	ID           string `yaml:"id" validate:"required"`
	EmployeeID   string `yaml:"employee_id" validate:"required"`
	Type         string `yaml:"type" validate:"required"`
	StartDate    string `yaml:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string `yaml:"end_date" validate:"required,datetime=2006-01-02"`
	Reason       string `yaml:"reason"`
	Status       string `yaml:"status" validate:"required"`
	SubmittedAt  string `yaml:"submitted_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ReviewedAt   string `yaml:"reviewed_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ReviewedBy   string `yaml:"reviewed_by"`
	ManagerNotes string `yaml:"manager_notes"`
}

type balanceRecord struct {
	EmployeeID   string `yaml:"employee_id" validate:"required"`
	Year         int    `yaml:"year" validate:"required"`
	VacationDays int    `yaml:"vacation_days" validate:"min=0"`
	SickDays     int    `yaml:"sick_days" validate:"min=0"`
	PersonalDays int    `yaml:"personal_days" validate:"min=0"`
	UsedVacation int    `yaml:"used_vacation" validate:"min=0"`
	UsedSick     int    `yaml:"used_sick" validate:"min=0"`
	UsedPersonal int    `yaml:"used_personal" validate:"min=0"`
}

type policyRecord struct {
	ID                 string   `yaml:"id" validate:"required"`
	Name               string   `yaml:"name" validate:"required"`
	Department         string   `yaml:"department"`
	MinLevel           string   `yaml:"min_level" validate:"omitempty,oneof=junior mid senior lead"`
	MaxConsecutiveDays int      `yaml:"max_consecutive_days" validate:"min=0"`
	AdvanceNoticeDays  int      `yaml:"advance_notice_days" validate:"min=0"`
	BlackoutPeriods    []string `yaml:"blackout_periods"`
}

// Parse reads a YAML fixture document and returns the dataset it describes.
// Top-level keys are departments, employees, tasks, requests, balances and
// policies; all are optional. Each record is validated and any failure is
// reported as a *errors.ParseError carrying the record's line number.
// Employee names are copied onto requests that reference a known employee.
func Parse(r io.Reader) (models.Dataset, error) {
	start := time.Now()
	defer func() {
		metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return models.Dataset{}, nil
		}
		metrics.ParserErrorsTotal.WithLabelValues("yaml").Inc()
		return models.Dataset{}, fmt.Errorf("error decoding fixtures: %w", err)
	}
	if len(doc.Content) == 0 {
		return models.Dataset{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		metrics.ParserErrorsTotal.WithLabelValues("yaml").Inc()
		return models.Dataset{}, &customerrors.ParseError{
			Source: SourceFixtures,
			Line:   root.Line,
			Err:    fmt.Errorf("%w: top level must be a mapping", customerrors.ErrInvalidRecord),
		}
	}

	var ds models.Dataset
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]
		var err error
		switch key {
		case "departments":
			ds.Departments, err = decodeSection(key, value, toDepartment)
		case "employees":
			ds.Employees, err = decodeSection(key, value, toEmployee)
		case "tasks":
			ds.Tasks, err = decodeSection(key, value, toTask)
		case "requests":
			ds.Requests, err = decodeSection(key, value, toRequest)
		case "balances":
			ds.Balances, err = decodeSection(key, value, toBalance)
		case "policies":
			ds.Policies, err = decodeSection(key, value, toPolicy)
		default:
			// Unknown sections are ignored so fixtures can carry extra metadata.
			continue
		}
		if err != nil {
			return models.Dataset{}, err
		}
	}

	AttachEmployeeNames(&ds)
	return ds, nil
}

// AttachEmployeeNames copies employee display names onto requests.
func AttachEmployeeNames(ds *models.Dataset) {
	for i := range ds.Requests {
		if e, ok := ds.EmployeeByID(ds.Requests[i].EmployeeID); ok {
			ds.Requests[i].EmployeeName = e.Name
		}
	}
}

type identified interface {
	recordID() string
}

func (r departmentRecord) recordID() string { return r.ID }
func (r employeeRecord) recordID() string   { return r.ID }
func (r taskRecord) recordID() string       { return r.ID }
func (r requestRecord) recordID() string    { return r.ID }
func (r balanceRecord) recordID() string    { return fmt.Sprintf("%s/%d", r.EmployeeID, r.Year) }
func (r policyRecord) recordID() string     { return r.ID }

// decodeSection decodes, validates and converts one fixture collection.
func decodeSection[R identified, M any](section string, node *yaml.Node, convert func(R) (M, error)) ([]M, error) {
	if node.Kind != yaml.SequenceNode {
		metrics.ParserErrorsTotal.WithLabelValues("yaml").Inc()
		return nil, &customerrors.ParseError{
			Source: SourceFixtures,
			Line:   node.Line,
			Err:    fmt.Errorf("%w: %s must be a list", customerrors.ErrInvalidRecord, section),
		}
	}

	out := make([]M, 0, len(node.Content))
	seen := make(map[string]bool, len(node.Content))
	for _, item := range node.Content {
		var rec R
		if err := item.Decode(&rec); err != nil {
			metrics.ParserErrorsTotal.WithLabelValues("yaml").Inc()
			return nil, &customerrors.ParseError{Source: SourceFixtures, Line: item.Line, Err: err}
		}
		if err := validate.Struct(rec); err != nil {
			metrics.ParserErrorsTotal.WithLabelValues("validation").Inc()
			return nil, &customerrors.ParseError{
				Source: SourceFixtures,
				Line:   item.Line,
				Err:    fmt.Errorf("%w: %s: %s", customerrors.ErrInvalidRecord, section, describeValidation(err)),
			}
		}
		id := rec.recordID()
		if seen[id] {
			metrics.ParserErrorsTotal.WithLabelValues("duplicate").Inc()
			return nil, &customerrors.ParseError{
				Source: SourceFixtures,
				Line:   item.Line,
				Err:    fmt.Errorf("%w: %s %q", customerrors.ErrDuplicateID, section, id),
			}
		}
		seen[id] = true

		m, err := convert(rec)
		if err != nil {
			metrics.ParserErrorsTotal.WithLabelValues("conversion").Inc()
			return nil, &customerrors.ParseError{Source: SourceFixtures, Line: item.Line, Err: err}
		}
		out = append(out, m)
	}
	metrics.ParserRecordsTotal.WithLabelValues(section).Add(float64(len(out)))
	return out, nil
}

// describeValidation renders the first failing field, e.g. "role must be one of [employee manager]".
func describeValidation(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err.Error()
	}
	e := errs[0]
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param())
	case "datetime":
		return fmt.Sprintf("%s must match %s", e.Field(), e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

func toDepartment(r departmentRecord) (models.Department, error) {
	return models.Department{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		ManagerID:        r.ManagerID,
		MinStaffingLevel: r.MinStaffingLevel,
		CriticalSkills:   r.CriticalSkills,
	}, nil
}

func toEmployee(r employeeRecord) (models.Employee, error) {
	e := models.Employee{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Department: r.Department,
		Role:       models.Role(r.Role),
		JobTitle:   r.JobTitle,
		Skills:     r.Skills,
		Level:      models.Level(r.Level),
	}
	if r.ManagerID != "" {
		id := r.ManagerID
		e.ManagerID = &id
	}
	return e, nil
}

func toTask(r taskRecord) (models.Task, error) {
	period, err := parseRange(r.StartDate, r.EndDate)
	if err != nil {
		return models.Task{}, err
	}
	return models.Task{
		ID:                 r.ID,
		Title:              r.Title,
		Description:        r.Description,
		DepartmentID:       r.DepartmentID,
		AssignedEmployeeID: r.AssignedEmployeeID,
		RequiredSkills:     r.RequiredSkills,
		Priority:           models.Priority(r.Priority),
		Period:             period,
		Status:             models.TaskStatus(r.Status),
	}, nil
}

func toRequest(r requestRecord) (models.LeaveRequest, error) {
	return buildRequest(r.ID, r.EmployeeID, r.Type, r.StartDate, r.EndDate, r.Status, r.Reason,
		r.SubmittedAt, r.ReviewedAt, r.ReviewedBy, r.ManagerNotes)
}

func toBalance(r balanceRecord) (models.Balance, error) {
	return models.Balance(r), nil
}

func toPolicy(r policyRecord) (models.Policy, error) {
	p := models.Policy{
		ID:                 r.ID,
		Name:               r.Name,
		Department:         r.Department,
		MinLevel:           models.Level(r.MinLevel),
		MaxConsecutiveDays: r.MaxConsecutiveDays,
		AdvanceNoticeDays:  r.AdvanceNoticeDays,
	}
	for _, raw := range r.BlackoutPeriods {
		period, err := ParseBlackout(raw)
		if err != nil {
			return models.Policy{}, err
		}
		p.BlackoutPeriods = append(p.BlackoutPeriods, period)
	}
	return p, nil
}

// ParseBlackout parses a blackout period written as "2025-12-20 to 2025-12-31".
// A single date is a one-day blackout.
func ParseBlackout(v string) (models.DateRange, error) {
	start, end, found := strings.Cut(strings.TrimSpace(v), " to ")
	if !found {
		end = start
	}
	return parseRange(strings.TrimSpace(start), strings.TrimSpace(end))
}

func buildRequest(id, employeeID, leaveType, startDate, endDate, status, reason, submittedAt, reviewedAt, reviewedBy, notes string) (models.LeaveRequest, error) {
	lt := models.LeaveType(strings.ToLower(leaveType))
	if !lt.Valid() {
		return models.LeaveRequest{}, fmt.Errorf("%w: %q", customerrors.ErrInvalidLeaveType, leaveType)
	}
	st := models.RequestStatus(strings.ToLower(status))
	if !st.Valid() {
		return models.LeaveRequest{}, fmt.Errorf("%w: %q", customerrors.ErrInvalidStatus, status)
	}
	period, err := parseRange(startDate, endDate)
	if err != nil {
		return models.LeaveRequest{}, err
	}

	req := models.LeaveRequest{
		ID:           id,
		EmployeeID:   employeeID,
		Type:         lt,
		Period:       period,
		Reason:       reason,
		Status:       st,
		ReviewedBy:   reviewedBy,
		ManagerNotes: notes,
	}
	if submittedAt != "" {
		req.SubmittedAt, err = time.Parse(time.RFC3339, submittedAt)
		if err != nil {
			return models.LeaveRequest{}, fmt.Errorf("%w: %v", customerrors.ErrInvalidTimestamp, err)
		}
	}
	if reviewedAt != "" {
		at, err := time.Parse(time.RFC3339, reviewedAt)
		if err != nil {
			return models.LeaveRequest{}, fmt.Errorf("%w: %v", customerrors.ErrInvalidTimestamp, err)
		}
		req.ReviewedAt = &at
	}
	return req, nil
}

func parseRange(start, end string) (models.DateRange, error) {
	period, err := models.NewDateRange(start, end)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("%w: %v", customerrors.ErrInvalidDate, err)
	}
	if !period.Valid() {
		return models.DateRange{}, fmt.Errorf("%w: %s", customerrors.ErrInvalidDateRange, period)
	}
	return period, nil
}
