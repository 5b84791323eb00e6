package store

import (
	"context"
	"errors"
	"fmt"
	customerrors "pto-advisor/errors"
	"pto-advisor/models"
	"pto-advisor/observability"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// employeeInput is the validated shape of an employee command.
type employeeInput struct {
	Name       string   `validate:"required"`
	Email      string   `validate:"omitempty,email"`
	Department string   `validate:"required"`
	Role       string   `validate:"required,oneof=employee manager"`
	Level      string   `validate:"required,oneof=junior mid senior lead"`
	Skills     []string `validate:"dive,required"`
}

// AddEmployee stores a new employee under a freshly minted id.
func (s *Store) AddEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	if err := validateEmployee(e); err != nil {
		return models.Employee{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e = e.Clone()
	e.ID = s.newID()
	s.data.Employees = append(s.data.Employees, e)

	observability.LoggerFrom(ctx, s.logger).Info("add employee success",
		zap.String("employee_id", e.ID),
		zap.String("department", e.Department),
	)
	return e.Clone(), nil
}

// UpdateEmployee replaces the employee with the same id and refreshes the
// display name on their requests.
func (s *Store) UpdateEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	if err := validateEmployee(e); err != nil {
		return models.Employee{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Employees {
		if s.data.Employees[i].ID != e.ID {
			continue
		}
		s.data.Employees[i] = e.Clone()
		for j := range s.data.Requests {
			if s.data.Requests[j].EmployeeID == e.ID {
				s.data.Requests[j].EmployeeName = e.Name
			}
		}
		observability.LoggerFrom(ctx, s.logger).Info("update employee success", zap.String("employee_id", e.ID))
		return e.Clone(), nil
	}
	return models.Employee{}, customerrors.ErrEmployeeNotFound
}

// DeleteEmployee removes an employee. Their requests and tasks are kept and
// become dangling references, which the advisor treats as absent.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Employees {
		if s.data.Employees[i].ID == id {
			s.data.Employees = append(s.data.Employees[:i], s.data.Employees[i+1:]...)
			observability.LoggerFrom(ctx, s.logger).Info("delete employee success", zap.String("employee_id", id))
			return nil
		}
	}
	return customerrors.ErrEmployeeNotFound
}

func validateEmployee(e models.Employee) error {
	err := validate.Struct(employeeInput{
		Name:       strings.TrimSpace(e.Name),
		Email:      e.Email,
		Department: strings.TrimSpace(e.Department),
		Role:       string(e.Role),
		Level:      string(e.Level),
		Skills:     e.Skills,
	})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s: %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", customerrors.ErrInvalidRecord, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", customerrors.ErrInvalidRecord, err)
}
