package api

import (
	"pto-advisor/models"
)

// CreateRequestBody is the payload for submitting a leave request.
type CreateRequestBody struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Type       string `json:"type" binding:"required,oneof=vacation sick personal"`
	StartDate  string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" binding:"required,datetime=2006-01-02"`
	Reason     string `json:"reason" binding:"max=500"`
}

// ReviewBody is the payload for approving or denying a request.
type ReviewBody struct {
	Reviewer string `json:"reviewer"`
	Notes    string `json:"notes" binding:"max=1000"`
}

// EmployeeBody is the payload for creating or updating an employee.
type EmployeeBody struct {
	Name       string   `json:"name" binding:"required,max=200"`
	Email      string   `json:"email" binding:"omitempty,email"`
	Department string   `json:"department" binding:"required"`
	Role       string   `json:"role" binding:"required,oneof=employee manager"`
	JobTitle   string   `json:"job_title"`
	Skills     []string `json:"skills" binding:"dive,required"`
	Level      string   `json:"level" binding:"required,oneof=junior mid senior lead"`
	ManagerID  *string  `json:"manager_id"`
}

func (b EmployeeBody) toModel(id string) models.Employee {
	e := models.Employee{
		ID:         id,
		Name:       b.Name,
		Email:      b.Email,
		Department: b.Department,
		Role:       models.Role(b.Role),
		JobTitle:   b.JobTitle,
		Skills:     b.Skills,
		Level:      models.Level(b.Level),
	}
	if b.ManagerID != nil && *b.ManagerID != "" {
		mid := *b.ManagerID
		e.ManagerID = &mid
	}
	if e.Skills == nil {
		e.Skills = []string{}
	}
	return e
}

// AssistantBody is a free-text question for the assistant.
type AssistantBody struct {
	Message string `json:"message" binding:"required"`
}
