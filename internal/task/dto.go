package task

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/core/common/validation"
)

type CreateTaskDTO struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	CompanyID      string     `json:"companyId"`
	AssignedToID   *string    `json:"assignedToId,omitempty"`
	DepartmentID   *string    `json:"departmentId,omitempty"`
	Priority       Priority   `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty" validate:"omitempty,gte=0"`
}

func (d *CreateTaskDTO) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" || d.CompanyID == "" {
		return errors.NewValidationError("Title and company ID are required", errors.ErrCodeValidationFailed)
	}
	if appErr := validation.Struct(d); appErr != nil {
		return appErr
	}

	v := validation.NewValidator()
	v.Field("dueDate", d.DueDate).Custom(func(interface{}) *errors.AppError {
		if d.StartDate != nil && d.DueDate != nil && d.DueDate.Before(*d.StartDate) {
			return errors.NewValidationFieldError("dueDate", "Due date cannot be before start date", errors.ErrCodeInvalidInput)
		}
		return nil
	})
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if d.DepartmentID != nil && *d.DepartmentID == "" {
		d.DepartmentID = nil
	}
	if d.AssignedToID != nil && *d.AssignedToID == "" {
		d.AssignedToID = nil
	}
	return nil
}

type AssignUserDTO struct {
	TaskID    string `json:"taskId"`
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
}

func (d AssignUserDTO) Validate() error {
	if d.TaskID == "" || d.UserID == "" || d.CompanyID == "" {
		return errors.NewValidationError("Task ID, user ID, and company ID are required", errors.ErrCodeValidationFailed)
	}
	return nil
}

type AssignDepartmentDTO struct {
	TaskID       string `json:"taskId"`
	DepartmentID string `json:"departmentId"`
	CompanyID    string `json:"companyId"`
}

func (d AssignDepartmentDTO) Validate() error {
	if d.TaskID == "" || d.DepartmentID == "" || d.CompanyID == "" {
		return errors.NewValidationError("Task ID, department ID, and company ID are required", errors.ErrCodeValidationFailed)
	}
	return nil
}
