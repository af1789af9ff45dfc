package task

import (
	"time"

	taskDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/task"
)

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusOnHold     Status = "ON_HOLD"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	Status         Status     `json:"status"`
	Priority       Priority   `json:"priority"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty"`
	CompanyID      string     `json:"companyId"`
	DepartmentID   *string    `json:"departmentId,omitempty"`
	AssignedToID   *string    `json:"assignedToId,omitempty"`
	CreatedByID    string     `json:"createdById"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func FromDataModel(t *taskDatamodel.Task) *Task {
	if t == nil {
		return nil
	}
	return &Task{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         Status(t.Status),
		Priority:       Priority(t.Priority),
		StartDate:      t.StartDate,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		CompanyID:      t.CompanyID,
		DepartmentID:   t.DepartmentID,
		AssignedToID:   t.AssignedToID,
		CreatedByID:    t.CreatedByID,
		IsActive:       t.IsActive,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
