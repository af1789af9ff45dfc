package task

import "time"

type Task struct {
	ID             string     `gorm:"column:id;primaryKey;type:varchar(36)"`
	Title          string     `gorm:"column:title;not null"`
	Description    *string    `gorm:"column:description"`
	Status         string     `gorm:"column:status;not null"`
	Priority       string     `gorm:"column:priority;not null"`
	StartDate      *time.Time `gorm:"column:start_date"`
	DueDate        *time.Time `gorm:"column:due_date"`
	EstimatedHours *float64   `gorm:"column:estimated_hours"`
	CompanyID      string     `gorm:"column:company_id;not null;index"`
	DepartmentID   *string    `gorm:"column:department_id"`
	AssignedToID   *string    `gorm:"column:assigned_to_id;index"`
	CreatedByID    string     `gorm:"column:created_by_id;not null"`
	IsActive       bool       `gorm:"column:is_active;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Task) TableName() string { return "tasks" }
