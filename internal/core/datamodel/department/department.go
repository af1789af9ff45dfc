package department

import "time"

type Department struct {
	ID           string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Name         string    `gorm:"column:name;not null;uniqueIndex:idx_department_company_name"`
	Description  *string   `gorm:"column:description"`
	CompanyID    string    `gorm:"column:company_id;not null;uniqueIndex:idx_department_company_name"`
	HeadOfDeptID *string   `gorm:"column:head_of_dept_id"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string { return "departments" }
