package department

import (
	"time"

	departmentDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/department"
)

type Department struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	CompanyID    string    `json:"companyId"`
	HeadOfDeptID *string   `json:"headOfDeptId,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (d *Department) HasHead() bool {
	return d.HeadOfDeptID != nil && *d.HeadOfDeptID != ""
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	if d == nil {
		return nil
	}
	return &Department{
		ID:           d.ID,
		Name:         d.Name,
		Description:  d.Description,
		CompanyID:    d.CompanyID,
		HeadOfDeptID: d.HeadOfDeptID,
		IsActive:     d.IsActive,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// UserAssignment is the response of moving a user into a department.
type UserAssignment struct {
	UserID               string  `json:"userId"`
	DepartmentID         string  `json:"departmentId"`
	PreviousDepartmentID *string `json:"previousDepartmentId,omitempty"`
	CompanyID            string  `json:"companyId"`
}
