package department

import (
	"strings"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/core/common/validation"
)

type CreateDepartmentDTO struct {
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	CompanyID    string  `json:"companyId"`
	HeadOfDeptID *string `json:"headOfDeptId,omitempty"`
}

func (d *CreateDepartmentDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" || d.CompanyID == "" {
		return errors.NewValidationError("Department name and company ID are required", errors.ErrCodeValidationFailed)
	}
	if d.HeadOfDeptID != nil && *d.HeadOfDeptID == "" {
		d.HeadOfDeptID = nil
	}
	return nil
}

type AssignUserDTO struct {
	UserID       string `json:"userId"`
	DepartmentID string `json:"departmentId"`
	CompanyID    string `json:"companyId"`
}

func (d AssignUserDTO) Validate() error {
	if d.UserID == "" || d.DepartmentID == "" || d.CompanyID == "" {
		return errors.NewValidationError("User ID, department ID, and company ID are required", errors.ErrCodeValidationFailed)
	}
	return nil
}

type SetHeadDTO struct {
	UserID string `json:"userId"`
}

func (d SetHeadDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("userId", d.UserID).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
