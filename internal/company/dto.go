package company

import (
	"strings"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/core/common/validation"
	"github.com/frahmantamala/company-management/internal/user"
)

type CreateCompanyDTO struct {
	Name      string  `json:"name" validate:"required"`
	Address   *string `json:"address,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,app_email"`
	Website   *string `json:"website,omitempty"`
	Logo      *string `json:"logo,omitempty"`
	Industry  *string `json:"industry,omitempty"`
	GSTNumber *string `json:"gstNumber,omitempty"`
	PANNumber *string `json:"panNumber,omitempty"`
	Country   *string `json:"country,omitempty"`
}

func (d *CreateCompanyDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return errors.NewValidationFieldError("name", "Company name is required", errors.ErrCodeValidationFailed)
	}
	if appErr := validation.Struct(d); appErr != nil {
		return appErr
	}
	return nil
}

type AssignUserDTO struct {
	UserID    string    `json:"userId"`
	CompanyID string    `json:"companyId"`
	Role      user.Role `json:"role,omitempty"`
}

// Validate defaults an empty role to EMPLOYEE.
func (d *AssignUserDTO) Validate() error {
	if d.UserID == "" || d.CompanyID == "" {
		return errors.NewValidationError("userId and companyId are required", errors.ErrCodeValidationFailed)
	}
	if d.Role == "" {
		d.Role = user.RoleEmployee
	}
	if !d.Role.Valid() {
		return errors.NewValidationFieldError("role", "Invalid role provided", errors.ErrCodeInvalidRole)
	}
	return nil
}
