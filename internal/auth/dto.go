package auth

import (
	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/core/common/validation"
)

const minPasswordLength = 6

type RegisterDTO struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	FullName     string  `json:"fullName"`
	Phone        *string `json:"phone,omitempty"`
	Designation  *string `json:"designation,omitempty"`
	DepartmentID *string `json:"departmentId,omitempty"`
	CompanyID    *string `json:"companyId,omitempty"`
}

// Validate applies the registration rules in the order clients expect the
// messages: credentials first, then name, then formats.
func (d RegisterDTO) Validate() error {
	if d.Email == "" || d.Password == "" {
		return errors.NewValidationError("Email and password are required", errors.ErrCodeValidationFailed)
	}
	if d.FullName == "" {
		return errors.NewValidationError("Full name is required", errors.ErrCodeValidationFailed)
	}
	if !validation.IsEmail(d.Email) {
		return errors.NewValidationError("Invalid email format", errors.ErrCodeInvalidEmail)
	}
	if len(d.Password) < minPasswordLength {
		return errors.NewValidationError("Password must be at least 6 characters long", errors.ErrCodeWeakPassword)
	}
	return nil
}

type TokenDTO struct {
	IDToken string `json:"idToken"`
}

func (d TokenDTO) Validate() error {
	if d.IDToken == "" {
		return errors.NewValidationError("ID token is required", errors.ErrCodeValidationFailed)
	}
	return nil
}

// LoginDTO accepts either an ID token obtained from the identity provider or
// an email and password pair exchanged for one.
type LoginDTO struct {
	IDToken  string `json:"idToken,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

func (d LoginDTO) Validate() error {
	if d.IDToken != "" {
		return nil
	}
	if d.Email == "" || d.Password == "" {
		return errors.NewValidationError("ID token or email and password are required", errors.ErrCodeValidationFailed)
	}
	return nil
}
