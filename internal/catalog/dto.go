package catalog

import (
	"strings"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type CreateServiceDTO struct {
	Name        string           `json:"name"`
	CompanyID   string           `json:"companyId"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price"`
}

func (d *CreateServiceDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" || d.CompanyID == "" || d.Price == nil {
		return errors.NewValidationError("Service name, company ID, and price are required", errors.ErrCodeValidationFailed)
	}
	v := validation.NewValidator()
	v.Field("price", d.Price).NonNegative()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type AssignServicesDTO struct {
	CompanyID  string   `json:"companyId"`
	ServiceIDs []string `json:"serviceIds"`
}

// Validate drops duplicate ids so the lookup count compares like for like.
func (d *AssignServicesDTO) Validate() error {
	if d.CompanyID == "" || len(d.ServiceIDs) == 0 {
		return errors.NewValidationError("Company ID and a non-empty array of service IDs are required", errors.ErrCodeValidationFailed)
	}

	seen := make(map[string]struct{}, len(d.ServiceIDs))
	ids := d.ServiceIDs[:0]
	for _, id := range d.ServiceIDs {
		if id == "" {
			return errors.NewValidationFieldError("serviceIds", "Service IDs cannot be empty", errors.ErrCodeInvalidInput)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	d.ServiceIDs = ids
	return nil
}
