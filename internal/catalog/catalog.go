// Package catalog manages the billable services a company can consume
// credits on.
package catalog

import (
	"time"

	serviceDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/service"
	"github.com/shopspring/decimal"
)

// Offering is a billable service. An unowned offering has no CompanyID.
type Offering struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CompanyID   *string         `json:"companyId,omitempty"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// OwnedByOther reports whether the service already belongs to a company
// other than companyID.
func OwnedByOther(s *serviceDatamodel.Service, companyID string) bool {
	return s.CompanyID != nil && *s.CompanyID != "" && *s.CompanyID != companyID
}

func FromDataModel(s *serviceDatamodel.Service) *Offering {
	if s == nil {
		return nil
	}
	return &Offering{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		CompanyID:   s.CompanyID,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
