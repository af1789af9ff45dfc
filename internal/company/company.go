package company

import (
	"time"

	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/frahmantamala/company-management/internal/user"
)

type Company struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      *string   `json:"address,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Website      *string   `json:"website,omitempty"`
	Logo         *string   `json:"logo,omitempty"`
	Industry     *string   `json:"industry,omitempty"`
	GSTNumber    *string   `json:"gstNumber,omitempty"`
	PANNumber    *string   `json:"panNumber,omitempty"`
	Country      *string   `json:"country,omitempty"`
	IsActive     bool      `json:"isActive"`
	TotalCredits int64     `json:"totalCredits"`
	UsedCredits  int64     `json:"usedCredits"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Assignment is a user's membership in a company as returned by the assign
// endpoint.
type Assignment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CompanyID string    `json:"companyId"`
	Role      user.Role `json:"role"`
	IsActive  bool      `json:"isActive"`
	JoinedAt  time.Time `json:"joinedAt"`
}

func FromDataModel(c *companyDatamodel.Company) *Company {
	if c == nil {
		return nil
	}
	return &Company{
		ID:           c.ID,
		Name:         c.Name,
		Address:      c.Address,
		Phone:        c.Phone,
		Email:        c.Email,
		Website:      c.Website,
		Logo:         c.Logo,
		Industry:     c.Industry,
		GSTNumber:    c.GSTNumber,
		PANNumber:    c.PANNumber,
		Country:      c.Country,
		IsActive:     c.IsActive,
		TotalCredits: c.TotalCredits,
		UsedCredits:  c.UsedCredits,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func AssignmentFromDataModel(m *userDatamodel.UserCompany) *Assignment {
	return &Assignment{
		ID:        m.ID,
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		Role:      user.Role(m.Role),
		IsActive:  m.IsActive,
		JoinedAt:  m.JoinedAt,
	}
}
