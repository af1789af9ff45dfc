package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
)

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleDirector   Role = "DIRECTOR"
	RoleManager    Role = "MANAGER"
	RoleEmployee   Role = "EMPLOYEE"
	RoleIntern     Role = "INTERN"
)

var AllRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleDirector, RoleManager, RoleEmployee, RoleIntern}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func RoleNames() []string {
	names := make([]string, len(AllRoles))
	for i, r := range AllRoles {
		names[i] = string(r)
	}
	return names
}

type User struct {
	ID            string       `json:"id"`
	Email         string       `json:"email"`
	FullName      string       `json:"fullName"`
	Phone         *string      `json:"phone,omitempty"`
	Role          Role         `json:"role"`
	EmployeeID    string       `json:"employeeId"`
	Designation   *string      `json:"designation,omitempty"`
	DepartmentID  *string      `json:"departmentId,omitempty"`
	ManagerID     *string      `json:"managerId,omitempty"`
	IdentityID    string       `json:"-"`
	DateOfJoining *time.Time   `json:"dateOfJoining,omitempty"`
	IsActive      bool         `json:"isActive"`
	Companies     []Membership `json:"companies,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// Membership is a user's role inside one company.
type Membership struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	CompanyName string    `json:"companyName,omitempty"`
	Role        Role      `json:"role"`
	IsActive    bool      `json:"isActive"`
	JoinedAt    time.Time `json:"joinedAt"`
}

func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role == RoleSuperAdmin
}

func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (u *User) CompanyIDs() []string {
	ids := make([]string, 0, len(u.Companies))
	for _, m := range u.Companies {
		if m.IsActive {
			ids = append(ids, m.CompanyID)
		}
	}
	return ids
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		Phone:         u.Phone,
		Role:          string(u.Role),
		EmployeeID:    u.EmployeeID,
		Designation:   u.Designation,
		DepartmentID:  u.DepartmentID,
		ManagerID:     u.ManagerID,
		IdentityID:    u.IdentityID,
		DateOfJoining: u.DateOfJoining,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		Phone:         u.Phone,
		Role:          Role(u.Role),
		EmployeeID:    u.EmployeeID,
		Designation:   u.Designation,
		DepartmentID:  u.DepartmentID,
		ManagerID:     u.ManagerID,
		IdentityID:    u.IdentityID,
		DateOfJoining: u.DateOfJoining,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func FromDataModelWithMemberships(u *userDatamodel.User, memberships []Membership) *User {
	domainUser := FromDataModel(u)
	if domainUser != nil {
		domainUser.Companies = memberships
	}
	return domainUser
}
