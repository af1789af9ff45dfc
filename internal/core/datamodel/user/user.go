package user

import "time"

type User struct {
	ID            string     `gorm:"column:id;primaryKey;type:varchar(36)"`
	Email         string     `gorm:"column:email;uniqueIndex;not null"`
	FullName      string     `gorm:"column:full_name;not null"`
	Phone         *string    `gorm:"column:phone"`
	Role          string     `gorm:"column:role;not null"`
	EmployeeID    string     `gorm:"column:employee_id;uniqueIndex;not null"`
	Designation   *string    `gorm:"column:designation"`
	DepartmentID  *string    `gorm:"column:department_id;index"`
	ManagerID     *string    `gorm:"column:manager_id"`
	IdentityID    string     `gorm:"column:identity_id;uniqueIndex;not null"`
	DateOfJoining *time.Time `gorm:"column:date_of_joining"`
	IsActive      bool       `gorm:"column:is_active;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

// UserCompany is the membership join between a user and a company. The role
// is scoped to that company.
type UserCompany struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"column:user_id;not null;uniqueIndex:idx_user_company"`
	CompanyID string    `gorm:"column:company_id;not null;uniqueIndex:idx_user_company;index"`
	Role      string    `gorm:"column:role;not null"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	JoinedAt  time.Time `gorm:"column:joined_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserCompany) TableName() string { return "user_companies" }
