// Package testdb opens in-memory SQLite databases with the full schema and
// builds fixture rows for repository and service tests.
package testdb

import (
	"fmt"
	"time"

	errors "github.com/frahmantamala/company-management/internal"
	auditDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/audit"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	creditDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/credit"
	departmentDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/department"
	identityDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/identity"
	serviceDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/service"
	taskDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/task"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database. The pool is pinned to one connection so the
// in-memory schema lives as long as the handle.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&identityDatamodel.Account{},
		&companyDatamodel.Company{},
		&userDatamodel.User{},
		&userDatamodel.UserCompany{},
		&departmentDatamodel.Department{},
		&taskDatamodel.Task{},
		&serviceDatamodel.Service{},
		&creditDatamodel.CreditsRecharge{},
		&creditDatamodel.TransactionHistory{},
		&auditDatamodel.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

// MustOpen is Open for use inside Ginkgo setup nodes.
func MustOpen() *gorm.DB {
	db, err := Open()
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return db
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	ExpectWithOffset(1, sqlDB.Close()).To(Succeed())
}

// SQLX shares the gorm connection with sqlx.
func SQLX(db *gorm.DB) *sqlx.DB {
	sqlDB, err := db.DB()
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return sqlx.NewDb(sqlDB, "sqlite3")
}

// Fixtures inserts rows directly, bypassing services.
type Fixtures struct {
	DB  *gorm.DB
	seq int
}

func NewFixtures(db *gorm.DB) *Fixtures {
	return &Fixtures{DB: db}
}

func (f *Fixtures) next() int {
	f.seq++
	return f.seq
}

func (f *Fixtures) Company(name string, credits int64) *companyDatamodel.Company {
	c := &companyDatamodel.Company{
		ID:           uuid.NewString(),
		Name:         name,
		IsActive:     true,
		TotalCredits: credits,
	}
	ExpectWithOffset(1, f.DB.Create(c).Error).To(Succeed())
	return c
}

func (f *Fixtures) User(role string) *userDatamodel.User {
	n := f.next()
	now := time.Now()
	u := &userDatamodel.User{
		ID:            uuid.NewString(),
		Email:         fmt.Sprintf("user%d@example.com", n),
		FullName:      fmt.Sprintf("User %d", n),
		Role:          role,
		EmployeeID:    fmt.Sprintf("EMP%04d", n),
		IdentityID:    uuid.NewString(),
		DateOfJoining: &now,
		IsActive:      true,
	}
	ExpectWithOffset(1, f.DB.Create(u).Error).To(Succeed())
	return u
}

// Member creates a user and adds it to the companies with the same role.
func (f *Fixtures) Member(role string, companies ...*companyDatamodel.Company) *userDatamodel.User {
	u := f.User(role)
	for _, c := range companies {
		ExpectWithOffset(1, f.DB.Create(&userDatamodel.UserCompany{
			ID:        uuid.NewString(),
			UserID:    u.ID,
			CompanyID: c.ID,
			Role:      role,
			IsActive:  true,
			JoinedAt:  time.Now(),
		}).Error).To(Succeed())
	}
	return u
}

func (f *Fixtures) Department(companyID, name string, headID *string) *departmentDatamodel.Department {
	d := &departmentDatamodel.Department{
		ID:           uuid.NewString(),
		Name:         name,
		CompanyID:    companyID,
		HeadOfDeptID: headID,
		IsActive:     true,
	}
	ExpectWithOffset(1, f.DB.Create(d).Error).To(Succeed())
	return d
}

func (f *Fixtures) Task(companyID, createdBy string, assignee *string) *taskDatamodel.Task {
	t := &taskDatamodel.Task{
		ID:           uuid.NewString(),
		Title:        fmt.Sprintf("Task %d", f.next()),
		Status:       "TODO",
		Priority:     "MEDIUM",
		CompanyID:    companyID,
		AssignedToID: assignee,
		CreatedByID:  createdBy,
		IsActive:     true,
	}
	ExpectWithOffset(1, f.DB.Create(t).Error).To(Succeed())
	return t
}

func (f *Fixtures) Service(name string, companyID *string, price string) *serviceDatamodel.Service {
	s := &serviceDatamodel.Service{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		CompanyID: companyID,
		IsActive:  true,
	}
	ExpectWithOffset(1, f.DB.Create(s).Error).To(Succeed())
	return s
}

func (f *Fixtures) Reload(dst interface{}, id string) {
	ExpectWithOffset(1, f.DB.Where("id = ?", id).First(dst).Error).To(Succeed())
}

func (f *Fixtures) Count(model interface{}) int64 {
	var n int64
	ExpectWithOffset(1, f.DB.Model(model).Count(&n).Error).To(Succeed())
	return n
}

// Status is the HTTP status an error maps to, or 0 for non-AppErrors.
func Status(err error) int {
	if appErr, ok := errors.IsAppError(err); ok {
		return appErr.StatusCode
	}
	return 0
}
