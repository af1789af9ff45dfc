package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/company-management/internal/audit"
	auditpg "github.com/frahmantamala/company-management/internal/audit/postgres"
	departmentDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/frahmantamala/company-management/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) WithinTransaction(ctx context.Context, fn func(repo department.RepositoryAPI, auditor audit.Writer) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DepartmentRepository{db: tx}, auditpg.NewWriter(tx))
	})
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*departmentDatamodel.Department, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *DepartmentRepository) GetByName(ctx context.Context, companyID, name string) (*departmentDatamodel.Department, error) {
	return r.first(ctx, "company_id = ? AND name = ?", companyID, name)
}

func (r *DepartmentRepository) first(ctx context.Context, query string, args ...interface{}) (*departmentDatamodel.Department, error) {
	var d departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where(query, args...).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentRepository) ListActive(ctx context.Context, companyIDs []string) ([]*departmentDatamodel.Department, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if companyIDs != nil {
		q = q.Where("company_id IN ?", companyIDs)
	}

	var departments []*departmentDatamodel.Department
	err := q.Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) Create(ctx context.Context, d *departmentDatamodel.Department) error {
	err := r.db.WithContext(ctx).Create(d).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return department.ErrDuplicate
	}
	return err
}

func (r *DepartmentRepository) UpdateHead(ctx context.Context, departmentID string, headID string) error {
	return r.db.WithContext(ctx).
		Model(&departmentDatamodel.Department{}).
		Where("id = ?", departmentID).
		Update("head_of_dept_id", headID).Error
}

func (r *DepartmentRepository) SetUserDepartment(ctx context.Context, userID, departmentID string) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Update("department_id", departmentID).Error
}
