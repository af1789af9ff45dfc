package auth

import (
	"context"

	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	departmentDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/department"
	"gorm.io/gorm"
)

// DirectoryRepository answers existence checks against companies and
// departments during registration.
type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

func (r *DirectoryRepository) ActiveCompanyExists(ctx context.Context, companyID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&companyDatamodel.Company{}).
		Where("id = ? AND is_active = ?", companyID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *DirectoryRepository) DepartmentExists(ctx context.Context, departmentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&departmentDatamodel.Department{}).
		Where("id = ?", departmentID).
		Count(&count).Error
	return count > 0, err
}
