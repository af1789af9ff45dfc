package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/company-management/internal/audit"
	auditpg "github.com/frahmantamala/company-management/internal/audit/postgres"
	"github.com/frahmantamala/company-management/internal/company"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) WithinTransaction(ctx context.Context, fn func(repo company.RepositoryAPI, auditor audit.Writer) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CompanyRepository{db: tx}, auditpg.NewWriter(tx))
	})
}

func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*companyDatamodel.Company, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CompanyRepository) GetByName(ctx context.Context, name string) (*companyDatamodel.Company, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *CompanyRepository) first(ctx context.Context, query string, args ...interface{}) (*companyDatamodel.Company, error) {
	var c companyDatamodel.Company
	err := r.db.WithContext(ctx).Where(query, args...).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CompanyRepository) ListActive(ctx context.Context, ids []string) ([]*companyDatamodel.Company, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if ids != nil {
		q = q.Where("id IN ?", ids)
	}

	var companies []*companyDatamodel.Company
	err := q.Order("name ASC").Find(&companies).Error
	return companies, err
}

func (r *CompanyRepository) Create(ctx context.Context, c *companyDatamodel.Company) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CompanyRepository) GetMembership(ctx context.Context, userID, companyID string) (*userDatamodel.UserCompany, error) {
	var m userDatamodel.UserCompany
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *CompanyRepository) CreateMembership(ctx context.Context, m *userDatamodel.UserCompany) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return company.ErrDuplicate
	}
	return err
}
