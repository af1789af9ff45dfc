package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/company-management/internal/audit"
	auditpg "github.com/frahmantamala/company-management/internal/audit/postgres"
	"github.com/frahmantamala/company-management/internal/catalog"
	serviceDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/service"
	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) WithinTransaction(ctx context.Context, fn func(repo catalog.RepositoryAPI, auditor audit.Writer) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ServiceRepository{db: tx}, auditpg.NewWriter(tx))
	})
}

func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*serviceDatamodel.Service, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ServiceRepository) GetByName(ctx context.Context, companyID, name string) (*serviceDatamodel.Service, error) {
	return r.first(ctx, "company_id = ? AND name = ?", companyID, name)
}

func (r *ServiceRepository) first(ctx context.Context, query string, args ...interface{}) (*serviceDatamodel.Service, error) {
	var s serviceDatamodel.Service
	err := r.db.WithContext(ctx).Where(query, args...).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) ListByCompany(ctx context.Context, companyID string) ([]*serviceDatamodel.Service, error) {
	var services []*serviceDatamodel.Service
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_active = ?", companyID, true).
		Order("created_at DESC").
		Find(&services).Error
	return services, err
}

func (r *ServiceRepository) ListActiveByIDs(ctx context.Context, ids []string) ([]*serviceDatamodel.Service, error) {
	var services []*serviceDatamodel.Service
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Order("name ASC").
		Find(&services).Error
	return services, err
}

func (r *ServiceRepository) Create(ctx context.Context, s *serviceDatamodel.Service) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return catalog.ErrDuplicate
	}
	return err
}

// AssignToCompany only touches rows that are unowned or already owned by the
// company, so a concurrent assignment elsewhere cannot be overwritten.
func (r *ServiceRepository) AssignToCompany(ctx context.Context, ids []string, companyID string) error {
	res := r.db.WithContext(ctx).
		Model(&serviceDatamodel.Service{}).
		Where("id IN ? AND (company_id IS NULL OR company_id = ?)", ids, companyID).
		Update("company_id", companyID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return errors.New("services changed owner during assignment")
	}
	return nil
}
