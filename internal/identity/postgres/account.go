package postgres

import (
	"context"
	"errors"

	identityDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/identity"
	"github.com/frahmantamala/company-management/internal/identity"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) identity.RepositoryAPI {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *identityDatamodel.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*identityDatamodel.Account, error) {
	var account identityDatamodel.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*identityDatamodel.Account, error) {
	var account identityDatamodel.Account
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) UpdateClaims(ctx context.Context, id string, claims *string) error {
	return r.db.WithContext(ctx).
		Model(&identityDatamodel.Account{}).
		Where("id = ?", id).
		Update("custom_claims", claims).Error
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&identityDatamodel.Account{}).Error
}
