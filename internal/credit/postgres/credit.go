package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/company-management/internal/audit"
	auditpg "github.com/frahmantamala/company-management/internal/audit/postgres"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	creditDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/credit"
	"github.com/frahmantamala/company-management/internal/credit"
	"gorm.io/gorm"
)

type CreditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

func (r *CreditRepository) WithinTransaction(ctx context.Context, fn func(repo credit.RepositoryAPI, auditor audit.Writer) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CreditRepository{db: tx}, auditpg.NewWriter(tx))
	})
}

func (r *CreditRepository) RechargeExists(ctx context.Context, transactionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&creditDatamodel.CreditsRecharge{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error
	return count > 0, err
}

func (r *CreditRepository) CreateRecharge(ctx context.Context, rc *creditDatamodel.CreditsRecharge) error {
	err := r.db.WithContext(ctx).Create(rc).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return credit.ErrDuplicate
	}
	return err
}

func (r *CreditRepository) AddCredits(ctx context.Context, companyID string, credits int64) error {
	return r.db.WithContext(ctx).
		Model(&companyDatamodel.Company{}).
		Where("id = ?", companyID).
		Update("total_credits", gorm.Expr("total_credits + ?", credits)).Error
}

// DebitCredits is a single conditional UPDATE. Concurrent debits serialise on
// the row lock and the WHERE clause re-checks the balance after waiting.
func (r *CreditRepository) DebitCredits(ctx context.Context, companyID string, credits int64) error {
	res := r.db.WithContext(ctx).
		Model(&companyDatamodel.Company{}).
		Where("id = ? AND total_credits >= ?", companyID, credits).
		Updates(map[string]interface{}{
			"total_credits": gorm.Expr("total_credits - ?", credits),
			"used_credits":  gorm.Expr("used_credits + ?", credits),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return credit.ErrInsufficientBalance
	}
	return nil
}

func (r *CreditRepository) CreateUsage(ctx context.Context, u *creditDatamodel.TransactionHistory) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *CreditRepository) GetBalance(ctx context.Context, companyID string) (*credit.Balance, error) {
	var c companyDatamodel.Company
	err := r.db.WithContext(ctx).
		Select("id", "total_credits", "used_credits").
		Where("id = ?", companyID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &credit.Balance{CompanyID: c.ID, TotalCredits: c.TotalCredits, UsedCredits: c.UsedCredits}, nil
}

func (r *CreditRepository) ListRecharges(ctx context.Context, companyID string) ([]*creditDatamodel.CreditsRecharge, error) {
	var rows []*creditDatamodel.CreditsRecharge
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *CreditRepository) ListUsages(ctx context.Context, companyID string) ([]*creditDatamodel.TransactionHistory, error) {
	var rows []*creditDatamodel.TransactionHistory
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
