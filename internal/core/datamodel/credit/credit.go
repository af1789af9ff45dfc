package credit

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreditsRecharge struct {
	ID            string          `gorm:"column:id;primaryKey;type:varchar(36)"`
	CompanyID     string          `gorm:"column:company_id;not null;index"`
	Credits       int64           `gorm:"column:credits;not null"`
	AmountPaid    decimal.Decimal `gorm:"column:amount_paid;type:numeric(12,2);not null"`
	TransactionID *string         `gorm:"column:transaction_id;uniqueIndex"`
	PaymentMethod string          `gorm:"column:payment_method;not null"`
	PaymentStatus string          `gorm:"column:payment_status;not null"`
	PurchasedByID string          `gorm:"column:purchased_by_id;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (CreditsRecharge) TableName() string { return "credits_recharges" }

type TransactionHistory struct {
	ID               string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	CompanyID        string    `gorm:"column:company_id;not null;index"`
	ServiceID        *string   `gorm:"column:service_id"`
	CreditsUsed      int64     `gorm:"column:credits_used;not null"`
	NumberOfDaysUsed *int      `gorm:"column:number_of_days_used"`
	Description      *string   `gorm:"column:description"`
	EnabledByID      string    `gorm:"column:enabled_by_id;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (TransactionHistory) TableName() string { return "transaction_histories" }
