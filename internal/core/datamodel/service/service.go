package service

import (
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	ID          string          `gorm:"column:id;primaryKey;type:varchar(36)"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CompanyID   *string         `gorm:"column:company_id;index"`
	IsActive    bool            `gorm:"column:is_active;not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Service) TableName() string { return "services" }
