package identity

import "time"

type Account struct {
	ID           string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	DisplayName  string    `gorm:"column:display_name"`
	CustomClaims *string   `gorm:"column:custom_claims"`
	Disabled     bool      `gorm:"column:disabled;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Account) TableName() string { return "identity_accounts" }
