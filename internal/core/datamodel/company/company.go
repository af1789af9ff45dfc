package company

import "time"

type Company struct {
	ID           string    `gorm:"column:id;primaryKey;type:varchar(36)"`
	Name         string    `gorm:"column:name;uniqueIndex;not null"`
	Address      *string   `gorm:"column:address"`
	Phone        *string   `gorm:"column:phone"`
	Email        *string   `gorm:"column:email"`
	Website      *string   `gorm:"column:website"`
	Logo         *string   `gorm:"column:logo"`
	Industry     *string   `gorm:"column:industry"`
	GSTNumber    *string   `gorm:"column:gst_number"`
	PANNumber    *string   `gorm:"column:pan_number"`
	Country      *string   `gorm:"column:country"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	TotalCredits int64     `gorm:"column:total_credits;not null"`
	UsedCredits  int64     `gorm:"column:used_credits;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Company) TableName() string { return "companies" }
