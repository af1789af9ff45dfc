package audit

import "time"

// AuditLog rows are append-only.
type AuditLog struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(36)" db:"id"`
	Action      string    `gorm:"column:action;not null" db:"action"`
	Table       string    `gorm:"column:table_name;not null;index" db:"table_name"`
	RecordID    string    `gorm:"column:record_id;not null;index" db:"record_id"`
	OldData     *string   `gorm:"column:old_data" db:"old_data"`
	NewData     *string   `gorm:"column:new_data" db:"new_data"`
	Description *string   `gorm:"column:description" db:"description"`
	IPAddress   *string   `gorm:"column:ip_address" db:"ip_address"`
	UserAgent   *string   `gorm:"column:user_agent" db:"user_agent"`
	CompanyID   *string   `gorm:"column:company_id;index" db:"company_id"`
	UserID      *string   `gorm:"column:user_id" db:"user_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" db:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
