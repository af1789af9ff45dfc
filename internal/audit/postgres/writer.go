package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/audit"
	auditDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/audit"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Writer appends audit rows through whatever *gorm.DB it was built on, so a
// Writer created from a transaction commits or rolls back with it.
type Writer struct {
	db *gorm.DB
}

func NewWriter(db *gorm.DB) *Writer {
	return &Writer{db: db}
}

func (w *Writer) Record(ctx context.Context, entry audit.Entry) error {
	row := &auditDatamodel.AuditLog{
		ID:       uuid.NewString(),
		Action:   string(entry.Action),
		Table:    entry.Table,
		RecordID: entry.RecordID,
	}

	var err error
	if row.OldData, err = encode(entry.OldData); err != nil {
		return fmt.Errorf("encode audit old data: %w", err)
	}
	if row.NewData, err = encode(entry.NewData); err != nil {
		return fmt.Errorf("encode audit new data: %w", err)
	}

	row.Description = optional(entry.Description)
	row.CompanyID = optional(entry.CompanyID)
	row.UserID = optional(entry.UserID)

	info := internal.ClientInfoFromContext(ctx)
	row.IPAddress = optional(info.IPAddress)
	row.UserAgent = optional(info.UserAgent)

	return w.db.WithContext(ctx).Create(row).Error
}

func encode(v interface{}) (*string, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(raw)
	return &s, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
