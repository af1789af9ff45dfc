package audit

import (
	"context"
	"encoding/json"
	"math"
	"time"

	auditDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/audit"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Entry describes one mutation. OldData and NewData are stored as JSON.
type Entry struct {
	Action      Action
	Table       string
	RecordID    string
	OldData     interface{}
	NewData     interface{}
	Description string
	CompanyID   string
	UserID      string
}

// Writer appends entries. Repositories hand out a Writer bound to the
// transaction the mutation runs in.
type Writer interface {
	Record(ctx context.Context, entry Entry) error
}

type Log struct {
	ID          string          `json:"id"`
	Action      Action          `json:"action"`
	Table       string          `json:"tableName"`
	RecordID    string          `json:"recordId"`
	OldData     json.RawMessage `json:"oldData,omitempty"`
	NewData     json.RawMessage `json:"newData,omitempty"`
	Description *string         `json:"description,omitempty"`
	IPAddress   *string         `json:"ipAddress,omitempty"`
	UserAgent   *string         `json:"userAgent,omitempty"`
	CompanyID   *string         `json:"companyId,omitempty"`
	UserID      *string         `json:"userId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Filter struct {
	CompanyID string
	Table     string
	RecordID  string
	Limit     uint64
	Offset    uint64
}

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

func (f *Filter) Normalize() {
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset > math.MaxInt64 {
		f.Offset = math.MaxInt64
	}
}

func FromDataModel(row *auditDatamodel.AuditLog) Log {
	l := Log{
		ID:          row.ID,
		Action:      Action(row.Action),
		Table:       row.Table,
		RecordID:    row.RecordID,
		Description: row.Description,
		IPAddress:   row.IPAddress,
		UserAgent:   row.UserAgent,
		CompanyID:   row.CompanyID,
		UserID:      row.UserID,
		CreatedAt:   row.CreatedAt,
	}
	if row.OldData != nil {
		l.OldData = json.RawMessage(*row.OldData)
	}
	if row.NewData != nil {
		l.NewData = json.RawMessage(*row.NewData)
	}
	return l
}
