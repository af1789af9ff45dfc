package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/frahmantamala/company-management/internal/audit"
	auditDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/audit"
	"github.com/jmoiron/sqlx"
)

var auditColumns = []string{
	"id", "action", "table_name", "record_id",
	"CAST(old_data AS TEXT) AS old_data", "CAST(new_data AS TEXT) AS new_data",
	"description", "ip_address", "user_agent", "company_id", "user_id", "created_at",
}

// QueryRepository reads audit logs with squirrel built SQL over sqlx. Queries
// are written with ? placeholders and rebound for the connected driver.
type QueryRepository struct {
	db *sqlx.DB
}

func NewQueryRepository(db *sqlx.DB) *QueryRepository {
	return &QueryRepository{db: db}
}

func (r *QueryRepository) List(ctx context.Context, companyIDs []string, filter audit.Filter) ([]*auditDatamodel.AuditLog, error) {
	q := sq.Select(auditColumns...).
		From(auditDatamodel.AuditLog{}.TableName()).
		OrderBy("created_at DESC", "id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset)

	if companyIDs != nil {
		q = q.Where(sq.Eq{"company_id": companyIDs})
	}
	if filter.Table != "" {
		q = q.Where(sq.Eq{"table_name": filter.Table})
	}
	if filter.RecordID != "" {
		q = q.Where(sq.Eq{"record_id": filter.RecordID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build audit query: %w", err)
	}

	var rows []*auditDatamodel.AuditLog
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select audit logs: %w", err)
	}
	return rows, nil
}
