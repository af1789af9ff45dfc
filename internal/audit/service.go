package audit

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/company-management/internal"
	auditDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/audit"
	"github.com/frahmantamala/company-management/internal/user"
)

type QueryRepositoryAPI interface {
	List(ctx context.Context, companyIDs []string, filter Filter) ([]*auditDatamodel.AuditLog, error)
}

type CompanyScoper interface {
	ScopeToCompany(ctx context.Context, actor *user.User, companyID string) ([]string, error)
}

type Service struct {
	repo   QueryRepositoryAPI
	scoper CompanyScoper
	logger *slog.Logger
}

func NewService(repo QueryRepositoryAPI, scoper CompanyScoper, logger *slog.Logger) *Service {
	return &Service{repo: repo, scoper: scoper, logger: logger}
}

func (s *Service) List(ctx context.Context, actor *user.User, filter Filter) ([]Log, error) {
	companyIDs, err := s.scoper.ScopeToCompany(ctx, actor, filter.CompanyID)
	if err != nil {
		return nil, err
	}
	filter.Normalize()

	rows, err := s.repo.List(ctx, companyIDs, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list audit logs", "error", err)
		return nil, errors.NewInternalError("failed to fetch audit logs", err)
	}

	logs := make([]Log, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, FromDataModel(row))
	}
	return logs, nil
}
