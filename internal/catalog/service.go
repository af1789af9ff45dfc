package catalog

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/audit"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	serviceDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/service"
	"github.com/frahmantamala/company-management/internal/user"
	"github.com/google/uuid"
)

var ErrDuplicate = stdErrors.New("duplicate service")

type RepositoryAPI interface {
	GetByID(ctx context.Context, id string) (*serviceDatamodel.Service, error)
	GetByName(ctx context.Context, companyID, name string) (*serviceDatamodel.Service, error)
	ListByCompany(ctx context.Context, companyID string) ([]*serviceDatamodel.Service, error)
	// ListActiveByIDs returns the active services among ids.
	ListActiveByIDs(ctx context.Context, ids []string) ([]*serviceDatamodel.Service, error)
	Create(ctx context.Context, s *serviceDatamodel.Service) error
	AssignToCompany(ctx context.Context, ids []string, companyID string) error
	WithinTransaction(ctx context.Context, fn func(repo RepositoryAPI, auditor audit.Writer) error) error
}

type CompanyReaderAPI interface {
	GetByID(ctx context.Context, id string) (*companyDatamodel.Company, error)
}

type AuthorizerAPI interface {
	EnsureCompanyAccess(ctx context.Context, actor *user.User, companyID string) error
}

type Service struct {
	repo       RepositoryAPI
	companies  CompanyReaderAPI
	authorizer AuthorizerAPI
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, companies CompanyReaderAPI, authorizer AuthorizerAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		companies:  companies,
		authorizer: authorizer,
		logger:     logger,
	}
}

var (
	errInvalidCompany = errors.NewValidationError("Invalid or inactive company ID", errors.ErrCodeCompanyNotFound)
	errDuplicateName  = errors.NewConflictError("Service with this name already exists in the company", errors.ErrCodeDuplicateName)
	errInvalidIDs     = errors.NewValidationError("One or more service IDs are invalid or inactive", errors.ErrCodeServiceNotFound)
)

func (s *Service) Create(ctx context.Context, actor *user.User, dto CreateServiceDTO) (*Offering, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.activeCompany(ctx, dto.CompanyID); err != nil {
		return nil, err
	}

	companyID := dto.CompanyID
	row := &serviceDatamodel.Service{
		ID:          uuid.NewString(),
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price.Round(2),
		CompanyID:   &companyID,
		IsActive:    true,
	}

	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI, auditor audit.Writer) error {
		existing, err := repo.GetByName(ctx, dto.CompanyID, dto.Name)
		if err != nil {
			return err
		}
		if existing != nil {
			return errDuplicateName
		}
		if err := repo.Create(ctx, row); err != nil {
			return err
		}
		return auditor.Record(ctx, audit.Entry{
			Action:      audit.ActionCreate,
			Table:       row.TableName(),
			RecordID:    row.ID,
			NewData:     FromDataModel(row),
			Description: "Service created",
			CompanyID:   companyID,
			UserID:      actor.ID,
		})
	})
	if err != nil {
		return nil, s.txError(ctx, "failed to create service", err)
	}

	s.logger.InfoContext(ctx, "service created", "service_id", row.ID, "company_id", companyID, "created_by", actor.ID)
	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context, actor *user.User, companyID string) ([]*Offering, error) {
	if companyID == "" {
		return nil, errors.NewValidationFieldError("companyId", "Company ID is required", errors.ErrCodeValidationFailed)
	}
	if err := s.activeCompany(ctx, companyID); err != nil {
		return nil, err
	}
	if err := s.authorizer.EnsureCompanyAccess(ctx, actor, companyID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list services", "company_id", companyID, "error", err)
		return nil, errors.NewInternalError("failed to fetch services", err)
	}

	services := make([]*Offering, 0, len(rows))
	for _, row := range rows {
		services = append(services, FromDataModel(row))
	}
	return services, nil
}

// Assign gives the company ownership of the listed services. A service owned
// by another company is never taken over; the whole request fails instead.
func (s *Service) Assign(ctx context.Context, actor *user.User, dto AssignServicesDTO) ([]*Offering, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.activeCompany(ctx, dto.CompanyID); err != nil {
		return nil, err
	}
	if err := s.authorizer.EnsureCompanyAccess(ctx, actor, dto.CompanyID); err != nil {
		return nil, err
	}

	var assigned []*serviceDatamodel.Service
	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI, auditor audit.Writer) error {
		rows, err := repo.ListActiveByIDs(ctx, dto.ServiceIDs)
		if err != nil {
			return err
		}
		if len(rows) != len(dto.ServiceIDs) {
			return errInvalidIDs
		}

		var taken []string
		for _, row := range rows {
			if OwnedByOther(row, dto.CompanyID) {
				taken = append(taken, row.Name)
			}
		}
		if len(taken) > 0 {
			return errors.NewConflictError(
				fmt.Sprintf("Services %s are already assigned to another company", strings.Join(taken, ", ")),
				errors.ErrCodeAlreadyAssigned)
		}

		if err := repo.AssignToCompany(ctx, dto.ServiceIDs, dto.CompanyID); err != nil {
			return err
		}

		for _, row := range rows {
			companyID := dto.CompanyID
			if err := auditor.Record(ctx, audit.Entry{
				Action:      audit.ActionUpdate,
				Table:       row.TableName(),
				RecordID:    row.ID,
				OldData:     map[string]interface{}{"companyId": row.CompanyID},
				NewData:     map[string]interface{}{"companyId": companyID},
				Description: "Service assigned to company",
				CompanyID:   companyID,
				UserID:      actor.ID,
			}); err != nil {
				return err
			}
			row.CompanyID = &companyID
		}
		assigned = rows
		return nil
	})
	if err != nil {
		return nil, s.txError(ctx, "failed to assign services", err)
	}

	s.logger.InfoContext(ctx, "services assigned",
		"company_id", dto.CompanyID, "count", len(assigned), "assigned_by", actor.ID)

	services := make([]*Offering, 0, len(assigned))
	for _, row := range assigned {
		services = append(services, FromDataModel(row))
	}
	return services, nil
}

func (s *Service) activeCompany(ctx context.Context, companyID string) error {
	c, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return errors.NewInternalError("failed to load company", err)
	}
	if c == nil || !c.IsActive {
		return errInvalidCompany
	}
	return nil
}

func (s *Service) txError(ctx context.Context, msg string, err error) error {
	if stdErrors.Is(err, ErrDuplicate) {
		return errDuplicateName
	}
	if _, ok := errors.IsAppError(err); ok {
		return err
	}
	s.logger.ErrorContext(ctx, msg, "error", err)
	return errors.NewInternalError(msg, err)
}
