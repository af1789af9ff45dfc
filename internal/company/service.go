package company

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/audit"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/frahmantamala/company-management/internal/user"
	"github.com/google/uuid"
)

// ErrDuplicate is returned by repositories when a unique constraint fires.
var ErrDuplicate = stdErrors.New("duplicate record")

type RepositoryAPI interface {
	GetByID(ctx context.Context, id string) (*companyDatamodel.Company, error)
	GetByName(ctx context.Context, name string) (*companyDatamodel.Company, error)
	// ListActive returns active companies, restricted to ids unless ids is nil.
	ListActive(ctx context.Context, ids []string) ([]*companyDatamodel.Company, error)
	Create(ctx context.Context, c *companyDatamodel.Company) error
	GetMembership(ctx context.Context, userID, companyID string) (*userDatamodel.UserCompany, error)
	CreateMembership(ctx context.Context, m *userDatamodel.UserCompany) error
	WithinTransaction(ctx context.Context, fn func(repo RepositoryAPI, auditor audit.Writer) error) error
}

type UserReaderAPI interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
}

type CompanyScoper interface {
	AccessibleCompanyIDs(ctx context.Context, actor *user.User) ([]string, error)
}

type Service struct {
	repo   RepositoryAPI
	users  UserReaderAPI
	scoper CompanyScoper
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, users UserReaderAPI, scoper CompanyScoper, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		scoper: scoper,
		logger: logger,
	}
}

var errDuplicateName = errors.NewConflictError("Company with this name already exists", errors.ErrCodeDuplicateName)

// Create registers a new active company with an empty credit balance. The
// name check and insert share a transaction and the unique index backs it.
func (s *Service) Create(ctx context.Context, actor *user.User, dto CreateCompanyDTO) (*Company, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &companyDatamodel.Company{
		ID:        uuid.NewString(),
		Name:      dto.Name,
		Address:   dto.Address,
		Phone:     dto.Phone,
		Email:     dto.Email,
		Website:   dto.Website,
		Logo:      dto.Logo,
		Industry:  dto.Industry,
		GSTNumber: dto.GSTNumber,
		PANNumber: dto.PANNumber,
		Country:   dto.Country,
		IsActive:  true,
	}

	err := s.repo.WithinTransaction(ctx, func(repo RepositoryAPI, auditor audit.Writer) error {
		existing, err := repo.GetByName(ctx, dto.Name)
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
			Description: "Company created",
			CompanyID:   row.ID,
			UserID:      actor.ID,
		})
	})
	if err != nil {
		if stdErrors.Is(err, ErrDuplicate) {
			return nil, errDuplicateName
		}
		if _, ok := errors.IsAppError(err); ok {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to create company", "name", dto.Name, "error", err)
		return nil, errors.NewInternalError("failed to create company", err)
	}

	s.logger.InfoContext(ctx, "company created", "company_id", row.ID, "name", row.Name, "created_by", actor.ID)
	return FromDataModel(row), nil
}

// List returns every active company for a super admin and otherwise the
// active companies the actor belongs to.
func (s *Service) List(ctx context.Context, actor *user.User) ([]*Company, error) {
	ids, err := s.scoper.AccessibleCompanyIDs(ctx, actor)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListActive(ctx, ids)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list companies", "actor_id", actor.ID, "error", err)
		return nil, errors.NewInternalError("failed to fetch companies", err)
	}

	companies := make([]*Company, 0, len(rows))
	for _, row := range rows {
		companies = append(companies, FromDataModel(row))
	}
	return companies, nil
}

// AssignUser adds a membership for an active user in an active company.
func (s *Service) AssignUser(ctx context.Context, actor *user.User, dto AssignUserDTO) (*Assignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, dto.UserID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if u == nil || !u.IsActive {
		return nil, errors.NewNotFoundError("User not found or inactive", errors.ErrCodeUserNotFound)
	}

	c, err := s.repo.GetByID(ctx, dto.CompanyID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load company", err)
	}
	if c == nil || !c.IsActive {
		return nil, errors.NewNotFoundError("Company not found or inactive", errors.ErrCodeCompanyNotFound)
	}

	errAssigned := errors.NewConflictError("User is already assigned to this company", errors.ErrCodeAlreadyAssigned)

	membership := &userDatamodel.UserCompany{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		CompanyID: c.ID,
		Role:      string(dto.Role),
		IsActive:  true,
		JoinedAt:  time.Now(),
	}

	err = s.repo.WithinTransaction(ctx, func(repo RepositoryAPI, auditor audit.Writer) error {
		existing, err := repo.GetMembership(ctx, u.ID, c.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errAssigned
		}

		if err := repo.CreateMembership(ctx, membership); err != nil {
			return err
		}

		return auditor.Record(ctx, audit.Entry{
			Action:      audit.ActionCreate,
			Table:       membership.TableName(),
			RecordID:    membership.ID,
			NewData:     AssignmentFromDataModel(membership),
			Description: "User assigned to company",
			CompanyID:   c.ID,
			UserID:      actor.ID,
		})
	})
	if err != nil {
		if stdErrors.Is(err, ErrDuplicate) {
			return nil, errAssigned
		}
		if _, ok := errors.IsAppError(err); ok {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to assign user to company",
			"user_id", u.ID, "company_id", c.ID, "error", err)
		return nil, errors.NewInternalError("failed to assign company", err)
	}

	s.logger.InfoContext(ctx, "user assigned to company",
		"user_id", u.ID, "company_id", c.ID, "role", dto.Role, "assigned_by", actor.ID)
	return AssignmentFromDataModel(membership), nil
}
