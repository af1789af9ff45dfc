package department

import (
	"context"
	stdErrors "errors"
	"log/slog"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/audit"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	departmentDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/frahmantamala/company-management/internal/user"
	"github.com/google/uuid"
)

var ErrDuplicate = stdErrors.New("duplicate department")

type RepositoryAPI interface {
	GetByID(ctx context.Context, id string) (*departmentDatamodel.Department, error)
	GetByName(ctx context.Context, companyID, name string) (*departmentDatamodel.Department, error)
	// ListActive returns active departments of the given companies, or of
	// every company when companyIDs is nil.
	ListActive(ctx context.Context, companyIDs []string) ([]*departmentDatamodel.Department, error)
	Create(ctx context.Context, d *departmentDatamodel.Department) error
	UpdateHead(ctx context.Context, departmentID string, headID string) error
	SetUserDepartment(ctx context.Context, userID, departmentID string) error
	WithinTransaction(ctx context.Context, fn func(repo RepositoryAPI, auditor audit.Writer) error) error
}

type CompanyReaderAPI interface {
	GetByID(ctx context.Context, id string) (*companyDatamodel.Company, error)
}

type UserReaderAPI interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
}

type AuthorizerAPI interface {
	EnsureCompanyAccess(ctx context.Context, actor *user.User, companyID string) error
	ScopeToCompany(ctx context.Context, actor *user.User, companyID string) ([]string, error)
	IsMember(ctx context.Context, userID, companyID string) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	companies  CompanyReaderAPI
	users      UserReaderAPI
	authorizer AuthorizerAPI
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, companies CompanyReaderAPI, users UserReaderAPI, authorizer AuthorizerAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		companies:  companies,
		users:      users,
		authorizer: authorizer,
		logger:     logger,
	}
}

var (
	errInvalidCompany    = errors.NewValidationError("Invalid or inactive company ID", errors.ErrCodeCompanyNotFound)
	errInvalidHead       = errors.NewValidationError("Invalid or inactive head of department user ID", errors.ErrCodeUserNotFound)
	errHeadNotMember     = errors.NewValidationError("Head of department is not associated with this company", errors.ErrCodeNotMember)
	errDuplicateName     = errors.NewConflictError("Department with this name already exists in the company", errors.ErrCodeDuplicateName)
	errInvalidUser       = errors.NewValidationError("Invalid or inactive user ID", errors.ErrCodeUserNotFound)
	errInvalidDepartment = errors.NewValidationError("Invalid or inactive department ID", errors.ErrCodeDepartmentNotFound)
	errWrongCompany      = errors.NewValidationError("Department does not belong to the specified company", errors.ErrCodeBusinessRule)
	errTargetNotMember   = errors.NewValidationError("Target user is not associated with this company", errors.ErrCodeNotMember)
)

func (s *Service) Create(ctx context.Context, actor *user.User, dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.activeCompany(ctx, dto.CompanyID); err != nil {
		return nil, err
	}
	if err := s.authorizer.EnsureCompanyAccess(ctx, actor, dto.CompanyID); err != nil {
		return nil, err
	}
	if dto.HeadOfDeptID != nil {
		if err := s.validateHead(ctx, *dto.HeadOfDeptID, dto.CompanyID); err != nil {
			return nil, err
		}
	}

	row := &departmentDatamodel.Department{
		ID:           uuid.NewString(),
		Name:         dto.Name,
		Description:  dto.Description,
		CompanyID:    dto.CompanyID,
		HeadOfDeptID: dto.HeadOfDeptID,
		IsActive:     true,
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
			Description: "Department created",
			CompanyID:   row.CompanyID,
			UserID:      actor.ID,
		})
	})
	if err != nil {
		return nil, s.txError(ctx, "failed to create department", err)
	}

	s.logger.InfoContext(ctx, "department created",
		"department_id", row.ID, "company_id", row.CompanyID, "created_by", actor.ID)
	return FromDataModel(row), nil
}

// List scopes departments to the actor's companies. An actor that ends up
// with nothing to see is treated as not associated with any company.
func (s *Service) List(ctx context.Context, actor *user.User, companyID string) ([]*Department, error) {
	if companyID != "" && actor.IsSuperAdmin() {
		if err := s.activeCompany(ctx, companyID); err != nil {
			return nil, err
		}
	}

	companyIDs, err := s.authorizer.ScopeToCompany(ctx, actor, companyID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListActive(ctx, companyIDs)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list departments", "actor_id", actor.ID, "error", err)
		return nil, errors.NewInternalError("failed to fetch departments", err)
	}

	if len(rows) == 0 && !actor.IsSuperAdmin() {
		return nil, errors.ErrNotAssociated
	}

	departments := make([]*Department, 0, len(rows))
	for _, row := range rows {
		departments = append(departments, FromDataModel(row))
	}
	return departments, nil
}

// AssignUser moves a user into a department of a company they belong to.
func (s *Service) AssignUser(ctx context.Context, actor *user.User, dto AssignUserDTO) (*UserAssignment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(ctx, dto.UserID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if target == nil || !target.IsActive {
		return nil, errInvalidUser
	}

	dept, err := s.repo.GetByID(ctx, dto.DepartmentID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load department", err)
	}
	if dept == nil || !dept.IsActive {
		return nil, errInvalidDepartment
	}

	if err := s.activeCompany(ctx, dto.CompanyID); err != nil {
		return nil, err
	}
	if dept.CompanyID != dto.CompanyID {
		return nil, errWrongCompany
	}

	if err := s.authorizer.EnsureCompanyAccess(ctx, actor, dto.CompanyID); err != nil {
		return nil, err
	}
	member, err := s.authorizer.IsMember(ctx, target.ID, dto.CompanyID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, errTargetNotMember
	}

	result := &UserAssignment{
		UserID:               target.ID,
		DepartmentID:         dept.ID,
		PreviousDepartmentID: target.DepartmentID,
		CompanyID:            dto.CompanyID,
	}

	err = s.repo.WithinTransaction(ctx, func(repo RepositoryAPI, auditor audit.Writer) error {
		if err := repo.SetUserDepartment(ctx, target.ID, dept.ID); err != nil {
			return err
		}
		return auditor.Record(ctx, audit.Entry{
			Action:      audit.ActionUpdate,
			Table:       userDatamodel.User{}.TableName(),
			RecordID:    target.ID,
			OldData:     map[string]interface{}{"departmentId": target.DepartmentID},
			NewData:     map[string]interface{}{"departmentId": dept.ID},
			Description: "User department updated",
			CompanyID:   dto.CompanyID,
			UserID:      actor.ID,
		})
	})
	if err != nil {
		return nil, s.txError(ctx, "failed to update user department", err)
	}

	s.logger.InfoContext(ctx, "user department updated",
		"user_id", target.ID, "department_id", dept.ID, "updated_by", actor.ID)
	return result, nil
}

// SetHead names the head of a department. Tasks assigned to the department
// go to this user.
func (s *Service) SetHead(ctx context.Context, actor *user.User, departmentID string, dto SetHeadDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dept, err := s.repo.GetByID(ctx, departmentID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load department", err)
	}
	if dept == nil || !dept.IsActive {
		return nil, errors.ErrDepartmentNotFound
	}

	if err := s.authorizer.EnsureCompanyAccess(ctx, actor, dept.CompanyID); err != nil {
		return nil, err
	}
	if err := s.validateHead(ctx, dto.UserID, dept.CompanyID); err != nil {
		return nil, err
	}

	previous := dept.HeadOfDeptID
	err = s.repo.WithinTransaction(ctx, func(repo RepositoryAPI, auditor audit.Writer) error {
		if err := repo.UpdateHead(ctx, dept.ID, dto.UserID); err != nil {
			return err
		}
		return auditor.Record(ctx, audit.Entry{
			Action:      audit.ActionUpdate,
			Table:       dept.TableName(),
			RecordID:    dept.ID,
			OldData:     map[string]interface{}{"headOfDeptId": previous},
			NewData:     map[string]interface{}{"headOfDeptId": dto.UserID},
			Description: "Department head updated",
			CompanyID:   dept.CompanyID,
			UserID:      actor.ID,
		})
	})
	if err != nil {
		return nil, s.txError(ctx, "failed to update department head", err)
	}

	head := dto.UserID
	dept.HeadOfDeptID = &head
	return FromDataModel(dept), nil
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

func (s *Service) validateHead(ctx context.Context, headID, companyID string) error {
	head, err := s.users.GetByID(ctx, headID)
	if err != nil {
		return errors.NewInternalError("failed to load user", err)
	}
	if head == nil || !head.IsActive {
		return errInvalidHead
	}

	member, err := s.authorizer.IsMember(ctx, headID, companyID)
	if err != nil {
		return err
	}
	if !member {
		return errHeadNotMember
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
