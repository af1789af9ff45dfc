package user

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/company-management/internal"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByIdentityID(ctx context.Context, identityID string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Count(ctx context.Context) (int64, error)
	CreateWithMembership(ctx context.Context, u *userDatamodel.User, membership *userDatamodel.UserCompany) error
	Touch(ctx context.Context, id string) error
	ListMemberships(ctx context.Context, userID string) ([]Membership, error)
	// ListActive returns active users with one of the roles (all roles when
	// empty) that belong to one of companyIDs. A nil companyIDs means every
	// company.
	ListActive(ctx context.Context, roles []Role, companyIDs []string) ([]*userDatamodel.User, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetProfile loads a user with their company memberships.
func (s *Service) GetProfile(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load user", "user_id", userID, "error", err)
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return nil, errors.ErrUserNotFound
	}

	memberships, err := s.repo.ListMemberships(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user companies", err)
	}

	return FromDataModelWithMemberships(u, memberships), nil
}

// ListUsers returns every active user for a super admin, and otherwise the
// active users sharing a company with the actor.
func (s *Service) ListUsers(ctx context.Context, actor *User) ([]*User, error) {
	return s.list(ctx, actor, nil)
}

func (s *Service) ListAdmins(ctx context.Context, actor *User) ([]*User, error) {
	return s.list(ctx, actor, []Role{RoleSuperAdmin, RoleAdmin})
}

func (s *Service) ListDirectors(ctx context.Context, actor *User) ([]*User, error) {
	return s.list(ctx, actor, []Role{RoleDirector})
}

func (s *Service) ListManagers(ctx context.Context, actor *User) ([]*User, error) {
	return s.list(ctx, actor, []Role{RoleManager})
}

func (s *Service) list(ctx context.Context, actor *User, roles []Role) ([]*User, error) {
	var companyIDs []string
	if !actor.IsSuperAdmin() {
		companyIDs = actor.CompanyIDs()
		if len(companyIDs) == 0 {
			return nil, errors.ErrNotAssociated
		}
	}

	rows, err := s.repo.ListActive(ctx, roles, companyIDs)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list users", "actor_id", actor.ID, "error", err)
		return nil, errors.NewInternalError("failed to fetch users", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}
