package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/company-management/internal"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/frahmantamala/company-management/internal/identity"
	"github.com/frahmantamala/company-management/internal/user"
	"github.com/google/uuid"
)

type UserRepositoryAPI interface {
	GetByIdentityID(ctx context.Context, identityID string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Count(ctx context.Context) (int64, error)
	CreateWithMembership(ctx context.Context, u *userDatamodel.User, membership *userDatamodel.UserCompany) error
	Touch(ctx context.Context, id string) error
	ListMemberships(ctx context.Context, userID string) ([]user.Membership, error)
}

// DirectoryAPI answers the reference checks registration needs.
type DirectoryAPI interface {
	ActiveCompanyExists(ctx context.Context, companyID string) (bool, error)
	DepartmentExists(ctx context.Context, departmentID string) (bool, error)
}

type Service struct {
	users     UserRepositoryAPI
	directory DirectoryAPI
	identity  identity.Provider
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(users UserRepositoryAPI, directory DirectoryAPI, provider identity.Provider, logger *slog.Logger) *Service {
	return &Service{
		users:     users,
		directory: directory,
		identity:  provider,
		logger:    logger,
		now:       time.Now,
	}
}

// Authenticate verifies an ID token and loads the active user it belongs to.
func (s *Service) Authenticate(ctx context.Context, idToken string) (*user.User, error) {
	claims, err := s.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	return s.loadUser(ctx, claims.UID())
}

func (s *Service) loadUser(ctx context.Context, identityID string) (*user.User, error) {
	row, err := s.users.GetByIdentityID(ctx, identityID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return nil, errors.ErrUserNotFound
	}
	if !row.IsActive {
		return nil, errors.ErrUserInactive
	}

	memberships, err := s.users.ListMemberships(ctx, row.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user companies", err)
	}
	return user.FromDataModelWithMemberships(row, memberships), nil
}

func mapTokenError(err error) error {
	switch {
	case stdErrors.Is(err, identity.ErrTokenExpired):
		return errors.ErrTokenExpired
	case stdErrors.Is(err, identity.ErrInvalidToken), stdErrors.Is(err, identity.ErrMalformedToken):
		return errors.ErrInvalidToken
	default:
		return errors.NewUnauthorizedError("Token verification failed", errors.ErrCodeVerificationFailed).WithCause(err)
	}
}

// Register creates the identity account and the user record. If the database
// write fails the identity account is deleted again so the two stores do not
// drift apart.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		return nil, errors.NewInternalError("failed to check existing user", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("User with this email already exists", errors.ErrCodeDuplicateEmail)
	}

	if dto.DepartmentID != nil && *dto.DepartmentID != "" {
		ok, err := s.directory.DepartmentExists(ctx, *dto.DepartmentID)
		if err != nil {
			return nil, errors.NewInternalError("failed to validate department", err)
		}
		if !ok {
			return nil, errors.NewValidationError("Invalid department ID", errors.ErrCodeInvalidInput)
		}
	}

	if dto.CompanyID != nil && *dto.CompanyID != "" {
		ok, err := s.directory.ActiveCompanyExists(ctx, *dto.CompanyID)
		if err != nil {
			return nil, errors.NewInternalError("failed to validate company", err)
		}
		if !ok {
			return nil, errors.NewValidationError("Invalid company ID", errors.ErrCodeInvalidInput)
		}
	}

	account, err := s.identity.CreateAccount(ctx, dto.Email, dto.Password, dto.FullName)
	if err != nil {
		return nil, mapIdentityError(err)
	}

	row, membership, err := s.newUserRows(ctx, dto, account.ID)
	if err == nil {
		err = s.users.CreateWithMembership(ctx, row, membership)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "user persistence failed, rolling back identity account",
			"identity_id", account.ID, "error", err)
		if delErr := s.identity.DeleteAccount(ctx, account.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to delete identity account after database error",
				"identity_id", account.ID, "error", delErr)
		}
		return nil, errors.NewInternalError("Failed to create user", err)
	}

	claims := map[string]any{
		"role":       string(user.RoleEmployee),
		"employeeId": row.EmployeeID,
	}
	if membership != nil {
		claims["companyId"] = membership.CompanyID
	}
	if err := s.identity.SetCustomClaims(ctx, account.ID, claims); err != nil {
		s.logger.WarnContext(ctx, "failed to set custom claims", "identity_id", account.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", row.ID, "employee_id", row.EmployeeID)

	memberships, err := s.users.ListMemberships(ctx, row.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user companies", err)
	}
	return user.FromDataModelWithMemberships(row, memberships), nil
}

func (s *Service) newUserRows(ctx context.Context, dto RegisterDTO, identityID string) (*userDatamodel.User, *userDatamodel.UserCompany, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("count users: %w", err)
	}

	now := s.now()
	row := &userDatamodel.User{
		ID:            uuid.NewString(),
		Email:         dto.Email,
		FullName:      dto.FullName,
		Phone:         dto.Phone,
		Role:          string(user.RoleEmployee),
		EmployeeID:    fmt.Sprintf("EMP%04d", count+1),
		Designation:   dto.Designation,
		IdentityID:    identityID,
		DateOfJoining: &now,
		IsActive:      true,
	}
	if dto.DepartmentID != nil && *dto.DepartmentID != "" {
		row.DepartmentID = dto.DepartmentID
	}

	var membership *userDatamodel.UserCompany
	if dto.CompanyID != nil && *dto.CompanyID != "" {
		membership = &userDatamodel.UserCompany{
			ID:        uuid.NewString(),
			CompanyID: *dto.CompanyID,
			Role:      string(user.RoleEmployee),
			IsActive:  true,
			JoinedAt:  now,
		}
	}
	return row, membership, nil
}

func mapIdentityError(err error) error {
	switch {
	case stdErrors.Is(err, identity.ErrEmailExists):
		return errors.NewConflictError("Email already exists", errors.ErrCodeDuplicateEmail)
	case stdErrors.Is(err, identity.ErrInvalidEmail):
		return errors.NewValidationError("Invalid email format", errors.ErrCodeInvalidEmail)
	case stdErrors.Is(err, identity.ErrWeakPassword):
		return errors.NewValidationError("Password should be at least 6 characters", errors.ErrCodeWeakPassword)
	default:
		return errors.NewExternalError("Failed to create identity account", err)
	}
}

func (s *Service) VerifyToken(ctx context.Context, dto TokenDTO) (*user.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return s.Authenticate(ctx, dto.IDToken)
}

// Login exchanges credentials for an ID token when needed, then verifies the
// token and records the login on the user.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	idToken := dto.IDToken
	if idToken == "" {
		token, err := s.identity.SignIn(ctx, dto.Email, dto.Password)
		if err != nil {
			if stdErrors.Is(err, identity.ErrInvalidCredentials) || stdErrors.Is(err, identity.ErrAccountDisabled) {
				return nil, errors.ErrInvalidCredentials
			}
			return nil, errors.NewExternalError("Failed to sign in", err)
		}
		idToken = token.IDToken
	}

	claims, err := s.identity.VerifyIDToken(ctx, idToken)
	if err != nil {
		if stdErrors.Is(err, identity.ErrMalformedToken) {
			return nil, errors.ErrMalformedToken
		}
		return nil, mapTokenError(err)
	}

	u, err := s.loadUser(ctx, claims.UID())
	if err != nil {
		return nil, err
	}

	if err := s.users.Touch(ctx, u.ID); err != nil {
		s.logger.WarnContext(ctx, "failed to record login", "user_id", u.ID, "error", err)
	}

	result := &LoginResult{User: u, Token: TokenInfo{IDToken: idToken}}
	if claims.ExpiresAt != nil {
		result.Token.ExpiresAt = claims.ExpiresAt.Time
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return result, nil
}
