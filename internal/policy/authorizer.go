// Package policy holds the one place role and company membership rules are
// evaluated. Handlers use the middlewares for role gates and services call
// the Authorizer for company scoped checks.
package policy

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/user"
)

// MembershipReader is backed by the user_companies table.
type MembershipReader interface {
	IsActiveMember(ctx context.Context, userID, companyID string) (bool, error)
	ActiveCompanyIDs(ctx context.Context, userID string) ([]string, error)
}

type Authorizer struct {
	members MembershipReader
	logger  *slog.Logger
}

func NewAuthorizer(members MembershipReader, logger *slog.Logger) *Authorizer {
	return &Authorizer{
		members: members,
		logger:  logger,
	}
}

// EnsureCompanyAccess allows a super admin everywhere and any other actor
// only inside companies they hold an active membership in.
func (a *Authorizer) EnsureCompanyAccess(ctx context.Context, actor *user.User, companyID string) error {
	if actor == nil {
		return errors.NewUnauthorizedError("User not authenticated", errors.ErrCodeMissingToken)
	}
	if actor.IsSuperAdmin() {
		return nil
	}

	ok, err := a.members.IsActiveMember(ctx, actor.ID, companyID)
	if err != nil {
		a.logger.ErrorContext(ctx, "membership check failed", "user_id", actor.ID, "company_id", companyID, "error", err)
		return errors.NewInternalError("failed to check company membership", err)
	}
	if !ok {
		a.logger.WarnContext(ctx, "access denied: not a member of company",
			"user_id", actor.ID,
			"role", actor.Role,
			"company_id", companyID)
		return errors.ErrCompanyAccessDenied
	}
	return nil
}

// AccessibleCompanyIDs returns nil for a super admin, meaning every company,
// and otherwise the actor's active memberships. An actor without any
// membership is rejected.
func (a *Authorizer) AccessibleCompanyIDs(ctx context.Context, actor *user.User) ([]string, error) {
	if actor == nil {
		return nil, errors.NewUnauthorizedError("User not authenticated", errors.ErrCodeMissingToken)
	}
	if actor.IsSuperAdmin() {
		return nil, nil
	}

	ids, err := a.members.ActiveCompanyIDs(ctx, actor.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load company memberships", err)
	}
	if len(ids) == 0 {
		a.logger.WarnContext(ctx, "access denied: no company membership", "user_id", actor.ID)
		return nil, errors.ErrNotAssociated
	}
	return ids, nil
}

// ScopeToCompany narrows a listing to one company, or to everything the actor
// can see when companyID is empty. A nil result means no restriction.
func (a *Authorizer) ScopeToCompany(ctx context.Context, actor *user.User, companyID string) ([]string, error) {
	ids, err := a.AccessibleCompanyIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	if companyID == "" {
		return ids, nil
	}
	if ids == nil {
		return []string{companyID}, nil
	}
	for _, id := range ids {
		if id == companyID {
			return []string{companyID}, nil
		}
	}
	a.logger.WarnContext(ctx, "access denied: company filter outside memberships",
		"user_id", actor.ID, "company_id", companyID)
	return nil, errors.ErrCompanyAccessDenied
}

// IsMember checks a target user, not the actor. Callers report a missing
// membership as a bad request.
func (a *Authorizer) IsMember(ctx context.Context, userID, companyID string) (bool, error) {
	ok, err := a.members.IsActiveMember(ctx, userID, companyID)
	if err != nil {
		return false, errors.NewInternalError("failed to check company membership", err)
	}
	return ok, nil
}
