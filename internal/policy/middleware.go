package policy

import (
	"net/http"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/auth"
	"github.com/frahmantamala/company-management/internal/transport"
	"github.com/frahmantamala/company-management/internal/user"
)

// Role sets shared by the route table.
var (
	SuperAdminOnly   = []user.Role{user.RoleSuperAdmin}
	Admins           = []user.Role{user.RoleSuperAdmin, user.RoleAdmin}
	Directors        = []user.Role{user.RoleSuperAdmin, user.RoleAdmin, user.RoleDirector}
	ManagersAndAbove = []user.Role{user.RoleSuperAdmin, user.RoleAdmin, user.RoleDirector, user.RoleManager}
)

type Middleware struct {
	*transport.BaseHandler
	authorizer *Authorizer
}

func NewMiddleware(authorizer *Authorizer) *Middleware {
	return &Middleware{
		BaseHandler: transport.NewBaseHandler(authorizer.logger),
		authorizer:  authorizer,
	}
}

// RequireRoles rejects actors whose global role is not listed.
func (m *Middleware) RequireRoles(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.UserFromContext(r.Context())
			if !ok {
				m.HandleError(w, r, errors.NewUnauthorizedError("User not authenticated", errors.ErrCodeMissingToken))
				return
			}

			if !actor.HasRole(roles...) {
				m.Logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", actor.ID,
					"role", actor.Role,
					"required_roles", roles)
				m.HandleError(w, r, errors.ErrInsufficientPermissions)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireMembership rejects actors without any active company membership.
// Super admins pass.
func (m *Middleware) RequireMembership() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.UserFromContext(r.Context())
			if !ok {
				m.HandleError(w, r, errors.NewUnauthorizedError("User not authenticated", errors.ErrCodeMissingToken))
				return
			}

			if _, err := m.authorizer.AccessibleCompanyIDs(r.Context(), actor); err != nil {
				m.HandleError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
