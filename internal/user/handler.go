package user

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/transport"
	"github.com/frahmantamala/company-management/pkg/logger"
)

type ServiceAPI interface {
	ListUsers(ctx context.Context, actor *User) ([]*User, error)
	ListAdmins(ctx context.Context, actor *User) ([]*User, error)
	ListDirectors(ctx context.Context, actor *User) ([]*User, error)
	ListManagers(ctx context.Context, actor *User) ([]*User, error)
}

// ActorFunc extracts the authenticated user from the request context. It is
// injected to keep this package free of an import on auth.
type ActorFunc func(ctx context.Context) (*User, bool)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	actor   ActorFunc
}

func NewHandler(svc ServiceAPI, actor ActorFunc) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
		actor:       actor,
	}
}

// List handles GET /api/users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.ListUsers)
}

// ListAdmins handles GET /api/users/admins
func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.ListAdmins)
}

// ListDirectors handles GET /api/users/directors
func (h *Handler) ListDirectors(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.ListDirectors)
}

// ListManagers handles GET /api/users/managers
func (h *Handler) ListManagers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.Service.ListManagers)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, fetch func(context.Context, *User) ([]*User, error)) {
	actor, ok := h.actor(r.Context())
	if !ok {
		h.HandleError(w, r, errors.NewUnauthorizedError("User not authenticated", errors.ErrCodeMissingToken))
		return
	}

	users, err := fetch(r.Context(), actor)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", users)
}
