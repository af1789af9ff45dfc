package company

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/auth"
	"github.com/frahmantamala/company-management/internal/transport"
	"github.com/frahmantamala/company-management/internal/user"
	"github.com/frahmantamala/company-management/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *user.User, dto CreateCompanyDTO) (*Company, error)
	List(ctx context.Context, actor *user.User) ([]*Company, error)
	AssignUser(ctx context.Context, actor *user.User, dto AssignUserDTO) (*Assignment, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

// Create handles POST /api/companies
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleError(w, r, errors.NewUnauthorizedError("User not authenticated", errors.ErrCodeMissingToken))
		return
	}

	var dto CreateCompanyDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	c, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Company created successfully", c)
}

// List handles GET /api/companies
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleError(w, r, errors.NewUnauthorizedError("User not authenticated", errors.ErrCodeMissingToken))
		return
	}

	companies, err := h.Service.List(r.Context(), actor)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", companies)
}

// Assign handles POST /api/companies/assign
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleError(w, r, errors.NewUnauthorizedError("User not authenticated", errors.ErrCodeMissingToken))
		return
	}

	var dto AssignUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	assignment, err := h.Service.AssignUser(r.Context(), actor, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Company assigned to user successfully", assignment)
}
