package catalog

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
	Create(ctx context.Context, actor *user.User, dto CreateServiceDTO) (*Offering, error)
	List(ctx context.Context, actor *user.User, companyID string) ([]*Offering, error)
	Assign(ctx context.Context, actor *user.User, dto AssignServicesDTO) ([]*Offering, error)
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

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleError(w, r, errors.NewUnauthorizedError("User not authenticated", errors.ErrCodeMissingToken))
	}
	return actor, ok
}

// Create handles POST /api/services
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto CreateServiceDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	svc, err := h.Service.Create(r.Context(), actor, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Service created successfully", svc)
}

// List handles GET /api/services
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	services, err := h.Service.List(r.Context(), actor, r.URL.Query().Get("companyId"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Services retrieved successfully", services)
}

// Assign handles PUT /api/services/assign
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto AssignServicesDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	services, err := h.Service.Assign(r.Context(), actor, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Services assigned successfully", services)
}
