package audit

import (
	"context"
	"net/http"
	"strconv"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/auth"
	"github.com/frahmantamala/company-management/internal/transport"
	"github.com/frahmantamala/company-management/internal/user"
	"github.com/frahmantamala/company-management/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, actor *user.User, filter Filter) ([]Log, error)
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

// List handles GET /api/audit-logs
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleError(w, r, errors.NewUnauthorizedError("User not authenticated", errors.ErrCodeMissingToken))
		return
	}

	q := r.URL.Query()
	filter := Filter{
		CompanyID: q.Get("companyId"),
		Table:     q.Get("tableName"),
		RecordID:  q.Get("recordId"),
	}

	var err error
	if filter.Limit, err = parseUint(q.Get("limit")); err != nil {
		h.HandleError(w, r, errors.NewValidationFieldError("limit", "limit must be a positive number", errors.ErrCodeInvalidInput))
		return
	}
	if filter.Offset, err = parseUint(q.Get("offset")); err != nil {
		h.HandleError(w, r, errors.NewValidationFieldError("offset", "offset must be a positive number", errors.ErrCodeInvalidInput))
		return
	}

	logs, err := h.Service.List(r.Context(), actor, filter)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", logs)
}

// parseUint accepts values up to math.MaxInt64, the largest LIMIT or OFFSET
// PostgreSQL takes.
func parseUint(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 63)
}
