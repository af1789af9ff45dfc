package credit

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/auth"
	"github.com/frahmantamala/company-management/internal/transport"
	"github.com/frahmantamala/company-management/internal/user"
	"github.com/frahmantamala/company-management/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ServiceAPI interface {
	Recharge(ctx context.Context, actor *user.User, dto RechargeDTO) (*RechargeResult, error)
	RecordUsage(ctx context.Context, actor *user.User, dto UsageDTO) (*UsageResult, error)
	Ledger(ctx context.Context, actor *user.User, companyID string) (*Ledger, error)
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

// Recharge handles POST /api/credits/recharge
func (h *Handler) Recharge(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto RechargeDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	result, err := h.Service.Recharge(r.Context(), actor, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Credits recharge created successfully", result)
}

// Usage handles POST /api/credits/usage
func (h *Handler) Usage(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto UsageDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	result, err := h.Service.RecordUsage(r.Context(), actor, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Transaction history created successfully", result)
}

// Transactions handles GET /api/credits/transactions
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	ledger, err := h.Service.Ledger(r.Context(), actor, r.URL.Query().Get("companyId"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", ledger)
}

// Export handles GET /api/credits/export. The workbook is rendered into a
// buffer first so a failure can still produce a JSON error.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	ledger, err := h.Service.Ledger(r.Context(), actor, r.URL.Query().Get("companyId"))
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, ledger); err != nil {
		h.HandleError(w, r, errors.NewInternalError("failed to export credit ledger", err))
		return
	}

	filename := fmt.Sprintf("credits-%s-%s.xlsx", ledger.CompanyID, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.ErrorContext(r.Context(), "failed to write export", "error", err)
	}
}
