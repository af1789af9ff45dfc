package auth

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/transport"
	"github.com/frahmantamala/company-management/internal/user"
	"github.com/frahmantamala/company-management/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, idToken string) (*user.User, error)
	Register(ctx context.Context, dto RegisterDTO) (*user.User, error)
	VerifyToken(ctx context.Context, dto TokenDTO) (*user.User, error)
	Login(ctx context.Context, dto LoginDTO) (*LoginResult, error)
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

// Register handles POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	u, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "User registered successfully", u)
}

// VerifyToken handles POST /api/auth/verify-token
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var dto TokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	u, err := h.Service.VerifyToken(r.Context(), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Token verified successfully", u)
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Login successful", result)
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		h.HandleError(w, r, errors.NewUnauthorizedError("User not authenticated", errors.ErrCodeMissingToken))
		return
	}
	h.WriteSuccess(w, http.StatusOK, "", u)
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so the server
// only acknowledges; clients drop their session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if u, ok := UserFromContext(r.Context()); ok {
		h.Logger.InfoContext(r.Context(), "user logged out", "user_id", u.ID)
	}
	h.WriteSuccess(w, http.StatusOK, "Logout successful", nil)
}

// AuthMiddleware requires a valid bearer ID token and attaches the user it
// belongs to.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleError(w, r, errors.ErrMissingToken)
			return
		}

		u, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			h.HandleError(w, r, err)
			return
		}

		ctx := ContextWithUser(r.Context(), u)
		ctx = logger.Annotate(ctx, "user_id", u.ID, "role", string(u.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
