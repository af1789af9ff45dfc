package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	errors "github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/auth"
	"github.com/frahmantamala/company-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubAuthService struct {
	user *user.User
	err  error
}

func (s *stubAuthService) Authenticate(_ context.Context, idToken string) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubAuthService) Register(context.Context, auth.RegisterDTO) (*user.User, error) {
	return s.user, s.err
}

func (s *stubAuthService) VerifyToken(context.Context, auth.TokenDTO) (*user.User, error) {
	return s.user, s.err
}

func (s *stubAuthService) Login(context.Context, auth.LoginDTO) (*auth.LoginResult, error) {
	return &auth.LoginResult{User: s.user}, s.err
}

var _ = Describe("Auth Handler", func() {
	var (
		stub    *stubAuthService
		handler *auth.Handler
		reached *user.User
		next    http.Handler
	)

	BeforeEach(func() {
		stub = &stubAuthService{user: &user.User{ID: "user-1", Email: "jane@example.com", Role: user.RoleManager}}
		handler = auth.NewHandler(stub)
		reached = nil
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached, _ = auth.UserFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})
	})

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.AuthMiddleware(next).ServeHTTP(rec, req)
		return rec
	}

	decode := func(rec *httptest.ResponseRecorder) errors.Response {
		var body errors.Response
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	It("rejects a request without a bearer token", func() {
		rec := serve("")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(decode(rec).Success).To(BeFalse())
		Expect(reached).To(BeNil())
	})

	It("rejects a non bearer scheme", func() {
		rec := serve("Basic abc")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("reports an expired token", func() {
		stub.err = errors.ErrTokenExpired
		rec := serve("Bearer expired")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(decode(rec).Error).To(Equal(errors.ErrTokenExpired.Message))
	})

	It("maps an inactive user to its status", func() {
		stub.err = errors.ErrUserInactive
		rec := serve("Bearer token")
		Expect(rec.Code).To(Equal(errors.ErrUserInactive.StatusCode))
	})

	It("attaches the authenticated user", func() {
		rec := serve("Bearer token")
		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(reached).NotTo(BeNil())
		Expect(reached.ID).To(Equal("user-1"))
	})

	It("returns the current user from Me", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req = req.WithContext(auth.ContextWithUser(req.Context(), stub.user))
		rec := httptest.NewRecorder()

		handler.Me(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		var body struct {
			Success bool       `json:"success"`
			Data    *user.User `json:"data"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Data.Email).To(Equal("jane@example.com"))
	})
})
