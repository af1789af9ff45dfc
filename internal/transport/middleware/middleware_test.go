package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/company-management/internal"
	"github.com/frahmantamala/company-management/internal/transport/middleware"
	"github.com/frahmantamala/company-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Middleware", func() {
	Describe("RequestID", func() {
		It("echoes a caller supplied trace id", func() {
			var seen string
			h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = middleware.TraceIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.TraceHeader, "trace-1")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Expect(seen).To(Equal("trace-1"))
			Expect(rec.Header().Get(middleware.TraceHeader)).To(Equal("trace-1"))
		})

		It("generates one when missing", func() {
			rec := httptest.NewRecorder()
			middleware.RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(rec.Header().Get(middleware.TraceHeader)).To(HaveLen(36))
		})
	})

	Describe("LoggingMiddleware", func() {
		var (
			out *bytes.Buffer
			lg  *slog.Logger
		)

		BeforeEach(func() {
			out = &bytes.Buffer{}
			lg = slog.New(slog.NewJSONHandler(out, nil))
		})

		entry := func() map[string]any {
			var m map[string]any
			Expect(json.Unmarshal(out.Bytes(), &m)).To(Succeed())
			return m
		}

		It("logs one line with the actor, company and a redacted body", func() {
			var received []byte
			h := middleware.RequestID(middleware.LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.Annotate(r.Context(), "user_id", "user-1")
				received, _ = io.ReadAll(r.Body)
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"success":true}`))
			})))

			payload := `{"email":"a@b.co","password":"hunter22","companyId":"company-1","token":{"idToken":"abc"}}`
			req := httptest.NewRequest(http.MethodPost, "/api/credits/usage", strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(middleware.TraceHeader, "trace-9")
			h.ServeHTTP(httptest.NewRecorder(), req)

			Expect(string(received)).To(Equal(payload))
			Expect(strings.Count(out.String(), "\n")).To(Equal(1))

			line := entry()
			Expect(line).To(HaveKeyWithValue("msg", "request completed"))
			Expect(line).To(HaveKeyWithValue("level", "INFO"))
			Expect(line).To(HaveKeyWithValue("trace_id", "trace-9"))
			Expect(line).To(HaveKeyWithValue("status", BeNumerically("==", http.StatusCreated)))
			Expect(line).To(HaveKeyWithValue("company_id", "company-1"))
			Expect(line).To(HaveKeyWithValue("user_id", "user-1"))
			Expect(line["body"]).To(ContainSubstring(`"password":"[REDACTED]"`))
			Expect(line["body"]).To(ContainSubstring(`"token":"[REDACTED]"`))
			Expect(out.String()).NotTo(ContainSubstring("hunter22"))
			Expect(out.String()).NotTo(ContainSubstring("abc"))
		})

		It("takes the company from the query and warns on client errors", func() {
			h := middleware.LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/tasks?companyId=company-2", nil))

			line := entry()
			Expect(line).To(HaveKeyWithValue("level", "WARN"))
			Expect(line).To(HaveKeyWithValue("company_id", "company-2"))
			Expect(line).NotTo(HaveKey("body"))
			Expect(line).NotTo(HaveKey("user_id"))
		})
	})

	Describe("ClientInfo", func() {
		It("records the caller address without the port", func() {
			var info internal.ClientInfo
			h := middleware.ClientInfo(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				info = internal.ClientInfoFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.10:51234"
			req.Header.Set("User-Agent", "cli/1.0")
			h.ServeHTTP(httptest.NewRecorder(), req)

			Expect(info.IPAddress).To(Equal("192.0.2.10"))
			Expect(info.UserAgent).To(Equal("cli/1.0"))
		})
	})

	Describe("RecoveryMiddleware", func() {
		It("turns a panic into a 500 envelope", func() {
			h := middleware.RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				panic("boom")
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(rec.Body.String()).To(MatchJSON(`{"success":false,"error":"Internal server error"}`))
		})
	})

	Describe("CORS", func() {
		It("answers preflight for allowed origins only", func() {
			h := middleware.CORS([]string{"https://app.example.com/"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
			req.Header.Set("Origin", "https://app.example.com")
			req.Header.Set("Access-Control-Request-Method", "POST")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://app.example.com"))

			req = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			req.Header.Set("Origin", "https://evil.example.com")
			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
		})
	})
})
