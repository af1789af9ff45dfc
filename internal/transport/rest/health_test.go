package rest_test

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/company-management/internal/transport/rest"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HealthHandler", func() {
	healthy := func(context.Context) error { return nil }
	broken := func(context.Context) error { return stdErrors.New("connection refused") }

	decode := func(rec *httptest.ResponseRecorder) rest.HealthResponse {
		var resp rest.HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		return resp
	}

	It("answers liveness without running checks", func() {
		called := false
		h := rest.NewHealthHandler(map[string]rest.CheckFunc{
			"postgres": func(context.Context) error { called = true; return nil },
		})

		rec := httptest.NewRecorder()
		h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec).Status).To(Equal(rest.HealthHealthy))
		Expect(called).To(BeFalse())
	})

	It("is ready when every check passes", func() {
		h := rest.NewHealthHandler(map[string]rest.CheckFunc{"postgres": healthy, "redis": healthy})

		rec := httptest.NewRecorder()
		h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		resp := decode(rec)
		Expect(resp.Components).To(HaveLen(2))
		Expect(resp.Components["redis"].Status).To(Equal(rest.HealthHealthy))
	})

	It("reports 503 and the failing component", func() {
		h := rest.NewHealthHandler(map[string]rest.CheckFunc{"postgres": healthy, "redis": broken})

		rec := httptest.NewRecorder()
		h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		resp := decode(rec)
		Expect(resp.Status).To(Equal(rest.HealthUnhealthy))
		Expect(resp.Components["postgres"].Status).To(Equal(rest.HealthHealthy))
		Expect(resp.Components["redis"].Message).To(Equal("connection refused"))
	})

	It("is ready with no checks registered", func() {
		rec := httptest.NewRecorder()
		rest.NewHealthHandler(nil).Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})
