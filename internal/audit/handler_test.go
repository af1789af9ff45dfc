package audit_test

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/company-management/internal/audit"
	"github.com/frahmantamala/company-management/internal/auth"
	"github.com/frahmantamala/company-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubAuditService struct {
	calls  int
	filter audit.Filter
}

func (s *stubAuditService) List(_ context.Context, _ *user.User, filter audit.Filter) ([]audit.Log, error) {
	s.calls++
	s.filter = filter
	return []audit.Log{}, nil
}

var _ = Describe("Audit Handler", func() {
	var (
		stub    *stubAuditService
		handler *audit.Handler
	)

	list := func(query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/audit-logs?"+query, nil)
		req = req.WithContext(auth.ContextWithUser(req.Context(), &user.User{ID: "admin-1", Role: user.RoleSuperAdmin}))
		rec := httptest.NewRecorder()
		handler.List(rec, req)
		return rec
	}

	BeforeEach(func() {
		stub = &stubAuditService{}
		handler = audit.NewHandler(stub)
	})

	It("passes paging through", func() {
		rec := list("limit=20&offset=40&tableName=tasks")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(stub.filter.Limit).To(Equal(uint64(20)))
		Expect(stub.filter.Offset).To(Equal(uint64(40)))
		Expect(stub.filter.Table).To(Equal("tasks"))
	})

	It("rejects an offset beyond the database range", func() {
		rec := list("offset=18446744073709551615")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(stub.calls).To(BeZero())
	})

	It("accepts the largest representable offset", func() {
		rec := list("offset=9223372036854775807")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(stub.filter.Offset).To(Equal(uint64(math.MaxInt64)))
	})

	It("rejects non-numeric paging", func() {
		Expect(list("limit=ten").Code).To(Equal(http.StatusBadRequest))
		Expect(stub.calls).To(BeZero())
	})
})

var _ = Describe("Filter", func() {
	It("applies the default limit and clamps limit and offset", func() {
		f := audit.Filter{Offset: math.MaxUint64}
		f.Normalize()
		Expect(f.Limit).To(Equal(uint64(audit.DefaultLimit)))
		Expect(f.Offset).To(Equal(uint64(math.MaxInt64)))

		f = audit.Filter{Limit: audit.MaxLimit + 1}
		f.Normalize()
		Expect(f.Limit).To(Equal(uint64(audit.MaxLimit)))
	})
})
