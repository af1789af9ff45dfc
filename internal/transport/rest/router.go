package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/company-management/api"
	"github.com/frahmantamala/company-management/internal/audit"
	"github.com/frahmantamala/company-management/internal/auth"
	"github.com/frahmantamala/company-management/internal/catalog"
	"github.com/frahmantamala/company-management/internal/company"
	"github.com/frahmantamala/company-management/internal/credit"
	"github.com/frahmantamala/company-management/internal/department"
	"github.com/frahmantamala/company-management/internal/policy"
	"github.com/frahmantamala/company-management/internal/task"
	"github.com/frahmantamala/company-management/internal/transport/middleware"
	"github.com/frahmantamala/company-management/internal/transport/swagger"
	"github.com/frahmantamala/company-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything the route table needs. Nil module handlers
// leave their routes unregistered.
type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	Policy     *policy.Middleware
	User       *user.Handler
	Company    *company.Handler
	Department *department.Handler
	Task       *task.Handler
	Catalog    *catalog.Handler
	Credit     *credit.Handler
	Audit      *audit.Handler
}

type RouterOptions struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(h Handlers, opts RouterOptions, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()
	RegisterAllRoutes(router, h, opts, logger)
	return router
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions, logger *slog.Logger) {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}

	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.ClientInfo)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.Timeout(opts.RequestTimeout))

	if h.Health != nil {
		router.Get("/health", h.Health.Liveness)
		router.Get("/ready", h.Health.Readiness)
	}

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec)
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	router.Route("/api", func(r chi.Router) {
		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", h.Auth.Register)
			ar.Post("/verify-token", h.Auth.VerifyToken)
			ar.Post("/login", h.Auth.Login)

			ar.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Get("/me", h.Auth.Me)
				pr.Post("/logout", h.Auth.Logout)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			registerProtected(pr, h)
		})
	})
}

func registerProtected(r chi.Router, h Handlers) {
	p := h.Policy
	if p == nil {
		return
	}

	if h.User != nil {
		r.Route("/users", func(ur chi.Router) {
			ur.With(p.RequireMembership()).Get("/", h.User.List)
			ur.With(p.RequireRoles(policy.SuperAdminOnly...)).Get("/admins", h.User.ListAdmins)
			ur.With(p.RequireRoles(policy.Admins...), p.RequireMembership()).Get("/directors", h.User.ListDirectors)
			ur.With(p.RequireRoles(policy.Directors...), p.RequireMembership()).Get("/managers", h.User.ListManagers)
		})
	}

	if h.Company != nil {
		r.Route("/companies", func(cr chi.Router) {
			cr.With(p.RequireRoles(policy.SuperAdminOnly...)).Post("/", h.Company.Create)
			cr.With(p.RequireRoles(policy.Admins...)).Get("/", h.Company.List)
			cr.With(p.RequireRoles(policy.SuperAdminOnly...)).Post("/assign", h.Company.Assign)
		})
	}

	if h.Department != nil {
		r.Route("/departments", func(dr chi.Router) {
			dr.With(p.RequireRoles(policy.ManagersAndAbove...)).Post("/", h.Department.Create)
			dr.With(p.RequireRoles(policy.Admins...)).Get("/", h.Department.List)
			dr.With(p.RequireRoles(policy.ManagersAndAbove...)).Put("/assign-user", h.Department.AssignUser)
			dr.With(p.RequireRoles(policy.Directors...)).Put("/{departmentId}/head", h.Department.SetHead)
		})
	}

	if h.Task != nil {
		r.Route("/tasks", func(tr chi.Router) {
			tr.Use(p.RequireRoles(policy.ManagersAndAbove...))
			tr.Post("/", h.Task.Create)
			tr.Get("/", h.Task.List)
			tr.Delete("/{taskId}", h.Task.Delete)
			tr.Put("/assign/user", h.Task.AssignUser)
			tr.Put("/assign/department", h.Task.AssignDepartment)
		})
	}

	if h.Catalog != nil {
		r.Route("/services", func(sr chi.Router) {
			sr.With(p.RequireRoles(policy.SuperAdminOnly...)).Post("/", h.Catalog.Create)
			sr.Get("/", h.Catalog.List)
			sr.With(p.RequireRoles(policy.Directors...)).Put("/assign", h.Catalog.Assign)
		})
	}

	if h.Credit != nil {
		r.Route("/credits", func(cr chi.Router) {
			cr.Use(p.RequireRoles(policy.Directors...), p.RequireMembership())
			cr.Post("/recharge", h.Credit.Recharge)
			cr.Post("/usage", h.Credit.Usage)
			cr.Get("/transactions", h.Credit.Transactions)
			cr.Get("/export", h.Credit.Export)
		})
	}

	if h.Audit != nil {
		r.With(p.RequireRoles(policy.Admins...), p.RequireMembership()).Get("/audit-logs", h.Audit.List)
	}
}
