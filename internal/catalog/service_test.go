package catalog_test

import (
	"context"
	"net/http"

	"github.com/frahmantamala/company-management/internal/catalog"
	catalogPostgres "github.com/frahmantamala/company-management/internal/catalog/postgres"
	companyPostgres "github.com/frahmantamala/company-management/internal/company/postgres"
	auditDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/audit"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	serviceDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/service"
	"github.com/frahmantamala/company-management/internal/core/testdb"
	"github.com/frahmantamala/company-management/internal/policy"
	"github.com/frahmantamala/company-management/internal/user"
	userPostgres "github.com/frahmantamala/company-management/internal/user/postgres"
	"github.com/frahmantamala/company-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var _ = Describe("Catalog Service", func() {
	var (
		ctx        context.Context
		db         *gorm.DB
		fx         *testdb.Fixtures
		service    *catalog.Service
		acme       *companyDatamodel.Company
		globex     *companyDatamodel.Company
		superAdmin *user.User
		director   *user.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = testdb.MustOpen()
		fx = testdb.NewFixtures(db)
		service = catalog.NewService(
			catalogPostgres.NewServiceRepository(db),
			companyPostgres.NewCompanyRepository(db),
			policy.NewAuthorizer(userPostgres.NewUserRepository(db), logger.Discard()),
			logger.Discard(),
		)

		acme = fx.Company("Acme", 0)
		globex = fx.Company("Globex", 0)
		superAdmin = user.FromDataModel(fx.User(string(user.RoleSuperAdmin)))
		director = user.FromDataModel(fx.Member(string(user.RoleDirector), acme))
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	Describe("Create", func() {
		It("rounds the price and audits the creation", func() {
			price := decimal.RequireFromString("19.999")

			created, err := service.Create(ctx, superAdmin, catalog.CreateServiceDTO{
				Name:      "  Hosting ",
				CompanyID: acme.ID,
				Price:     &price,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Name).To(Equal("Hosting"))
			Expect(created.Price.Equal(decimal.NewFromInt(20))).To(BeTrue())
			Expect(*created.CompanyID).To(Equal(acme.ID))
			Expect(fx.Count(&auditDatamodel.AuditLog{})).To(Equal(int64(1)))
		})

		It("rejects a second service with the same name in a company", func() {
			fx.Service("Hosting", &acme.ID, "5.00")
			price := decimal.NewFromInt(7)

			_, err := service.Create(ctx, superAdmin, catalog.CreateServiceDTO{Name: "Hosting", CompanyID: acme.ID, Price: &price})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(fx.Count(&serviceDatamodel.Service{})).To(Equal(int64(1)))
		})

		It("rejects a negative price", func() {
			price := decimal.NewFromInt(-1)

			_, err := service.Create(ctx, superAdmin, catalog.CreateServiceDTO{Name: "Hosting", CompanyID: acme.ID, Price: &price})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
		})

		It("rejects an unknown company", func() {
			price := decimal.NewFromInt(1)

			_, err := service.Create(ctx, superAdmin, catalog.CreateServiceDTO{Name: "Hosting", CompanyID: "missing", Price: &price})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(Equal("Invalid or inactive company ID"))
		})
	})

	Describe("Assign", func() {
		It("claims unowned services for the company", func() {
			first := fx.Service("Hosting", nil, "5.00")
			second := fx.Service("Backups", nil, "2.50")

			assigned, err := service.Assign(ctx, director, catalog.AssignServicesDTO{
				CompanyID:  acme.ID,
				ServiceIDs: []string{first.ID, second.ID, first.ID},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(assigned).To(HaveLen(2))

			var reloaded serviceDatamodel.Service
			fx.Reload(&reloaded, second.ID)
			Expect(*reloaded.CompanyID).To(Equal(acme.ID))
		})

		It("refuses to take a service from another company", func() {
			free := fx.Service("Hosting", nil, "5.00")
			taken := fx.Service("Backups", &globex.ID, "2.50")

			_, err := service.Assign(ctx, director, catalog.AssignServicesDTO{
				CompanyID:  acme.ID,
				ServiceIDs: []string{free.ID, taken.ID},
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(ContainSubstring("Backups"))

			var reloaded serviceDatamodel.Service
			fx.Reload(&reloaded, free.ID)
			Expect(reloaded.CompanyID).To(BeNil())
		})

		It("rejects unknown service ids", func() {
			free := fx.Service("Hosting", nil, "5.00")

			_, err := service.Assign(ctx, director, catalog.AssignServicesDTO{
				CompanyID:  acme.ID,
				ServiceIDs: []string{free.ID, "missing"},
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(Equal("One or more service IDs are invalid or inactive"))
		})

		It("rejects a company outside the actor's memberships", func() {
			free := fx.Service("Hosting", nil, "5.00")

			_, err := service.Assign(ctx, director, catalog.AssignServicesDTO{
				CompanyID:  globex.ID,
				ServiceIDs: []string{free.ID},
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusForbidden))
		})
	})

	Describe("List", func() {
		It("returns only the company's services", func() {
			fx.Service("Hosting", &acme.ID, "5.00")
			fx.Service("Support", &globex.ID, "5.00")

			services, err := service.List(ctx, director, acme.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(services).To(HaveLen(1))
			Expect(services[0].Name).To(Equal("Hosting"))
		})

		It("requires a company id", func() {
			_, err := service.List(ctx, director, "")
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
		})
	})
})
