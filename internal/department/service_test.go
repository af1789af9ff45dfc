package department_test

import (
	"context"
	"net/http"

	companyPostgres "github.com/frahmantamala/company-management/internal/company/postgres"
	auditDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/audit"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	departmentDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/frahmantamala/company-management/internal/core/testdb"
	"github.com/frahmantamala/company-management/internal/department"
	departmentPostgres "github.com/frahmantamala/company-management/internal/department/postgres"
	"github.com/frahmantamala/company-management/internal/policy"
	"github.com/frahmantamala/company-management/internal/user"
	userPostgres "github.com/frahmantamala/company-management/internal/user/postgres"
	"github.com/frahmantamala/company-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Department Service", func() {
	var (
		ctx      context.Context
		db       *gorm.DB
		fx       *testdb.Fixtures
		service  *department.Service
		acme     *companyDatamodel.Company
		globex   *companyDatamodel.Company
		manager  *user.User
		director *user.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = testdb.MustOpen()
		fx = testdb.NewFixtures(db)

		users := userPostgres.NewUserRepository(db)
		service = department.NewService(
			departmentPostgres.NewDepartmentRepository(db),
			companyPostgres.NewCompanyRepository(db),
			users,
			policy.NewAuthorizer(users, logger.Discard()),
			logger.Discard(),
		)

		acme = fx.Company("Acme", 0)
		globex = fx.Company("Globex", 0)
		manager = user.FromDataModel(fx.Member(string(user.RoleManager), acme))
		director = user.FromDataModel(fx.Member(string(user.RoleDirector), acme))
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	Describe("Create", func() {
		It("creates a department with a head from the same company", func() {
			head := fx.Member(string(user.RoleEmployee), acme)

			dept, err := service.Create(ctx, manager, department.CreateDepartmentDTO{
				Name:         "Engineering",
				CompanyID:    acme.ID,
				HeadOfDeptID: &head.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(dept.HasHead()).To(BeTrue())
			Expect(fx.Count(&auditDatamodel.AuditLog{})).To(Equal(int64(1)))
		})

		It("rejects a company the actor does not belong to with 403", func() {
			_, err := service.Create(ctx, manager, department.CreateDepartmentDTO{
				Name:      "Engineering",
				CompanyID: globex.ID,
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusForbidden))
			Expect(fx.Count(&departmentDatamodel.Department{})).To(BeZero())
		})

		It("rejects a head who is not a member of the company", func() {
			outsider := fx.Member(string(user.RoleEmployee), globex)

			_, err := service.Create(ctx, manager, department.CreateDepartmentDTO{
				Name:         "Engineering",
				CompanyID:    acme.ID,
				HeadOfDeptID: &outsider.ID,
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(Equal("Head of department is not associated with this company"))
		})

		It("rejects an inactive company with 400", func() {
			Expect(db.Model(acme).Update("is_active", false).Error).To(Succeed())

			_, err := service.Create(ctx, manager, department.CreateDepartmentDTO{Name: "Engineering", CompanyID: acme.ID})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(Equal("Invalid or inactive company ID"))
		})

		It("rejects a duplicate name inside one company", func() {
			fx.Department(acme.ID, "Engineering", nil)

			_, err := service.Create(ctx, manager, department.CreateDepartmentDTO{Name: "Engineering", CompanyID: acme.ID})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(fx.Count(&departmentDatamodel.Department{})).To(Equal(int64(1)))
		})
	})

	Describe("SetHead", func() {
		It("rejects a director setting a head in another company with 403", func() {
			foreign := fx.Department(globex.ID, "Sales", nil)
			head := fx.Member(string(user.RoleEmployee), globex)

			_, err := service.SetHead(ctx, director, foreign.ID, department.SetHeadDTO{UserID: head.ID})
			Expect(testdb.Status(err)).To(Equal(http.StatusForbidden))

			var reloaded departmentDatamodel.Department
			fx.Reload(&reloaded, foreign.ID)
			Expect(reloaded.HeadOfDeptID).To(BeNil())
		})

		It("updates the head and records old and new values", func() {
			dept := fx.Department(acme.ID, "Sales", nil)
			head := fx.Member(string(user.RoleEmployee), acme)

			updated, err := service.SetHead(ctx, director, dept.ID, department.SetHeadDTO{UserID: head.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(*updated.HeadOfDeptID).To(Equal(head.ID))

			var log auditDatamodel.AuditLog
			Expect(db.Where("record_id = ?", dept.ID).First(&log).Error).To(Succeed())
			Expect(log.Action).To(Equal("UPDATE"))
			Expect(*log.NewData).To(ContainSubstring(head.ID))
		})

		It("returns 404 for an unknown department", func() {
			_, err := service.SetHead(ctx, director, "missing", department.SetHeadDTO{UserID: director.ID})
			Expect(testdb.Status(err)).To(Equal(http.StatusNotFound))
		})
	})

	Describe("AssignUser", func() {
		var dept *departmentDatamodel.Department

		BeforeEach(func() {
			dept = fx.Department(acme.ID, "Engineering", nil)
		})

		It("moves a member into the department", func() {
			employee := fx.Member(string(user.RoleEmployee), acme)

			result, err := service.AssignUser(ctx, manager, department.AssignUserDTO{
				UserID: employee.ID, DepartmentID: dept.ID, CompanyID: acme.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.PreviousDepartmentID).To(BeNil())

			var reloaded userDatamodel.User
			fx.Reload(&reloaded, employee.ID)
			Expect(*reloaded.DepartmentID).To(Equal(dept.ID))
		})

		It("rejects a user outside the company", func() {
			outsider := fx.Member(string(user.RoleEmployee), globex)

			_, err := service.AssignUser(ctx, manager, department.AssignUserDTO{
				UserID: outsider.ID, DepartmentID: dept.ID, CompanyID: acme.ID,
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(Equal("Target user is not associated with this company"))
		})

		It("rejects a department of another company", func() {
			employee := fx.Member(string(user.RoleEmployee), acme, globex)
			foreign := fx.Department(globex.ID, "Sales", nil)

			_, err := service.AssignUser(ctx, manager, department.AssignUserDTO{
				UserID: employee.ID, DepartmentID: foreign.ID, CompanyID: acme.ID,
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(Equal("Department does not belong to the specified company"))
		})
	})

	Describe("List", func() {
		It("rejects an admin whose companies have no departments", func() {
			admin := user.FromDataModel(fx.Member(string(user.RoleAdmin), globex))
			fx.Department(acme.ID, "Engineering", nil)

			_, err := service.List(ctx, admin, "")
			Expect(testdb.Status(err)).To(Equal(http.StatusForbidden))
		})

		It("rejects a company filter outside the admin's memberships", func() {
			admin := user.FromDataModel(fx.Member(string(user.RoleAdmin), globex))

			_, err := service.List(ctx, admin, acme.ID)
			Expect(testdb.Status(err)).To(Equal(http.StatusForbidden))
		})

		It("lets a super admin filter by company", func() {
			sa := user.FromDataModel(fx.User(string(user.RoleSuperAdmin)))
			fx.Department(acme.ID, "Engineering", nil)
			fx.Department(globex.ID, "Sales", nil)

			depts, err := service.List(ctx, sa, globex.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(depts).To(HaveLen(1))
			Expect(depts[0].Name).To(Equal("Sales"))
		})
	})
})
