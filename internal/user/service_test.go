package user_test

import (
	"context"
	"net/http"

	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/frahmantamala/company-management/internal/core/testdb"
	"github.com/frahmantamala/company-management/internal/user"
	userPostgres "github.com/frahmantamala/company-management/internal/user/postgres"
	"github.com/frahmantamala/company-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("User Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		fx      *testdb.Fixtures
		repo    *userPostgres.UserRepository
		service *user.Service
	)

	// actorFor loads the user the way authentication does, memberships
	// included.
	actorFor := func(row *userDatamodel.User) *user.User {
		memberships, err := repo.ListMemberships(ctx, row.ID)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		return user.FromDataModelWithMemberships(row, memberships)
	}

	ids := func(users []*user.User) []string {
		out := make([]string, 0, len(users))
		for _, u := range users {
			out = append(out, u.ID)
		}
		return out
	}

	BeforeEach(func() {
		ctx = context.Background()
		db = testdb.MustOpen()
		fx = testdb.NewFixtures(db)
		repo = userPostgres.NewUserRepository(db)
		service = user.NewService(repo, logger.Discard())
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	It("lists only users sharing a company with the actor", func() {
		acme := fx.Company("Acme", 0)
		globex := fx.Company("Globex", 0)
		admin := fx.Member(string(user.RoleAdmin), acme)
		colleague := fx.Member(string(user.RoleEmployee), acme)
		fx.Member(string(user.RoleEmployee), globex)

		users, err := service.ListUsers(ctx, actorFor(admin))
		Expect(err).NotTo(HaveOccurred())
		Expect(ids(users)).To(ConsistOf(admin.ID, colleague.ID))
	})

	It("lets a super admin list everyone active", func() {
		acme := fx.Company("Acme", 0)
		superAdmin := fx.User(string(user.RoleSuperAdmin))
		fx.Member(string(user.RoleEmployee), acme)
		inactive := fx.Member(string(user.RoleEmployee), acme)
		Expect(db.Model(inactive).Update("is_active", false).Error).To(Succeed())

		users, err := service.ListUsers(ctx, actorFor(superAdmin))
		Expect(err).NotTo(HaveOccurred())
		Expect(users).To(HaveLen(2))
	})

	It("filters by role", func() {
		acme := fx.Company("Acme", 0)
		admin := fx.Member(string(user.RoleAdmin), acme)
		director := fx.Member(string(user.RoleDirector), acme)
		manager := fx.Member(string(user.RoleManager), acme)

		directors, err := service.ListDirectors(ctx, actorFor(admin))
		Expect(err).NotTo(HaveOccurred())
		Expect(ids(directors)).To(ConsistOf(director.ID))

		managers, err := service.ListManagers(ctx, actorFor(director))
		Expect(err).NotTo(HaveOccurred())
		Expect(ids(managers)).To(ConsistOf(manager.ID))
	})

	It("rejects actors without a company", func() {
		loner := fx.User(string(user.RoleDirector))

		_, err := service.ListManagers(ctx, actorFor(loner))
		Expect(testdb.Status(err)).To(Equal(http.StatusForbidden))
	})

	It("returns a profile with memberships", func() {
		acme := fx.Company("Acme", 0)
		member := fx.Member(string(user.RoleManager), acme)

		profile, err := service.GetProfile(ctx, member.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(profile.Companies).To(HaveLen(1))
		Expect(profile.Companies[0].CompanyName).To(Equal("Acme"))

		_, err = service.GetProfile(ctx, "missing")
		Expect(testdb.Status(err)).To(Equal(http.StatusNotFound))
	})
})
