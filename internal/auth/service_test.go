package auth_test

import (
	"context"
	stdErrors "errors"
	"net/http"
	"time"

	"github.com/frahmantamala/company-management/internal/auth"
	authPostgres "github.com/frahmantamala/company-management/internal/auth/postgres"
	companyDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/company"
	identityDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/identity"
	userDatamodel "github.com/frahmantamala/company-management/internal/core/datamodel/user"
	"github.com/frahmantamala/company-management/internal/core/testdb"
	"github.com/frahmantamala/company-management/internal/identity"
	identityPostgres "github.com/frahmantamala/company-management/internal/identity/postgres"
	"github.com/frahmantamala/company-management/internal/user"
	userPostgres "github.com/frahmantamala/company-management/internal/user/postgres"
	"github.com/frahmantamala/company-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

// failingUsers breaks the user insert so registration has to compensate.
type failingUsers struct {
	*userPostgres.UserRepository
}

func (failingUsers) CreateWithMembership(context.Context, *userDatamodel.User, *userDatamodel.UserCompany) error {
	return stdErrors.New("connection reset")
}

var _ = Describe("Auth Service", func() {
	var (
		ctx      context.Context
		db       *gorm.DB
		fx       *testdb.Fixtures
		provider *identity.LocalProvider
		users    *userPostgres.UserRepository
		service  *auth.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = testdb.MustOpen()
		fx = testdb.NewFixtures(db)
		provider = identity.NewLocalProvider(
			identityPostgres.NewAccountRepository(db),
			identity.NewJWTTokenGenerator(testSecret, "company-management", time.Hour),
			bcrypt.MinCost,
			logger.Discard(),
		)
		users = userPostgres.NewUserRepository(db)
		service = auth.NewService(users, authPostgres.NewDirectoryRepository(db), provider, logger.Discard())
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	Describe("Register", func() {
		It("creates an employee with a company membership", func() {
			acme := fx.Company("Acme", 0)

			u, err := service.Register(ctx, auth.RegisterDTO{
				Email:     "jane@example.com",
				Password:  "secret123",
				FullName:  "Jane Doe",
				CompanyID: &acme.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal(user.RoleEmployee))
			Expect(u.EmployeeID).To(Equal("EMP0001"))
			Expect(u.Companies).To(HaveLen(1))
			Expect(u.Companies[0].CompanyID).To(Equal(acme.ID))
		})

		It("rejects an email that is already registered", func() {
			dto := auth.RegisterDTO{Email: "jane@example.com", Password: "secret123", FullName: "Jane Doe"}
			_, err := service.Register(ctx, dto)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Register(ctx, dto)
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(err.Error()).To(Equal("User with this email already exists"))
		})

		It("checks the credentials before the name", func() {
			_, err := service.Register(ctx, auth.RegisterDTO{Email: "jane@example.com"})
			Expect(err.Error()).To(Equal("Email and password are required"))

			_, err = service.Register(ctx, auth.RegisterDTO{Email: "jane@example.com", Password: "secret123"})
			Expect(err.Error()).To(Equal("Full name is required"))

			_, err = service.Register(ctx, auth.RegisterDTO{Email: "jane@example.com", Password: "abc", FullName: "Jane"})
			Expect(err.Error()).To(Equal("Password must be at least 6 characters long"))
		})

		It("rejects an inactive company", func() {
			closed := &companyDatamodel.Company{ID: "closed-co", Name: "Closed", IsActive: false}
			Expect(db.Create(closed).Error).To(Succeed())
			Expect(db.Model(closed).Update("is_active", false).Error).To(Succeed())

			_, err := service.Register(ctx, auth.RegisterDTO{
				Email:     "jane@example.com",
				Password:  "secret123",
				FullName:  "Jane Doe",
				CompanyID: &closed.ID,
			})
			Expect(testdb.Status(err)).To(Equal(http.StatusBadRequest))
			Expect(fx.Count(&identityDatamodel.Account{})).To(BeZero())
		})

		It("deletes the identity account when the user insert fails", func() {
			broken := auth.NewService(failingUsers{users}, authPostgres.NewDirectoryRepository(db), provider, logger.Discard())

			_, err := broken.Register(ctx, auth.RegisterDTO{Email: "jane@example.com", Password: "secret123", FullName: "Jane Doe"})
			Expect(testdb.Status(err)).To(Equal(http.StatusInternalServerError))
			Expect(fx.Count(&identityDatamodel.Account{})).To(BeZero())
			Expect(fx.Count(&userDatamodel.User{})).To(BeZero())
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			_, err := service.Register(ctx, auth.RegisterDTO{Email: "jane@example.com", Password: "secret123", FullName: "Jane Doe"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("exchanges credentials for a token that authenticates", func() {
			result, err := service.Login(ctx, auth.LoginDTO{Email: "jane@example.com", Password: "secret123"})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Token.IDToken).NotTo(BeEmpty())
			Expect(result.Token.ExpiresAt).To(BeTemporally("~", time.Now().Add(time.Hour), time.Minute))

			u, err := service.Authenticate(ctx, result.Token.IDToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Email).To(Equal("jane@example.com"))
		})

		It("accepts an existing ID token", func() {
			first, err := service.Login(ctx, auth.LoginDTO{Email: "jane@example.com", Password: "secret123"})
			Expect(err).NotTo(HaveOccurred())

			second, err := service.Login(ctx, auth.LoginDTO{IDToken: first.Token.IDToken})
			Expect(err).NotTo(HaveOccurred())
			Expect(second.User.ID).To(Equal(first.User.ID))
		})

		It("rejects a wrong password", func() {
			_, err := service.Login(ctx, auth.LoginDTO{Email: "jane@example.com", Password: "nope-nope"})
			Expect(testdb.Status(err)).To(Equal(http.StatusUnauthorized))
		})

		It("refuses deactivated users", func() {
			Expect(db.Model(&userDatamodel.User{}).Where("email = ?", "jane@example.com").Update("is_active", false).Error).To(Succeed())

			_, err := service.Login(ctx, auth.LoginDTO{Email: "jane@example.com", Password: "secret123"})
			Expect(err).To(HaveOccurred())
			Expect(testdb.Status(err)).To(BeNumerically(">=", http.StatusBadRequest))
		})
	})

	Describe("Authenticate", func() {
		It("rejects a token signed with another secret", func() {
			other := identity.NewJWTTokenGenerator("another-secret-that-is-32-characters!!", "company-management", time.Hour)
			token, err := other.Generate("someone", "x@example.com", nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Authenticate(ctx, token.IDToken)
			Expect(testdb.Status(err)).To(Equal(http.StatusUnauthorized))
		})
	})
})
