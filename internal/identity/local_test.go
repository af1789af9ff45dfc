package identity_test

import (
	"context"
	"time"

	"github.com/frahmantamala/company-management/internal/core/testdb"
	"github.com/frahmantamala/company-management/internal/identity"
	identityPostgres "github.com/frahmantamala/company-management/internal/identity/postgres"
	"github.com/frahmantamala/company-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var _ = Describe("LocalProvider", func() {
	var (
		ctx      context.Context
		db       *gorm.DB
		provider *identity.LocalProvider
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = testdb.MustOpen()
		provider = identity.NewLocalProvider(
			identityPostgres.NewAccountRepository(db),
			identity.NewJWTTokenGenerator("test-secret-that-is-at-least-32-characters", "company-management", time.Hour),
			bcrypt.MinCost,
			logger.Discard(),
		)
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	It("normalises the email and refuses duplicates", func() {
		account, err := provider.CreateAccount(ctx, " Jane@Example.com ", "secret123", "Jane")
		Expect(err).NotTo(HaveOccurred())
		Expect(account.Email).To(Equal("jane@example.com"))

		_, err = provider.CreateAccount(ctx, "jane@example.com", "secret123", "Jane")
		Expect(err).To(MatchError(identity.ErrEmailExists))
	})

	It("validates the email and password", func() {
		_, err := provider.CreateAccount(ctx, "jane", "secret123", "Jane")
		Expect(err).To(MatchError(identity.ErrInvalidEmail))

		_, err = provider.CreateAccount(ctx, "jane@example.com", "abc", "Jane")
		Expect(err).To(MatchError(identity.ErrWeakPassword))
	})

	It("signs in and carries custom claims into the token", func() {
		account, err := provider.CreateAccount(ctx, "jane@example.com", "secret123", "Jane")
		Expect(err).NotTo(HaveOccurred())
		Expect(provider.SetCustomClaims(ctx, account.ID, map[string]any{"role": "EMPLOYEE"})).To(Succeed())

		token, err := provider.SignIn(ctx, "jane@example.com", "secret123")
		Expect(err).NotTo(HaveOccurred())

		claims, err := provider.VerifyIDToken(ctx, token.IDToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UID()).To(Equal(account.ID))
		Expect(claims.Custom).To(HaveKeyWithValue("role", "EMPLOYEE"))
	})

	It("rejects a wrong password", func() {
		_, err := provider.CreateAccount(ctx, "jane@example.com", "secret123", "Jane")
		Expect(err).NotTo(HaveOccurred())

		_, err = provider.SignIn(ctx, "jane@example.com", "wrong-pass")
		Expect(err).To(MatchError(identity.ErrInvalidCredentials))
	})

	It("invalidates tokens of deleted accounts", func() {
		account, err := provider.CreateAccount(ctx, "jane@example.com", "secret123", "Jane")
		Expect(err).NotTo(HaveOccurred())
		token, err := provider.SignIn(ctx, "jane@example.com", "secret123")
		Expect(err).NotTo(HaveOccurred())

		Expect(provider.DeleteAccount(ctx, account.ID)).To(Succeed())

		_, err = provider.VerifyIDToken(ctx, token.IDToken)
		Expect(err).To(MatchError(identity.ErrInvalidToken))
	})
})
