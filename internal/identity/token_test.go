package identity_test

import (
	"time"

	"github.com/frahmantamala/company-management/internal/identity"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("JWTTokenGenerator", func() {
	const secret = "test-secret-that-is-at-least-32-characters"

	var gen *identity.JWTTokenGenerator

	BeforeEach(func() {
		gen = identity.NewJWTTokenGenerator(secret, "company-management", time.Hour)
	})

	It("round trips subject, email and custom claims", func() {
		token, err := gen.Generate("identity-1", "jane@example.com", map[string]any{"role": "EMPLOYEE"})
		Expect(err).NotTo(HaveOccurred())

		claims, err := gen.Validate(token.IDToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UID()).To(Equal("identity-1"))
		Expect(claims.Email).To(Equal("jane@example.com"))
		Expect(claims.Issuer).To(Equal("company-management"))
		Expect(claims.Custom).To(HaveKeyWithValue("role", "EMPLOYEE"))
	})

	It("reports expired tokens", func() {
		gen.TTL = -time.Minute
		token, err := gen.Generate("identity-1", "jane@example.com", nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.Validate(token.IDToken)
		Expect(err).To(MatchError(identity.ErrTokenExpired))
	})

	It("rejects tokens signed with another secret", func() {
		other := identity.NewJWTTokenGenerator("another-secret-that-is-32-characters!!", "company-management", time.Hour)
		token, err := other.Generate("identity-1", "jane@example.com", nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.Validate(token.IDToken)
		Expect(err).To(MatchError(identity.ErrInvalidToken))
	})

	It("reports garbage as malformed", func() {
		_, err := gen.Validate("not-a-jwt")
		Expect(err).To(MatchError(identity.ErrMalformedToken))
	})

	It("defaults a non positive TTL to one hour", func() {
		Expect(identity.NewJWTTokenGenerator(secret, "x", 0).TTL).To(Equal(time.Hour))
	})
})
