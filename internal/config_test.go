package internal_test

import (
	"time"

	"github.com/frahmantamala/company-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var cfg *internal.Config

	BeforeEach(func() {
		GinkgoT().Setenv("DATABASE_URL", "postgres://localhost/company_management")
		GinkgoT().Setenv("JWT_SECRET", "test-secret-that-is-at-least-32-characters")
		GinkgoT().Setenv("ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000")
		cfg = internal.LoadConfigFromEnv()
	})

	It("loads a valid configuration from the environment", func() {
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Security.TokenDuration).To(Equal(time.Hour))
		Expect(cfg.Redis.Enabled()).To(BeFalse())
		Expect(cfg.Server.Origins()).To(Equal([]string{"https://app.example.com", "http://localhost:3000"}))
	})

	It("falls back to defaults on unparsable numbers", func() {
		GinkgoT().Setenv("PORT", "eighty")
		GinkgoT().Setenv("TOKEN_DURATION", "forever")
		cfg = internal.LoadConfigFromEnv()
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Security.TokenDuration).To(Equal(time.Hour))
	})

	It("collects every problem into one error", func() {
		cfg.Database.Source = ""
		cfg.Security.JWTSecret = "short"
		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("database config: source is required")))
		Expect(err).To(MatchError(ContainSubstring("jwt_secret must be at least 32 characters")))
	})

	It("requires a lock TTL when redis is enabled", func() {
		cfg.Redis.Addr = "localhost:6379"
		cfg.Redis.LockTTL = 0
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("lock_ttl must be positive")))
	})

	It("rejects a negative low balance threshold", func() {
		cfg.Credits.LowBalanceThreshold = -1
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("low_balance_threshold")))
	})

	It("bounds the bcrypt cost", func() {
		cfg.Security.BCryptCost = 20
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("bcrypt_cost")))
	})
})
