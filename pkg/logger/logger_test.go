package logger_test

import (
	"context"

	"github.com/frahmantamala/company-management/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	Describe("RedactJSON", func() {
		It("masks credentials at any depth whatever their casing", func() {
			body := []byte(`{"email":"a@b.co","Password":"x","user":{"id_token":"y"},"items":[{"authorization":"z","name":"ok"}]}`)

			Expect(logger.RedactJSON(body)).To(MatchJSON(`{
				"email":"a@b.co",
				"Password":"[REDACTED]",
				"user":{"id_token":"[REDACTED]"},
				"items":[{"authorization":"[REDACTED]","name":"ok"}]
			}`))
		})

		It("keeps fields that only resemble sensitive names", func() {
			Expect(logger.RedactJSON([]byte(`{"tokenExpiresAt":"soon","companyId":"c"}`))).
				To(MatchJSON(`{"tokenExpiresAt":"soon","companyId":"c"}`))
		})

		It("does not echo bodies it cannot parse", func() {
			Expect(logger.RedactJSON([]byte("password=hunter22"))).To(Equal("[non-json body]"))
			Expect(logger.RedactJSON(nil)).To(BeEmpty())
		})
	})

	Describe("Annotate", func() {
		It("feeds the request fields and the context logger", func() {
			ctx, fields := logger.WithRequestFields(context.Background())
			ctx = logger.Annotate(ctx, "user_id", "u-1")

			Expect(fields.Attrs()).To(Equal([]any{"user_id", "u-1"}))
			Expect(logger.From(ctx)).NotTo(BeIdenticalTo(logger.LoggerWrapper()))
		})

		It("only extends the logger outside a request", func() {
			ctx := logger.Annotate(context.Background(), "user_id", "u-1")
			Expect(logger.From(ctx)).NotTo(BeNil())
		})
	})
})
