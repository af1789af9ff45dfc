package api_test

import (
	"context"

	"github.com/frahmantamala/company-management/api"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Load", func() {
	It("parses and validates the embedded document", func() {
		doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Info.Title).NotTo(BeEmpty())
		Expect(doc.Paths.Find("/tasks/{taskId}")).NotTo(BeNil())
		Expect(doc.Components.SecuritySchemes).To(HaveKey("bearerAuth"))
	})
})
