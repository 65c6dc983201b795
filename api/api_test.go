package api_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/club-finance/api"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Document Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("should load and validate", func() {
		doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Info.Title).To(Equal("Club Finance API"))
	})

	DescribeTable("documents every public route",
		func(path, method string) {
			doc, err := api.Load(context.Background())
			Expect(err).NotTo(HaveOccurred())
			item := doc.Paths.Find(path)
			Expect(item).NotTo(BeNil(), path)
			Expect(item.GetOperation(method)).NotTo(BeNil(), method+" "+path)
		},
		Entry(nil, "/activities/{id}/{action}", "POST"),
		Entry(nil, "/expenses/{id}/review", "POST"),
		Entry(nil, "/payments/confirmations/{id}/review", "POST"),
		Entry(nil, "/payments/webhook", "POST"),
		Entry(nil, "/dues/automation", "POST"),
		Entry(nil, "/dues/me", "GET"),
		Entry(nil, "/members/me/onboarding", "POST"),
		Entry(nil, "/catalog", "GET"),
	)
})
