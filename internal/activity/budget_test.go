package activity

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/club-finance/internal"
)

var _ = Describe("Budget ledger", func() {
	It("should sum line item amounts", func() {
		total, err := ComputeTotalEstimate([]LineItem{{Name: "Venue", Amount: 5000}, {Name: "Catering", Amount: 3000}})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(8000)))
	})

	It("should allow an empty budget", func() {
		total, err := ComputeTotalEstimate(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(BeZero())
	})

	It("should allow zero-amount items", func() {
		total, err := ComputeTotalEstimate([]LineItem{{Name: "Donated hall", Amount: 0}})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(BeZero())
	})

	It("should collect every invalid item", func() {
		_, err := ComputeTotalEstimate([]LineItem{{Name: "", Amount: 10}, {Name: "Band", Amount: -5}})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Details.(internal.ValidationErrors).Errors).To(HaveLen(2))
	})

	It("should reject totals that overflow", func() {
		_, err := ComputeTotalEstimate([]LineItem{{Name: "a", Amount: math.MaxInt64}, {Name: "b", Amount: 1}})
		Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
	})
})

var _ = Describe("View", func() {
	It("should report utilization and over-budget", func() {
		a := &Activity{TotalEstimate: 8000, Actual: &Actual{TotalSpent: 9000}}
		v := NewView(a)
		Expect(v.UtilizationPercent).NotTo(BeNil())
		Expect(v.UtilizationPercent.Equal(decimal.RequireFromString("112.5"))).To(BeTrue())
		Expect(v.OverBudget).To(BeTrue())
	})

	It("should omit utilization for a zero estimate", func() {
		v := NewView(&Activity{})
		Expect(v.UtilizationPercent).To(BeNil())
		Expect(v.OverBudget).To(BeFalse())
	})
})
