package auth

import (
	"errors"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/club-finance/internal"
)

var _ = ginkgo.Describe("Permission table", func() {
	ginkgo.DescribeTable("Can",
		func(role Role, action Action, allowed bool) {
			gomega.Expect(Can(role, action)).To(gomega.Equal(allowed))
		},
		ginkgo.Entry("treasurer submits activity", RoleTreasurer, ActionActivitySubmit, true),
		ginkgo.Entry("president cannot submit activity", RolePresident, ActionActivitySubmit, false),
		ginkgo.Entry("president approves activity", RolePresident, ActionActivityApprove, true),
		ginkgo.Entry("treasurer cannot approve activity", RoleTreasurer, ActionActivityApprove, false),
		ginkgo.Entry("admin cannot approve activity", RoleAdmin, ActionActivityApprove, false),
		ginkgo.Entry("treasurer cancels", RoleTreasurer, ActionActivityCancel, true),
		ginkgo.Entry("president cancels", RolePresident, ActionActivityCancel, true),
		ginkgo.Entry("member cannot cancel", RoleMember, ActionActivityCancel, false),
		ginkgo.Entry("treasurer reviews expenses", RoleTreasurer, ActionExpenseReview, true),
		ginkgo.Entry("president cannot review expenses", RolePresident, ActionExpenseReview, false),
		ginkgo.Entry("member submits payment", RoleMember, ActionPaymentSubmit, true),
		ginkgo.Entry("member cannot review payment", RoleMember, ActionPaymentReview, false),
		ginkgo.Entry("admin creates dues cycle", RoleAdmin, ActionDuesCycleCreate, true),
		ginkgo.Entry("treasurer cannot create dues cycle", RoleTreasurer, ActionDuesCycleCreate, false),
		ginkgo.Entry("unknown action is denied", RoleAdmin, Action("nope"), false),
	)

	ginkgo.Describe("Authorize", func() {
		ginkgo.It("should return a forbidden error for a wrong role", func() {
			err := Authorize(&User{ID: "m", Role: RoleMember, Status: "ACTIVE"}, ActionExpenseReview)
			gomega.Expect(errors.Is(err, internal.ErrRoleNotPermitted)).To(gomega.BeTrue())
			gomega.Expect(internal.IsType(err, internal.ErrorTypeForbidden)).To(gomega.BeTrue())
		})

		ginkgo.It("should keep inactive members to payment submission", func() {
			u := &User{ID: "m", Role: RoleTreasurer, Status: "INACTIVE"}
			gomega.Expect(Authorize(u, ActionPaymentSubmit)).To(gomega.Succeed())
			gomega.Expect(errors.Is(Authorize(u, ActionExpenseReview), internal.ErrMemberInactive)).To(gomega.BeTrue())
		})

		ginkgo.It("should keep members who have not onboarded to payment submission", func() {
			u := &User{ID: "p", Role: RolePresident, Status: "PENDING_PROFILE"}
			gomega.Expect(Authorize(u, ActionPaymentSubmit)).To(gomega.Succeed())

			err := Authorize(u, ActionActivityApprove)
			gomega.Expect(errors.Is(err, internal.ErrProfileIncomplete)).To(gomega.BeTrue())
			gomega.Expect(internal.IsType(err, internal.ErrorTypeForbidden)).To(gomega.BeTrue())

			t := &User{ID: "t", Role: RoleTreasurer, Status: "PENDING_PROFILE"}
			gomega.Expect(errors.Is(Authorize(t, ActionActivityCreate), internal.ErrProfileIncomplete)).To(gomega.BeTrue())
			gomega.Expect(errors.Is(Authorize(t, ActionExpenseReview), internal.ErrProfileIncomplete)).To(gomega.BeTrue())
		})

		ginkgo.It("should still report a wrong role before the onboarding gate", func() {
			u := &User{ID: "m", Role: RoleMember, Status: "PENDING_PROFILE"}
			gomega.Expect(errors.Is(Authorize(u, ActionPaymentReview), internal.ErrRoleNotPermitted)).To(gomega.BeTrue())
		})

		ginkgo.It("should treat a missing caller as unauthenticated", func() {
			gomega.Expect(errors.Is(Authorize(nil, ActionPaymentSubmit), internal.ErrInvalidToken)).To(gomega.BeTrue())
		})
	})

	ginkgo.It("should list a role's actions", func() {
		gomega.Expect(ActionsFor(RoleAdmin)).To(gomega.ConsistOf(ActionExpenseSubmit, ActionExpenseView, ActionPaymentSubmit, ActionDuesCycleCreate))
	})
})
