package activity

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/club-finance/internal"
)

var _ = Describe("Workflow", func() {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	DescribeTable("allowed transitions",
		func(from Status, action Action, to Status) {
			a := &Activity{Status: from}
			prev, err := a.Apply(action, now)
			Expect(err).NotTo(HaveOccurred())
			Expect(prev).To(Equal(from))
			Expect(a.Status).To(Equal(to))
			Expect(a.UpdatedAt).To(Equal(now))
		},
		Entry("submit", StatusDraft, ActionSubmit, StatusPendingApproval),
		Entry("approve", StatusPendingApproval, ActionApprove, StatusApproved),
		Entry("reject", StatusPendingApproval, ActionReject, StatusDraft),
		Entry("cancel draft", StatusDraft, ActionCancel, StatusCancelled),
		Entry("cancel pending", StatusPendingApproval, ActionCancel, StatusCancelled),
		Entry("cancel approved", StatusApproved, ActionCancel, StatusCancelled),
		Entry("complete", StatusApproved, ActionComplete, StatusCompleted),
	)

	DescribeTable("refused transitions leave the activity untouched",
		func(from Status, action Action) {
			a := &Activity{Status: from}
			_, err := a.Apply(action, now)
			Expect(internal.IsType(err, internal.ErrorTypeInvalidTransition)).To(BeTrue())
			Expect(a.Status).To(Equal(from))
			Expect(a.Approvals).To(Equal(Approvals{}))
		},
		Entry("submit pending", StatusPendingApproval, ActionSubmit),
		Entry("submit approved", StatusApproved, ActionSubmit),
		Entry("approve draft", StatusDraft, ActionApprove),
		Entry("complete draft", StatusDraft, ActionComplete),
		Entry("complete pending", StatusPendingApproval, ActionComplete),
		Entry("cancel completed", StatusCompleted, ActionCancel),
		Entry("cancel cancelled", StatusCancelled, ActionCancel),
		Entry("reject approved", StatusApproved, ActionReject),
	)

	It("should mark terminal statuses", func() {
		Expect(StatusCompleted.Terminal()).To(BeTrue())
		Expect(StatusCancelled.Terminal()).To(BeTrue())
		Expect(StatusApproved.Terminal()).To(BeFalse())
	})

	It("should accept expenses only once approved", func() {
		Expect(StatusApproved.AcceptsExpenses()).To(BeTrue())
		Expect(StatusCompleted.AcceptsExpenses()).To(BeTrue())
		Expect(StatusDraft.AcceptsExpenses()).To(BeFalse())
		Expect(StatusCancelled.AcceptsExpenses()).To(BeFalse())
	})
})
