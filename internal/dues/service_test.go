package dues

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/auth"
	"github.com/frahmantamala/club-finance/pkg/logger"
)

type mockRepository struct {
	cycles   []*Cycle
	paid     map[string]bool
	writeErr error
}

func (m *mockRepository) CreateActive(_ context.Context, c *Cycle) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	for _, existing := range m.cycles {
		existing.IsActive = false
	}
	cp := *c
	m.cycles = append(m.cycles, &cp)
	return nil
}

func (m *mockRepository) GetActive(context.Context) (*Cycle, error) {
	for _, c := range m.cycles {
		if c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, internal.ErrNoActiveCycle
}

func (m *mockRepository) GetMemberDues(_ context.Context, memberID, cycleID string) (*MemberDues, error) {
	if m.paid[memberID+"/"+cycleID] {
		return &MemberDues{MemberID: memberID, CycleID: cycleID, Status: StatusPaid}, nil
	}
	return &MemberDues{MemberID: memberID, CycleID: cycleID, Status: StatusUnpaid}, nil
}

func (m *mockRepository) MarkPaid(_ context.Context, memberID, cycleID, _ string, _ time.Time) (bool, error) {
	key := memberID + "/" + cycleID
	changed := !m.paid[key]
	m.paid[key] = true
	return changed, nil
}

var _ = Describe("DuesService", func() {
	var (
		ctx     context.Context
		repo    *mockRepository
		service *Service
		admin   = &auth.User{ID: "a-1", Role: auth.RoleAdmin, Status: "ACTIVE"}
		member  = &auth.User{ID: "m-1", Role: auth.RoleMember, Status: "ACTIVE"}
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &mockRepository{paid: map[string]bool{}}
		service = NewService(repo, logger.Discard())
	})

	season := CreateCycleDTO{
		StartDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Amount:    15000,
	}

	Describe("CreateCycle", func() {
		It("should activate the new cycle in place of the old one", func() {
			first, err := service.CreateCycle(ctx, admin, season)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.IsActive).To(BeTrue())
			Expect(first.CreatedBy).To(Equal(admin.ID))

			next := season
			next.StartDate = season.StartDate.AddDate(1, 0, 0)
			next.EndDate = season.EndDate.AddDate(1, 0, 0)
			second, err := service.CreateCycle(ctx, admin, next)
			Expect(err).NotTo(HaveOccurred())

			active, err := service.GetActiveCycle(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(active.ID).To(Equal(second.ID))
		})

		It("should be reserved to admins", func() {
			_, err := service.CreateCycle(ctx, member, season)
			Expect(errors.Is(err, internal.ErrRoleNotPermitted)).To(BeTrue())
			Expect(repo.cycles).To(BeEmpty())
		})

		DescribeTable("rejects malformed cycles",
			func(mutate func(*CreateCycleDTO), code internal.ErrorCode) {
				dto := season
				mutate(&dto)
				_, err := service.CreateCycle(ctx, admin, dto)
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
				Expect(appErr.Code).To(Equal(code))
			},
			Entry("end before start", func(d *CreateCycleDTO) { d.EndDate = d.StartDate.AddDate(0, 0, -1) }, internal.ErrCodeInvalidDate),
			Entry("end equal to start", func(d *CreateCycleDTO) { d.EndDate = d.StartDate }, internal.ErrCodeInvalidDate),
			Entry("zero amount", func(d *CreateCycleDTO) { d.Amount = 0 }, internal.ErrCodeInvalidAmount),
			Entry("missing start", func(d *CreateCycleDTO) { d.StartDate = time.Time{} }, internal.ErrCodeValidationFailed),
		)

		It("should report persistence failures as external IO", func() {
			repo.writeErr = errors.New("connection refused")
			_, err := service.CreateCycle(ctx, admin, season)
			Expect(internal.IsType(err, internal.ErrorTypeExternalIO)).To(BeTrue())
		})
	})

	Describe("GetMyDues", func() {
		It("should report NO_ACTIVE_CYCLE when nothing is active", func() {
			_, err := service.GetMyDues(ctx, member)
			Expect(errors.Is(err, internal.ErrNoActiveCycle)).To(BeTrue())
		})

		It("should read a missing record as unpaid", func() {
			c, err := service.CreateCycle(ctx, admin, season)
			Expect(err).NotTo(HaveOccurred())

			mine, err := service.GetMyDues(ctx, member)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine.Cycle.ID).To(Equal(c.ID))
			Expect(mine.Dues.Status).To(Equal(StatusUnpaid))
		})

		It("should show paid dues", func() {
			c, err := service.CreateCycle(ctx, admin, season)
			Expect(err).NotTo(HaveOccurred())
			_, err = repo.MarkPaid(ctx, member.ID, c.ID, "gateway", time.Now())
			Expect(err).NotTo(HaveOccurred())

			mine, err := service.GetMyDues(ctx, member)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine.Dues.Status).To(Equal(StatusPaid))
		})
	})
})
