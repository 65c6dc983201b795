package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/auth"
	memberDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/member"
	"github.com/frahmantamala/club-finance/internal/member"
	memberPostgres "github.com/frahmantamala/club-finance/internal/member/postgres"
)

func TestMemberPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Member Postgres Suite")
}

var _ = Describe("Member Repository", func() {
	var (
		ctx  context.Context
		repo *memberPostgres.MemberRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&memberDatamodel.Member{})).To(Succeed())

		repo = memberPostgres.NewMemberRepository(db)
		now := time.Now().UTC()
		Expect(repo.Create(ctx, &member.Member{
			ID: "m-1", Email: "ada@club.org", PasswordHash: "x",
			Role: auth.RoleMember, Status: member.StatusPendingProfile,
			CreatedAt: now, UpdatedAt: now,
		})).To(Succeed())
	})

	It("should complete a profile only from the expected status", func() {
		m, err := repo.GetByID(ctx, "m-1")
		Expect(err).NotTo(HaveOccurred())
		m.FirstName = "Ada"
		m.LastName = "Lovelace"
		m.Status = member.StatusActive

		Expect(repo.CompleteProfile(ctx, m, member.StatusPendingProfile)).To(Succeed())
		err = repo.CompleteProfile(ctx, m, member.StatusPendingProfile)
		Expect(errors.Is(err, internal.ErrStatusConflict)).To(BeTrue())

		got, err := repo.GetByEmail(ctx, "ada@club.org")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.FirstName).To(Equal("Ada"))
		Expect(got.Status).To(Equal(member.StatusActive))
	})

	It("should guard status transitions", func() {
		err := repo.TransitionStatus(ctx, "m-1", member.StatusActive, member.StatusInactive, time.Now())
		Expect(errors.Is(err, internal.ErrStatusConflict)).To(BeTrue())

		Expect(repo.TransitionStatus(ctx, "m-1", member.StatusPendingProfile, member.StatusActive, time.Now())).To(Succeed())
		Expect(repo.TransitionStatus(ctx, "m-1", member.StatusActive, member.StatusInactive, time.Now())).To(Succeed())

		got, err := repo.GetByID(ctx, "m-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Status).To(Equal(member.StatusInactive))
	})

	It("should report missing members", func() {
		_, err := repo.GetByID(ctx, "ghost")
		Expect(errors.Is(err, internal.ErrMemberNotFound)).To(BeTrue())
	})
})
