package member_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/club-finance/internal/auth"
	memberDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/member"
	"github.com/frahmantamala/club-finance/internal/member"
	memberPostgres "github.com/frahmantamala/club-finance/internal/member/postgres"
	"github.com/frahmantamala/club-finance/pkg/logger"
)

var _ = Describe("Member Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		caller *auth.User
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&memberDatamodel.Member{})).To(Succeed())

		now := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
		Expect(db.Create(&memberDatamodel.Member{
			ID:           "m-1",
			Email:        "new@club.test",
			PasswordHash: "x",
			Role:         string(auth.RoleMember),
			Status:       string(member.StatusPendingProfile),
			CreatedAt:    now,
			UpdatedAt:    now,
		}).Error).To(Succeed())

		service := member.NewService(memberPostgres.NewMemberRepository(db), nil, logger.Discard())
		handler := member.NewHandler(service, logger.Discard())
		caller = &auth.User{ID: "m-1", Email: "new@club.test", Role: auth.RoleMember, Status: string(member.StatusPendingProfile)}

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), caller)))
			})
		})
		router.Get("/members/me", handler.GetCurrentMember)
		router.Post("/members/me/onboarding", handler.CompleteOnboarding)
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should return the signed-in member", func() {
		w := do(http.MethodGet, "/members/me", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["id"]).To(Equal("m-1"))
		Expect(body["status"]).To(Equal("PENDING_PROFILE"))
		Expect(body).NotTo(HaveKey("PasswordHash"))
	})

	It("should activate the member on onboarding and refuse a second completion", func() {
		w := do(http.MethodPost, "/members/me/onboarding", map[string]string{"firstName": "Nia", "lastName": "Okafor"})
		Expect(w.Code).To(Equal(http.StatusOK))

		var stored memberDatamodel.Member
		Expect(db.First(&stored, "id = ?", "m-1").Error).To(Succeed())
		Expect(stored.Status).To(Equal("ACTIVE"))
		Expect(stored.FirstName).To(Equal("Nia"))

		w = do(http.MethodPost, "/members/me/onboarding", map[string]string{"firstName": "Nia", "lastName": "Okafor"})
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("INVALID_MEMBER_STATUS"))
	})

	It("should reject onboarding without a last name", func() {
		w := do(http.MethodPost, "/members/me/onboarding", map[string]string{"firstName": "Nia"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var stored memberDatamodel.Member
		Expect(db.First(&stored, "id = ?", "m-1").Error).To(Succeed())
		Expect(stored.Status).To(Equal("PENDING_PROFILE"))
	})

	It("should 404 when the member row is gone", func() {
		caller = &auth.User{ID: "ghost", Role: auth.RoleMember}
		w := do(http.MethodGet, "/members/me", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
