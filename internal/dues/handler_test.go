package dues_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/auth"
	duesDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/dues"
	"github.com/frahmantamala/club-finance/internal/dues"
	duesPostgres "github.com/frahmantamala/club-finance/internal/dues/postgres"
	"github.com/frahmantamala/club-finance/pkg/logger"
)

var _ = Describe("Dues Handler Integration", func() {
	var (
		router *chi.Mux
		caller *auth.User
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&duesDatamodel.Cycle{}, &duesDatamodel.MemberDues{})).To(Succeed())

		service := dues.NewService(duesPostgres.NewCycleRepository(db), logger.Discard())
		handler := dues.NewHandler(service, logger.Discard())
		caller = &auth.User{ID: "a-1", Role: auth.RoleAdmin, Status: "ACTIVE"}

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), caller)))
			})
		})
		router.Post("/dues/cycles", handler.CreateCycle)
		router.Get("/dues/cycles/active", handler.GetActiveCycle)
		router.Get("/dues/me", handler.GetMyDues)
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf).WithContext(context.Background())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	cycleBody := map[string]interface{}{
		"startDate": "2024-07-01T00:00:00Z",
		"endDate":   "2025-06-30T00:00:00Z",
		"amount":    15000,
	}

	It("should create a cycle and report it as active", func() {
		w := do(http.MethodPost, "/dues/cycles", cycleBody)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var created dues.Cycle
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.IsActive).To(BeTrue())

		w = do(http.MethodGet, "/dues/cycles/active", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var active dues.Cycle
		Expect(json.NewDecoder(w.Body).Decode(&active)).To(Succeed())
		Expect(active.ID).To(Equal(created.ID))
		Expect(active.Amount).To(Equal(int64(15000)))
	})

	It("should return 404 NO_ACTIVE_CYCLE before any cycle exists", func() {
		w := do(http.MethodGet, "/dues/me", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeNoActiveCycle)))
	})

	It("should show the caller as unpaid in a fresh cycle", func() {
		Expect(do(http.MethodPost, "/dues/cycles", cycleBody).Code).To(Equal(http.StatusCreated))

		caller = &auth.User{ID: "m-1", Role: auth.RoleMember, Status: "ACTIVE"}
		w := do(http.MethodGet, "/dues/me", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var mine dues.MyDues
		Expect(json.NewDecoder(w.Body).Decode(&mine)).To(Succeed())
		Expect(mine.Dues.Status).To(Equal(dues.StatusUnpaid))
		Expect(mine.Dues.MemberID).To(Equal("m-1"))
	})

	It("should forbid cycle creation for non-admins", func() {
		caller = &auth.User{ID: "t-1", Role: auth.RoleTreasurer, Status: "ACTIVE"}
		w := do(http.MethodPost, "/dues/cycles", cycleBody)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("should reject an end date before the start date", func() {
		w := do(http.MethodPost, "/dues/cycles", map[string]interface{}{
			"startDate": "2025-06-30T00:00:00Z",
			"endDate":   "2024-07-01T00:00:00Z",
			"amount":    15000,
		})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeInvalidDate)))
	})
})

type stubRunner struct {
	result *dues.Result
	err    error
	ran    []dues.Action
}

func (s *stubRunner) Run(_ context.Context, action dues.Action) (*dues.Result, error) {
	s.ran = append(s.ran, action)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

var _ = Describe("Automation Handler", func() {
	const secret = "cron-secret-0123456789"

	var (
		runner  *stubRunner
		handler *dues.AutomationHandler
	)

	BeforeEach(func() {
		sent := 2
		runner = &stubRunner{result: &dues.Result{
			Success: true,
			Message: "Sent 2 reminder(s)",
			Action:  dues.ActionSendReminders,
			CycleID: "c-2025",
			Sent:    &sent,
		}}
		handler = dues.NewAutomationHandler(runner, secret, logger.Discard())
	})

	trigger := func(token, body string) (int, map[string]interface{}) {
		req := httptest.NewRequest(http.MethodPost, "/dues/automation", strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		handler.Run(w, req)
		var out map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&out)).To(Succeed())
		return w.Code, out
	}

	DescribeTable("rejections",
		func(token, body string, status int, message string) {
			code, out := trigger(token, body)
			Expect(code).To(Equal(status))
			Expect(out).To(HaveKeyWithValue("error", message))
			Expect(runner.ran).To(BeEmpty())
		},
		Entry("no token", "", `{"action":"send-reminders"}`, http.StatusUnauthorized, "Unauthorized"),
		Entry("wrong token", "nope", `{"action":"send-reminders"}`, http.StatusUnauthorized, "Unauthorized"),
		Entry("malformed body", secret, `{"action":`, http.StatusBadRequest, "Invalid request body"),
		Entry("missing action", secret, `{}`, http.StatusBadRequest, "Missing action"),
		Entry("unknown action", secret, `{"action":"send-all"}`, http.StatusBadRequest, "Invalid action: send-all"),
	)

	It("should run the phase and return its summary", func() {
		code, out := trigger(secret, `{"action":"send-reminders"}`)
		Expect(code).To(Equal(http.StatusOK))
		Expect(out).To(HaveKeyWithValue("success", true))
		Expect(out).To(HaveKeyWithValue("sent", BeNumerically("==", 2)))
		Expect(out).To(HaveKeyWithValue("cycleId", "c-2025"))
		Expect(runner.ran).To(Equal([]dues.Action{dues.ActionSendReminders}))
	})

	It("should answer 404 without an active cycle", func() {
		runner.err = internal.ErrNoActiveCycle
		code, out := trigger(secret, `{"action":"enforce-grace"}`)
		Expect(code).To(Equal(http.StatusNotFound))
		Expect(out).To(HaveKeyWithValue("error", "No active dues cycle found"))
	})

	It("should hide other failures behind a 500", func() {
		runner.err = errors.New("pq: connection refused")
		code, out := trigger(secret, `{"action":"send-overdue"}`)
		Expect(code).To(Equal(http.StatusInternalServerError))
		Expect(out).To(HaveKeyWithValue("error", "Automation failed"))
	})
})
