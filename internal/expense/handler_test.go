package expense_test

import (
	"bytes"
	"context"
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

	"github.com/frahmantamala/club-finance/internal/activity"
	activityPostgres "github.com/frahmantamala/club-finance/internal/activity/postgres"
	"github.com/frahmantamala/club-finance/internal/auth"
	activityDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/activity"
	expenseDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/expense"
	"github.com/frahmantamala/club-finance/internal/expense"
	expensePostgres "github.com/frahmantamala/club-finance/internal/expense/postgres"
	"github.com/frahmantamala/club-finance/pkg/logger"
)

var _ = Describe("Expense Handler Integration", func() {
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
		Expect(db.AutoMigrate(&activityDatamodel.Activity{}, &expenseDatamodel.Expense{})).To(Succeed())

		activities := activityPostgres.NewActivityRepository(db)
		now := time.Now().UTC()
		for id, status := range map[string]activity.Status{"open": activity.StatusApproved, "draft": activity.StatusDraft} {
			Expect(activities.Create(context.Background(), &activity.Activity{
				ID: id, Name: "Picnic", Type: activity.TypeSocial, Date: now,
				LineItems: []activity.LineItem{{Name: "Food", Amount: 8000}}, TotalEstimate: 8000,
				Status: status, CreatedBy: "t-1", CreatedAt: now, UpdatedAt: now,
			})).To(Succeed())
		}

		service := expense.NewService(expensePostgres.NewExpenseRepository(db), activities, nil, logger.Discard())
		handler := expense.NewHandler(service, logger.Discard())
		caller = &auth.User{ID: "t-1", Role: auth.RoleTreasurer, Status: "ACTIVE"}

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), caller)))
			})
		})
		router.Post("/expenses", handler.SubmitExpense)
		router.Get("/expenses/pending", handler.ListPendingExpenses)
		router.Get("/expenses/{id}", handler.GetExpense)
		router.Post("/expenses/{id}/review", handler.ReviewExpense)
		router.Get("/activities/{id}/expenses", handler.ListActivityExpenses)
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

	submit := func(activityID string) *httptest.ResponseRecorder {
		return do(http.MethodPost, "/expenses", map[string]interface{}{
			"activityId":    activityID,
			"category":      "catering",
			"amount":        2000,
			"paymentMethod": "zelle",
			"vendor":        "Deli Co",
		})
	}

	decode := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var out map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &out)).To(Succeed())
		return out
	}

	It("should submit, review and list an expense", func() {
		w := submit("open")
		Expect(w.Code).To(Equal(http.StatusCreated))
		created := decode(w)
		Expect(created["status"]).To(Equal("pending"))
		id := created["id"].(string)

		w = do(http.MethodGet, "/expenses/pending", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["expenses"]).To(HaveLen(1))

		w = do(http.MethodPost, "/expenses/"+id+"/review", map[string]interface{}{"decision": "approved"})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["status"]).To(Equal("approved"))

		w = do(http.MethodPost, "/expenses/"+id+"/review", map[string]interface{}{"decision": "approved"})
		Expect(w.Code).To(Equal(http.StatusConflict))
		errBody := decode(w)["error"].(map[string]interface{})
		Expect(errBody["code"]).To(Equal("INVALID_EXPENSE_STATUS"))

		w = do(http.MethodGet, "/activities/open/expenses", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["expenses"]).To(HaveLen(1))
	})

	It("should return 409 for an activity that is not approved", func() {
		w := submit("draft")
		Expect(w.Code).To(Equal(http.StatusConflict))
		errBody := decode(w)["error"].(map[string]interface{})
		Expect(errBody["code"]).To(Equal("ACTIVITY_NOT_APPROVED"))
	})

	It("should return 400 for a rejection without notes", func() {
		id := decode(submit("open"))["id"].(string)

		w := do(http.MethodPost, "/expenses/"+id+"/review", map[string]interface{}{"decision": "rejected"})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		errBody := decode(w)["error"].(map[string]interface{})
		Expect(errBody["code"]).To(Equal("REVIEW_NOTES_REQUIRED"))
	})

	It("should return 403 for members", func() {
		caller = &auth.User{ID: "m-1", Role: auth.RoleMember, Status: "ACTIVE"}
		Expect(submit("open").Code).To(Equal(http.StatusForbidden))
	})

	It("should return 404 for an unknown activity", func() {
		Expect(submit("missing").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodGet, "/expenses/missing", nil).Code).To(Equal(http.StatusNotFound))
	})
})
