package activity_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

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
	"github.com/frahmantamala/club-finance/pkg/logger"
)

var _ = Describe("Activity Handler Integration", func() {
	var (
		router  *chi.Mux
		caller  *auth.User
		handler *activity.Handler
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&activityDatamodel.Activity{})).To(Succeed())

		service := activity.NewService(activityPostgres.NewActivityRepository(db), nil, logger.Discard())
		handler = activity.NewHandler(service, logger.Discard())
		caller = &auth.User{ID: "t-1", Role: auth.RoleTreasurer, Status: "ACTIVE"}

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), caller)))
			})
		})
		router.Post("/activities", handler.CreateActivity)
		router.Get("/activities", handler.ListActivities)
		router.Get("/activities/{id}", handler.GetActivity)
		router.Put("/activities/{id}/budget", handler.UpdateBudget)
		router.Post("/activities/{id}/{action}", handler.Transition)
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

	createBody := map[string]interface{}{
		"name": "Spring Gala",
		"type": "gala",
		"date": "2025-04-12T18:00:00Z",
		"lineItems": []map[string]interface{}{
			{"name": "Venue", "amount": 5000},
			{"name": "Catering", "amount": 3000},
		},
	}

	It("should create and fetch an activity with a derived estimate", func() {
		w := do(http.MethodPost, "/activities", createBody)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		Expect(created["totalEstimate"]).To(BeNumerically("==", 8000))
		Expect(created["status"]).To(Equal("draft"))
		Expect(created["overBudget"]).To(BeFalse())

		w = do(http.MethodGet, "/activities/"+created["id"].(string), nil)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("should reject a client supplied total", func() {
		body := map[string]interface{}{}
		for k, v := range createBody {
			body[k] = v
		}
		body["totalEstimate"] = 1
		w := do(http.MethodPost, "/activities", body)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should return 403 when the role may not transition", func() {
		w := do(http.MethodPost, "/activities", createBody)
		var created map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())

		caller = &auth.User{ID: "p-1", Role: auth.RolePresident, Status: "ACTIVE"}
		w = do(http.MethodPost, "/activities/"+created["id"].(string)+"/submit", nil)
		Expect(w.Code).To(Equal(http.StatusForbidden))

		var resp map[string]map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["error"]["code"]).To(Equal("ROLE_NOT_PERMITTED"))
	})

	It("should return 409 for a transition from the wrong state", func() {
		w := do(http.MethodPost, "/activities", createBody)
		var created map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		id := created["id"].(string)

		Expect(do(http.MethodPost, "/activities/"+id+"/submit", nil).Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodPost, "/activities/"+id+"/submit", nil).Code).To(Equal(http.StatusConflict))
	})

	It("should return 404 for an unknown activity", func() {
		Expect(do(http.MethodGet, "/activities/missing", nil).Code).To(Equal(http.StatusNotFound))
	})

	It("should return 400 when customType is missing for other", func() {
		body := map[string]interface{}{"name": "Misc", "type": "other", "date": "2025-05-01T00:00:00Z"}
		Expect(do(http.MethodPost, "/activities", body).Code).To(Equal(http.StatusBadRequest))
	})
})
