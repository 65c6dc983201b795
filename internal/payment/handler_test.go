package payment_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
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
	duesDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/dues"
	paymentDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/payment"
	"github.com/frahmantamala/club-finance/internal/dues"
	duesPostgres "github.com/frahmantamala/club-finance/internal/dues/postgres"
	"github.com/frahmantamala/club-finance/internal/payment"
	paymentPostgres "github.com/frahmantamala/club-finance/internal/payment/postgres"
	"github.com/frahmantamala/club-finance/pkg/logger"
)

const webhookSecret = "whsec_test_secret"

func signPayload(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

var _ = Describe("Payment Handler Integration", func() {
	var (
		router *chi.Mux
		caller *auth.User
		cycles *duesPostgres.CycleRepository
		cycle  *dues.Cycle
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&paymentDatamodel.Confirmation{}, &duesDatamodel.Cycle{}, &duesDatamodel.MemberDues{})).To(Succeed())

		cycles = duesPostgres.NewCycleRepository(db)
		cycle = &dues.Cycle{
			ID:        "c-2025",
			StartDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
			Amount:    15000,
			IsActive:  true,
			CreatedBy: "admin",
			CreatedAt: time.Now().UTC(),
		}
		Expect(cycles.CreateActive(context.Background(), cycle)).To(Succeed())

		service := payment.NewService(paymentPostgres.NewConfirmationRepository(db), cycles, nil, logger.Discard())
		handler := payment.NewHandler(service, logger.Discard())
		webhooks := payment.NewWebhookHandler(service, webhookSecret, logger.Discard())
		caller = &auth.User{ID: "m-1", Role: auth.RoleMember, Status: "ACTIVE"}

		router = chi.NewRouter()
		router.Post("/payments/webhook", webhooks.HandleGatewayEvent)
		router.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					next.ServeHTTP(w, req.WithContext(auth.WithUser(req.Context(), caller)))
				})
			})
			r.Post("/payments/confirmations", handler.SubmitConfirmation)
			r.Get("/payments/confirmations/mine", handler.ListMyConfirmations)
			r.Get("/payments/confirmations/pending", handler.ListPendingConfirmations)
			r.Get("/payments/confirmations/{id}", handler.GetConfirmation)
			r.Post("/payments/confirmations/{id}/review", handler.ReviewConfirmation)
		})
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

	decode := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var out map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &out)).To(Succeed())
		return out
	}

	duesStatus := func(memberID string) dues.Status {
		d, err := cycles.GetMemberDues(context.Background(), memberID, cycle.ID)
		Expect(err).NotTo(HaveOccurred())
		return d.Status
	}

	Describe("confirmations", func() {
		It("should settle dues when the treasurer approves", func() {
			w := do(http.MethodPost, "/payments/confirmations", map[string]interface{}{
				"amount": 15000, "type": "dues", "method": "check",
			})
			Expect(w.Code).To(Equal(http.StatusCreated))
			id := decode(w)["id"].(string)
			Expect(duesStatus("m-1")).To(Equal(dues.StatusUnpaid))

			caller = &auth.User{ID: "t-1", Role: auth.RoleTreasurer, Status: "ACTIVE"}
			w = do(http.MethodGet, "/payments/confirmations/pending", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["confirmations"]).To(HaveLen(1))

			w = do(http.MethodPost, "/payments/confirmations/"+id+"/review", map[string]interface{}{"decision": "approved"})
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(duesStatus("m-1")).To(Equal(dues.StatusPaid))

			w = do(http.MethodPost, "/payments/confirmations/"+id+"/review", map[string]interface{}{"decision": "approved"})
			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("should return 400 for a ticket without an event name", func() {
			w := do(http.MethodPost, "/payments/confirmations", map[string]interface{}{
				"amount": 2500, "type": "event_ticket", "method": "cash",
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			errBody := decode(w)["error"].(map[string]interface{})
			Expect(errBody["code"]).To(Equal("EVENT_NAME_REQUIRED"))
		})

		It("should return 403 when a member reviews", func() {
			w := do(http.MethodPost, "/payments/confirmations", map[string]interface{}{
				"amount": 15000, "type": "dues", "method": "venmo",
			})
			id := decode(w)["id"].(string)

			w = do(http.MethodPost, "/payments/confirmations/"+id+"/review", map[string]interface{}{"decision": "approved"})
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should return 404 for an unknown confirmation", func() {
			Expect(do(http.MethodGet, "/payments/confirmations/missing", nil).Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("gateway webhook", func() {
		checkoutEvent := func(metadata map[string]string) []byte {
			payload, err := json.Marshal(map[string]interface{}{
				"id":     "evt_1",
				"object": "event",
				"type":   "checkout.session.completed",
				"data": map[string]interface{}{
					"object": map[string]interface{}{
						"id":       "cs_test_1",
						"object":   "checkout.session",
						"metadata": metadata,
					},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			return payload
		}

		post := func(payload []byte, signature string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
			req.Header.Set("Stripe-Signature", signature)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		It("should mark dues paid for a signed checkout event", func() {
			payload := checkoutEvent(map[string]string{"memberId": "m-7", "cycleId": "c-2025", "purpose": "dues"})

			w := post(payload, signPayload(payload, webhookSecret, time.Now()))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["message"]).To(Equal("dues marked paid"))
			Expect(duesStatus("m-7")).To(Equal(dues.StatusPaid))

			w = post(payload, signPayload(payload, webhookSecret, time.Now()))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["message"]).To(Equal("dues already paid"))
		})

		It("should reject a bad signature", func() {
			payload := checkoutEvent(map[string]string{"memberId": "m-7", "cycleId": "c-2025", "purpose": "dues"})

			w := post(payload, signPayload(payload, "whsec_wrong", time.Now()))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(duesStatus("m-7")).To(Equal(dues.StatusUnpaid))
		})

		It("should ignore sessions that are not dues payments", func() {
			payload := checkoutEvent(map[string]string{"purpose": "donation"})

			w := post(payload, signPayload(payload, webhookSecret, time.Now()))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["status"]).To(Equal("ignored"))
		})

		It("should return 404 for an unknown cycle", func() {
			payload := checkoutEvent(map[string]string{"memberId": "m-7", "cycleId": "c-1999", "purpose": "dues"})

			w := post(payload, signPayload(payload, webhookSecret, time.Now()))
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
