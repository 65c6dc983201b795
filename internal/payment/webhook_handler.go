package payment

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/frahmantamala/club-finance/internal/transport"
)

const maxWebhookBytes = 64 << 10

// Metadata keys the checkout session must carry for a dues payment.
const (
	MetadataMemberID = "memberId"
	MetadataCycleID  = "cycleId"
	MetadataPurpose  = "purpose"
	PurposeDues      = "dues"
)

type WebhookHandler struct {
	*transport.BaseHandler
	Service ServiceAPI
	secret  string
	logger  *slog.Logger
}

func NewWebhookHandler(service ServiceAPI, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler: transport.NewBaseHandler(logger),
		Service:     service,
		secret:      secret,
		logger:      logger,
	}
}

type WebhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HandleGatewayEvent handles POST /api/v1/payments/webhook
func (h *WebhookHandler) HandleGatewayEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		h.logger.Error("WebhookHandler: failed to read body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"), h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		h.logger.Warn("WebhookHandler: signature verification failed", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid signature")
		return
	}

	h.logger.Info("WebhookHandler: received gateway event", "event_id", event.ID, "event_type", event.Type)

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		h.WriteJSON(w, http.StatusOK, WebhookResponse{Status: "ignored", Message: "event type not handled"})
		return
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		h.logger.Error("WebhookHandler: invalid checkout session payload", "error", err, "event_id", event.ID)
		h.WriteError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	memberID := session.Metadata[MetadataMemberID]
	cycleID := session.Metadata[MetadataCycleID]
	if session.Metadata[MetadataPurpose] != PurposeDues || memberID == "" || cycleID == "" {
		h.logger.Info("WebhookHandler: checkout session is not a dues payment", "event_id", event.ID, "session_id", session.ID)
		h.WriteJSON(w, http.StatusOK, WebhookResponse{Status: "ignored", Message: "not a dues payment"})
		return
	}

	changed, err := h.Service.SettleGatewayDues(r.Context(), memberID, cycleID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	message := "dues marked paid"
	if !changed {
		message = "dues already paid"
	}
	h.WriteJSON(w, http.StatusOK, WebhookResponse{Status: "success", Message: message})
}
