package dues

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/transport"
)

// AutomationHandler is the cron-facing trigger. It authenticates with a
// shared bearer secret instead of a member session, and answers with plain
// {"error": "..."} bodies.
type AutomationHandler struct {
	*transport.BaseHandler
	Engine Runner
	token  []byte
}

func NewAutomationHandler(engine Runner, token string, lg *slog.Logger) *AutomationHandler {
	return &AutomationHandler{
		BaseHandler: transport.NewBaseHandler(lg),
		Engine:      engine,
		token:       []byte(token),
	}
}

// Run handles POST /dues/automation
func (h *AutomationHandler) Run(w http.ResponseWriter, r *http.Request) {
	token := transport.BearerToken(r)
	if token == "" || len(h.token) == 0 || subtle.ConstantTimeCompare([]byte(token), h.token) != 1 {
		h.Logger.Warn("AutomationHandler: rejected trigger", "remote_addr", r.RemoteAddr)
		h.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req AutomationRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Action == "" {
		h.WriteError(w, http.StatusBadRequest, "Missing action")
		return
	}
	if !req.Action.Valid() {
		h.WriteError(w, http.StatusBadRequest, "Invalid action: "+string(req.Action))
		return
	}

	res, err := h.Engine.Run(r.Context(), req.Action)
	if err != nil {
		if errors.Is(err, internal.ErrNoActiveCycle) {
			h.WriteError(w, http.StatusNotFound, "No active dues cycle found")
			return
		}
		h.Logger.Error("AutomationHandler: run failed", "action", req.Action, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "Automation failed")
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}
