package activity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/auth"
	"github.com/frahmantamala/club-finance/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, r, internal.ErrInvalidToken)
		return nil, false
	}
	return user, true
}

func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto CreateActivityDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	a, err := h.Service.CreateActivity(r.Context(), user, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, NewView(a))
}

func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.GetActivity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewView(a))
}

func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListActivities(r.Context(), ListQuery{Status: Status(r.URL.Query().Get("status"))})
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	views := make([]*View, len(list))
	for i, a := range list {
		views[i] = NewView(a)
	}
	h.WriteJSON(w, http.StatusOK, ActivitiesResponse{Activities: views})
}

func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto UpdateBudgetDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	a, err := h.Service.UpdateBudget(r.Context(), user, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewView(a))
}

// Transition serves POST /activities/{id}/{action}.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actor(w, r)
	if !ok {
		return
	}

	a, err := h.Service.Transition(r.Context(), user, chi.URLParam(r, "id"), Action(chi.URLParam(r, "action")))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewView(a))
}
