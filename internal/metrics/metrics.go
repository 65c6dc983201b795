package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frahmantamala/club-finance/internal/core/events"
)

// Metrics holds the club counters fed from domain events.
type Metrics struct {
	registry *prometheus.Registry

	ActivityTransitions *prometheus.CounterVec
	ExpenseReviews      *prometheus.CounterVec
	ConfirmationReviews *prometheus.CounterVec
	TicketsGranted      prometheus.Counter
	DuesPaid            *prometheus.CounterVec
	DuesNotifications   *prometheus.CounterVec
	MembersInactivated  prometheus.Counter
	MembersOnboarded    prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ActivityTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "club_activity_transitions_total",
			Help: "Activity workflow transitions by action and resulting status.",
		}, []string{"action", "to"}),
		ExpenseReviews: f.NewCounterVec(prometheus.CounterOpts{
			Name: "club_expense_reviews_total",
			Help: "Expense reviews by decision.",
		}, []string{"decision"}),
		ConfirmationReviews: f.NewCounterVec(prometheus.CounterOpts{
			Name: "club_payment_confirmation_reviews_total",
			Help: "Payment confirmation reviews by purpose and decision.",
		}, []string{"purpose", "decision"}),
		TicketsGranted: f.NewCounter(prometheus.CounterOpts{
			Name: "club_tickets_granted_total",
			Help: "Event tickets granted from approved confirmations.",
		}),
		DuesPaid: f.NewCounterVec(prometheus.CounterOpts{
			Name: "club_dues_paid_total",
			Help: "Member dues marked paid by settlement source.",
		}, []string{"source"}),
		DuesNotifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "club_dues_notifications_total",
			Help: "Dues automation notices by phase and result.",
		}, []string{"phase", "result"}),
		MembersInactivated: f.NewCounter(prometheus.CounterOpts{
			Name: "club_members_inactivated_total",
			Help: "Members inactivated after the dues grace period.",
		}),
		MembersOnboarded: f.NewCounter(prometheus.CounterOpts{
			Name: "club_members_onboarded_total",
			Help: "Members that completed onboarding.",
		}),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Subscribe wires the counters to the bus.
func (m *Metrics) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeActivityTransitioned, func(_ context.Context, e events.Event) error {
		if ev, ok := e.(*events.ActivityTransitionedEvent); ok {
			m.ActivityTransitions.WithLabelValues(ev.Action, ev.To).Inc()
		}
		return nil
	})
	bus.Subscribe(events.EventTypeExpenseReviewed, func(_ context.Context, e events.Event) error {
		if ev, ok := e.(*events.ExpenseReviewedEvent); ok {
			m.ExpenseReviews.WithLabelValues(ev.Decision).Inc()
		}
		return nil
	})
	bus.Subscribe(events.EventTypeConfirmationReviewed, func(_ context.Context, e events.Event) error {
		if ev, ok := e.(*events.ConfirmationReviewedEvent); ok {
			m.ConfirmationReviews.WithLabelValues(ev.Purpose, ev.Decision).Inc()
		}
		return nil
	})
	bus.Subscribe(events.EventTypeTicketGranted, func(context.Context, events.Event) error {
		m.TicketsGranted.Inc()
		return nil
	})
	bus.Subscribe(events.EventTypeDuesPaid, func(_ context.Context, e events.Event) error {
		if ev, ok := e.(*events.DuesPaidEvent); ok {
			m.DuesPaid.WithLabelValues(ev.Source).Inc()
		}
		return nil
	})
	bus.Subscribe(events.EventTypeDuesNotificationSent, func(_ context.Context, e events.Event) error {
		if ev, ok := e.(*events.DuesNotificationEvent); ok {
			m.DuesNotifications.WithLabelValues(ev.Phase, ev.Result).Inc()
		}
		return nil
	})
	bus.Subscribe(events.EventTypeMemberInactivated, func(context.Context, events.Event) error {
		m.MembersInactivated.Inc()
		return nil
	})
	bus.Subscribe(events.EventTypeMemberOnboarded, func(context.Context, events.Event) error {
		m.MembersOnboarded.Inc()
		return nil
	})
}
