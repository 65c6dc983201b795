package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/club-finance/internal/activity"
	"github.com/frahmantamala/club-finance/internal/auth"
	"github.com/frahmantamala/club-finance/internal/catalog"
	"github.com/frahmantamala/club-finance/internal/dues"
	"github.com/frahmantamala/club-finance/internal/expense"
	"github.com/frahmantamala/club-finance/internal/member"
	"github.com/frahmantamala/club-finance/internal/payment"
	"github.com/frahmantamala/club-finance/internal/transport/middleware"
	"github.com/frahmantamala/club-finance/internal/transport/swagger"
)

// Handlers groups everything mounted under /api/v1. Nil handlers are skipped.
type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	Member     *member.Handler
	Activity   *activity.Handler
	Expense    *expense.Handler
	Payment    *payment.Handler
	Webhook    *payment.WebhookHandler
	Dues       *dues.Handler
	Automation *dues.AutomationHandler
	Catalog    *catalog.Handler
}

type Options struct {
	AllowedOrigins string
	Document       []byte
	MetricsPath    string
	Metrics        http.Handler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	rbac := auth.NewRBACAuthorization(logger)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware)
	router.Use(chiMiddleware.Recoverer)

	if opts.Document != nil {
		router.Get(swagger.DocumentPath, swagger.DocumentHandler(opts.Document))
		router.Handle("/swagger/*", swagger.Handler())
	}
	if opts.Metrics != nil && opts.MetricsPath != "" {
		router.Handle(opts.MetricsPath, opts.Metrics)
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}
		if h.Catalog != nil {
			r.Get("/catalog", h.Catalog.GetCatalog)
		}

		// Machine callers authenticate on their own terms.
		if h.Webhook != nil {
			r.Post("/payments/webhook", h.Webhook.HandleGatewayEvent)
		}
		if h.Automation != nil {
			r.Post("/dues/automation", h.Automation.Run)
		}

		if h.Auth == nil {
			return
		}
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.Member != nil {
				pr.Get("/members/me", h.Member.GetCurrentMember)
				pr.Post("/members/me/onboarding", h.Member.CompleteOnboarding)
			}

			if h.Activity != nil {
				pr.Route("/activities", func(ar chi.Router) {
					ar.Get("/", h.Activity.ListActivities)
					ar.With(rbac.Require(auth.ActionActivityCreate)).Post("/", h.Activity.CreateActivity)
					ar.Get("/{id}", h.Activity.GetActivity)
					ar.With(rbac.Require(auth.ActionActivityUpdateBudget)).Put("/{id}/budget", h.Activity.UpdateBudget)
					if h.Expense != nil {
						ar.With(rbac.Require(auth.ActionExpenseView)).Get("/{id}/expenses", h.Expense.ListActivityExpenses)
					}
					ar.Post("/{id}/{action}", h.Activity.Transition)
				})
			}

			if h.Expense != nil {
				pr.Route("/expenses", func(er chi.Router) {
					er.With(rbac.Require(auth.ActionExpenseSubmit)).Post("/", h.Expense.SubmitExpense)
					er.With(rbac.Require(auth.ActionExpenseReview)).Get("/pending", h.Expense.ListPendingExpenses)
					er.With(rbac.Require(auth.ActionExpenseView)).Get("/{id}", h.Expense.GetExpense)
					er.With(rbac.Require(auth.ActionExpenseReview)).Post("/{id}/review", h.Expense.ReviewExpense)
				})
			}

			if h.Payment != nil {
				pr.Route("/payments/confirmations", func(cr chi.Router) {
					cr.Post("/", h.Payment.SubmitConfirmation)
					cr.Get("/mine", h.Payment.ListMyConfirmations)
					cr.With(rbac.Require(auth.ActionPaymentReview)).Get("/pending", h.Payment.ListPendingConfirmations)
					cr.Get("/{id}", h.Payment.GetConfirmation)
					cr.With(rbac.Require(auth.ActionPaymentReview)).Post("/{id}/review", h.Payment.ReviewConfirmation)
				})
			}

			if h.Dues != nil {
				pr.With(rbac.Require(auth.ActionDuesCycleCreate)).Post("/dues/cycles", h.Dues.CreateCycle)
				pr.Get("/dues/cycles/active", h.Dues.GetActiveCycle)
				pr.Get("/dues/me", h.Dues.GetMyDues)
			}
		})
	})
}
