package catalog

import (
	"log/slog"

	"github.com/frahmantamala/club-finance/internal/activity"
	"github.com/frahmantamala/club-finance/internal/expense"
	"github.com/frahmantamala/club-finance/internal/payment"
)

type ServiceAPI interface {
	GetCatalog() *Catalog
}

// Service serves the fixed enumerations the client forms are built from.
type Service struct {
	catalog *Catalog
	logger  *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{
		catalog: &Catalog{
			ActivityTypes:       options(activity.Types),
			ExpenseCategories:   options(expense.Categories),
			PaymentMethods:      options(expense.PaymentMethods),
			ConfirmationTypes:   options(payment.Types),
			ConfirmationMethods: options(payment.Methods),
		},
		logger: logger,
	}
}

func (s *Service) GetCatalog() *Catalog {
	s.logger.Debug("CatalogService: serving catalog",
		"activity_types", len(s.catalog.ActivityTypes),
		"expense_categories", len(s.catalog.ExpenseCategories))
	return s.catalog
}
