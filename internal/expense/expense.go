package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/expense"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Category string

const (
	CategoryVenue          Category = "venue"
	CategoryCatering       Category = "catering"
	CategoryDecorations    Category = "decorations"
	CategoryEntertainment  Category = "entertainment"
	CategorySupplies       Category = "supplies"
	CategoryMarketing      Category = "marketing"
	CategoryTransportation Category = "transportation"
	CategoryPrinting       Category = "printing"
	CategoryOther          Category = "other"
)

var Categories = []Category{
	CategoryVenue, CategoryCatering, CategoryDecorations, CategoryEntertainment,
	CategorySupplies, CategoryMarketing, CategoryTransportation, CategoryPrinting, CategoryOther,
}

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodCheck      PaymentMethod = "check"
	PaymentMethodZelle      PaymentMethod = "zelle"
	PaymentMethodVenmo      PaymentMethod = "venmo"
)

var PaymentMethods = []PaymentMethod{
	PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodCash,
	PaymentMethodCheck, PaymentMethodZelle, PaymentMethodVenmo,
}

type Expense struct {
	ID             string        `json:"id"`
	ActivityID     string        `json:"activityId"`
	Category       Category      `json:"category"`
	CustomCategory *string       `json:"customCategory,omitempty"`
	Amount         int64         `json:"amount"`
	Description    *string       `json:"description,omitempty"`
	Vendor         *string       `json:"vendor,omitempty"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	ReceiptURL     *string       `json:"receiptUrl,omitempty"`
	Status         Status        `json:"status"`
	SubmittedBy    string        `json:"submittedBy"`
	SubmittedAt    time.Time     `json:"submittedAt"`
	ReviewedBy     *string       `json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time    `json:"reviewedAt,omitempty"`
	ReviewNotes    *string       `json:"reviewNotes,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// Review is the terminal decision recorded on a pending expense.
type Review struct {
	Decision   Status
	ReviewedBy string
	ReviewedAt time.Time
	Notes      *string
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:             e.ID,
		ActivityID:     e.ActivityID,
		Category:       string(e.Category),
		CustomCategory: e.CustomCategory,
		Amount:         e.Amount,
		Description:    e.Description,
		Vendor:         e.Vendor,
		PaymentMethod:  string(e.PaymentMethod),
		ReceiptURL:     e.ReceiptURL,
		Status:         string(e.Status),
		SubmittedBy:    e.SubmittedBy,
		SubmittedAt:    e.SubmittedAt,
		ReviewedBy:     e.ReviewedBy,
		ReviewedAt:     e.ReviewedAt,
		ReviewNotes:    e.ReviewNotes,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:             e.ID,
		ActivityID:     e.ActivityID,
		Category:       Category(e.Category),
		CustomCategory: e.CustomCategory,
		Amount:         e.Amount,
		Description:    e.Description,
		Vendor:         e.Vendor,
		PaymentMethod:  PaymentMethod(e.PaymentMethod),
		ReceiptURL:     e.ReceiptURL,
		Status:         Status(e.Status),
		SubmittedBy:    e.SubmittedBy,
		SubmittedAt:    e.SubmittedAt,
		ReviewedBy:     e.ReviewedBy,
		ReviewedAt:     e.ReviewedAt,
		ReviewNotes:    e.ReviewNotes,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(rows))
	for i, e := range rows {
		result[i] = FromDataModel(e)
	}
	return result
}
