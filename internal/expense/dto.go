package expense

import (
	"strings"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/core/common/validation"
)

type SubmitExpenseDTO struct {
	ActivityID     string        `json:"activityId"`
	Category       Category      `json:"category"`
	CustomCategory *string       `json:"customCategory,omitempty"`
	Amount         int64         `json:"amount"`
	Description    *string       `json:"description,omitempty"`
	Vendor         *string       `json:"vendor,omitempty"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	ReceiptURL     *string       `json:"receiptUrl,omitempty"`
}

func categoryNames() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = string(c)
	}
	return out
}

func paymentMethodNames() []string {
	out := make([]string, len(PaymentMethods))
	for i, m := range PaymentMethods {
		out[i] = string(m)
	}
	return out
}

func (d SubmitExpenseDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("activityId", d.ActivityID).Required()
	v.Field("category", string(d.Category)).Required().OneOf(categoryNames()...)
	v.Field("customCategory", d.CustomCategory).RequiredWhen(d.Category == CategoryOther, internal.ErrCodeCustomCategoryRequired)
	v.Field("amount", d.Amount).MinInt(1, internal.ErrCodeInvalidAmount)
	v.Field("paymentMethod", string(d.PaymentMethod)).Required().OneOf(paymentMethodNames()...)
	if d.Description != nil {
		v.Field("description", *d.Description).MaxLength(1000)
	}
	if d.Vendor != nil {
		v.Field("vendor", *d.Vendor).MaxLength(200)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ReviewExpenseDTO struct {
	Decision Status  `json:"decision"`
	Notes    *string `json:"notes,omitempty"`
}

func (d ReviewExpenseDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("decision", string(d.Decision)).Required().OneOf(string(StatusApproved), string(StatusRejected))
	if err := v.Validate(); err != nil {
		return err
	}
	if d.Decision == StatusRejected && (d.Notes == nil || strings.TrimSpace(*d.Notes) == "") {
		return internal.ErrReviewNotesRequired
	}
	return nil
}

type ExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}
