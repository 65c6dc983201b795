package activity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/pkg/money"
)

const maxLineItems = 200

// ComputeTotalEstimate is the budget ledger: the integer sum of the line
// item amounts. It is the only way a total estimate is produced.
func ComputeTotalEstimate(items []LineItem) (int64, error) {
	if len(items) > maxLineItems {
		return 0, internal.NewValidationFieldError("lineItems",
			fmt.Sprintf("at most %d line items are allowed", maxLineItems), internal.ErrCodeValidationFailed)
	}

	var details []internal.ValidationError
	amounts := make([]int64, len(items))
	for i, li := range items {
		if strings.TrimSpace(li.Name) == "" {
			details = append(details, internal.ValidationError{
				Field:   fmt.Sprintf("lineItems[%d].name", i),
				Message: "line item name is required",
				Code:    string(internal.ErrCodeValidationFailed),
			})
		}
		if li.Amount < 0 {
			details = append(details, internal.ValidationError{
				Field:   fmt.Sprintf("lineItems[%d].amount", i),
				Message: "line item amount must not be negative",
				Code:    string(internal.ErrCodeInvalidAmount),
			})
		}
		amounts[i] = li.Amount
	}
	if len(details) > 0 {
		return 0, internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: details})
	}

	total, err := money.Sum(amounts...)
	if err != nil {
		if errors.Is(err, money.ErrOverflow) {
			return 0, internal.NewValidationFieldError("lineItems", "budget total is too large", internal.ErrCodeInvalidAmount)
		}
		return 0, internal.NewValidationFieldError("lineItems", err.Error(), internal.ErrCodeInvalidAmount)
	}
	return total, nil
}

func normalizeLineItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, li := range items {
		li.Name = strings.TrimSpace(li.Name)
		if li.Notes != nil && strings.TrimSpace(*li.Notes) == "" {
			li.Notes = nil
		}
		out[i] = li
	}
	return out
}
