package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Option is one selectable enumeration value.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Catalog struct {
	ActivityTypes       []Option `json:"activityTypes"`
	ExpenseCategories   []Option `json:"expenseCategories"`
	PaymentMethods      []Option `json:"paymentMethods"`
	ConfirmationTypes   []Option `json:"confirmationTypes"`
	ConfirmationMethods []Option `json:"confirmationMethods"`
}

func NewOption(value string) Option {
	return Option{Value: value, Label: label(value)}
}

func options[T ~string](values []T) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = NewOption(string(v))
	}
	return out
}

// label turns "credit_card" into "Credit card".
func label(value string) string {
	s := strings.ReplaceAll(value, "_", " ")
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
