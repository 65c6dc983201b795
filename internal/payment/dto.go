package payment

import (
	"strings"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/core/common/validation"
)

type SubmitConfirmationDTO struct {
	Amount    int64   `json:"amount"`
	Type      Type    `json:"type"`
	Method    Method  `json:"method"`
	EventName *string `json:"eventName,omitempty"`
	ProofURL  *string `json:"proofUrl,omitempty"`
}

func typeNames() []string {
	out := make([]string, len(Types))
	for i, t := range Types {
		out[i] = string(t)
	}
	return out
}

func methodNames() []string {
	out := make([]string, len(Methods))
	for i, m := range Methods {
		out[i] = string(m)
	}
	return out
}

func (d SubmitConfirmationDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("amount", d.Amount).MinInt(1, internal.ErrCodeInvalidAmount)
	v.Field("type", string(d.Type)).Required().OneOf(typeNames()...)
	v.Field("method", string(d.Method)).Required().OneOf(methodNames()...)
	v.Field("eventName", d.EventName).RequiredWhen(d.Type == TypeEventTicket, internal.ErrCodeEventNameRequired)
	if d.ProofURL != nil {
		v.Field("proofUrl", *d.ProofURL).MaxLength(2048)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ReviewConfirmationDTO struct {
	Decision Status  `json:"decision"`
	Notes    *string `json:"notes,omitempty"`
}

func (d ReviewConfirmationDTO) Validate() error {
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

type ConfirmationsResponse struct {
	Confirmations []*Confirmation `json:"confirmations"`
}
