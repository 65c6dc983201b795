package payment

import (
	"time"

	paymentDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/payment"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Type is what an offline payment settles.
type Type string

const (
	TypeDues        Type = "dues"
	TypeEventTicket Type = "event_ticket"
)

var Types = []Type{TypeDues, TypeEventTicket}

type Method string

const (
	MethodCash  Method = "cash"
	MethodCheck Method = "check"
	MethodZelle Method = "zelle"
	MethodVenmo Method = "venmo"
)

var Methods = []Method{MethodCash, MethodCheck, MethodZelle, MethodVenmo}

// Source values recorded on member dues when they are settled.
const (
	SourceConfirmation = "confirmation"
	SourceGateway      = "gateway"
)

type Confirmation struct {
	ID          string     `json:"id"`
	MemberID    string     `json:"memberId"`
	Amount      int64      `json:"amount"`
	Type        Type       `json:"type"`
	Method      Method     `json:"method"`
	EventName   *string    `json:"eventName,omitempty"`
	ProofURL    *string    `json:"proofUrl,omitempty"`
	Status      Status     `json:"status"`
	SubmittedAt time.Time  `json:"submittedAt"`
	ReviewedBy  *string    `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
	ReviewNotes *string    `json:"reviewNotes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Review struct {
	Decision   Status
	ReviewedBy string
	ReviewedAt time.Time
	Notes      *string
}

// Settlement reports what an approval changed besides the confirmation row.
type Settlement struct {
	CycleID    string
	MarkedPaid bool
}

func ToDataModel(c *Confirmation) *paymentDatamodel.Confirmation {
	return &paymentDatamodel.Confirmation{
		ID:          c.ID,
		MemberID:    c.MemberID,
		Amount:      c.Amount,
		Type:        string(c.Type),
		Method:      string(c.Method),
		EventName:   c.EventName,
		ProofURL:    c.ProofURL,
		Status:      string(c.Status),
		SubmittedAt: c.SubmittedAt,
		ReviewedBy:  c.ReviewedBy,
		ReviewedAt:  c.ReviewedAt,
		ReviewNotes: c.ReviewNotes,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(m *paymentDatamodel.Confirmation) *Confirmation {
	return &Confirmation{
		ID:          m.ID,
		MemberID:    m.MemberID,
		Amount:      m.Amount,
		Type:        Type(m.Type),
		Method:      Method(m.Method),
		EventName:   m.EventName,
		ProofURL:    m.ProofURL,
		Status:      Status(m.Status),
		SubmittedAt: m.SubmittedAt,
		ReviewedBy:  m.ReviewedBy,
		ReviewedAt:  m.ReviewedAt,
		ReviewNotes: m.ReviewNotes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*paymentDatamodel.Confirmation) []*Confirmation {
	result := make([]*Confirmation, len(rows))
	for i, row := range rows {
		result[i] = FromDataModel(row)
	}
	return result
}
