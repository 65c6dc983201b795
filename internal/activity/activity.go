package activity

import (
	"time"

	"github.com/shopspring/decimal"

	activityDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/activity"
	"github.com/frahmantamala/club-finance/pkg/money"
)

type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
)

// Terminal reports whether no workflow action leaves this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// AcceptsExpenses reports whether expenses may be logged against the activity.
func (s Status) AcceptsExpenses() bool {
	return s == StatusApproved || s == StatusCompleted
}

type Type string

const (
	TypeGala         Type = "gala"
	TypeSocial       Type = "social"
	TypeVolunteering Type = "volunteering"
	TypeConference   Type = "conference"
	TypeExcursion    Type = "excursion"
	TypeWebsite      Type = "website"
	TypeMaintenance  Type = "maintenance"
	TypeOther        Type = "other"
)

var Types = []Type{
	TypeGala, TypeSocial, TypeVolunteering, TypeConference,
	TypeExcursion, TypeWebsite, TypeMaintenance, TypeOther,
}

type LineItem struct {
	Name   string  `json:"name"`
	Amount int64   `json:"amount"`
	Notes  *string `json:"notes,omitempty"`
}

type Approvals struct {
	TreasurerSubmitted   bool       `json:"treasurerSubmitted"`
	TreasurerSubmittedAt *time.Time `json:"treasurerSubmittedAt,omitempty"`
	PresidentApproved    bool       `json:"presidentApproved"`
	PresidentApprovedAt  *time.Time `json:"presidentApprovedAt,omitempty"`
}

// Actual is absent until the first expense against the activity is approved.
type Actual struct {
	TotalSpent int64 `json:"totalSpent"`
}

type Activity struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Type          Type       `json:"type"`
	CustomType    *string    `json:"customType,omitempty"`
	Date          time.Time  `json:"date"`
	Location      *string    `json:"location,omitempty"`
	Description   *string    `json:"description,omitempty"`
	LinkedEventID *string    `json:"linkedEventId,omitempty"`
	LineItems     []LineItem `json:"lineItems"`
	TotalEstimate int64      `json:"totalEstimate"`
	Actual        *Actual    `json:"actual,omitempty"`
	Status        Status     `json:"status"`
	Approvals     Approvals  `json:"approvals"`
	CreatedBy     string     `json:"createdBy"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (a *Activity) TotalSpent() int64 {
	if a.Actual == nil {
		return 0
	}
	return a.Actual.TotalSpent
}

// View is the read model returned by the API.
type View struct {
	*Activity
	UtilizationPercent *decimal.Decimal `json:"utilizationPercent,omitempty"`
	OverBudget         bool             `json:"overBudget"`
}

func NewView(a *Activity) *View {
	v := &View{Activity: a}
	if pct, ok := money.Utilization(a.TotalSpent(), a.TotalEstimate); ok {
		v.UtilizationPercent = &pct
	}
	v.OverBudget = a.TotalSpent() > a.TotalEstimate
	return v
}

func ToDataModel(a *Activity) *activityDatamodel.Activity {
	items := make([]activityDatamodel.LineItem, len(a.LineItems))
	for i, li := range a.LineItems {
		items[i] = activityDatamodel.LineItem{Name: li.Name, Amount: li.Amount, Notes: li.Notes}
	}

	var spent *int64
	if a.Actual != nil {
		total := a.Actual.TotalSpent
		spent = &total
	}

	return &activityDatamodel.Activity{
		ID:                   a.ID,
		Name:                 a.Name,
		Type:                 string(a.Type),
		CustomType:           a.CustomType,
		Date:                 a.Date,
		Location:             a.Location,
		Description:          a.Description,
		LinkedEventID:        a.LinkedEventID,
		LineItems:            items,
		TotalEstimate:        a.TotalEstimate,
		TotalSpent:           spent,
		Status:               string(a.Status),
		TreasurerSubmitted:   a.Approvals.TreasurerSubmitted,
		TreasurerSubmittedAt: a.Approvals.TreasurerSubmittedAt,
		PresidentApproved:    a.Approvals.PresidentApproved,
		PresidentApprovedAt:  a.Approvals.PresidentApprovedAt,
		CreatedBy:            a.CreatedBy,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

func FromDataModel(m *activityDatamodel.Activity) *Activity {
	items := make([]LineItem, len(m.LineItems))
	for i, li := range m.LineItems {
		items[i] = LineItem{Name: li.Name, Amount: li.Amount, Notes: li.Notes}
	}

	var actual *Actual
	if m.TotalSpent != nil {
		actual = &Actual{TotalSpent: *m.TotalSpent}
	}

	return &Activity{
		ID:            m.ID,
		Name:          m.Name,
		Type:          Type(m.Type),
		CustomType:    m.CustomType,
		Date:          m.Date,
		Location:      m.Location,
		Description:   m.Description,
		LinkedEventID: m.LinkedEventID,
		LineItems:     items,
		TotalEstimate: m.TotalEstimate,
		Actual:        actual,
		Status:        Status(m.Status),
		Approvals: Approvals{
			TreasurerSubmitted:   m.TreasurerSubmitted,
			TreasurerSubmittedAt: m.TreasurerSubmittedAt,
			PresidentApproved:    m.PresidentApproved,
			PresidentApprovedAt:  m.PresidentApprovedAt,
		},
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
