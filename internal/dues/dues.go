package dues

import (
	"time"

	duesDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/dues"
)

// Status is a member's standing for one cycle. A missing record reads as
// StatusUnpaid.
type Status string

const (
	StatusUnpaid Status = "UNPAID"
	StatusPaid   Status = "PAID"
)

type Cycle struct {
	ID        string    `json:"id"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Amount    int64     `json:"amount"`
	IsActive  bool      `json:"isActive"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type MemberDues struct {
	MemberID string     `json:"memberId"`
	CycleID  string     `json:"cycleId"`
	Status   Status     `json:"status"`
	PaidAt   *time.Time `json:"paidAt,omitempty"`
	Source   *string    `json:"source,omitempty"`
}

// MyDues pairs the active cycle with the caller's standing in it.
type MyDues struct {
	Cycle *Cycle      `json:"cycle"`
	Dues  *MemberDues `json:"dues"`
}

func CycleToDataModel(c *Cycle) *duesDatamodel.Cycle {
	return &duesDatamodel.Cycle{
		ID:        c.ID,
		StartDate: c.StartDate,
		EndDate:   c.EndDate,
		Amount:    c.Amount,
		IsActive:  c.IsActive,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
	}
}

func CycleFromDataModel(m *duesDatamodel.Cycle) *Cycle {
	return &Cycle{
		ID:        m.ID,
		StartDate: m.StartDate.UTC(),
		EndDate:   m.EndDate.UTC(),
		Amount:    m.Amount,
		IsActive:  m.IsActive,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}

func MemberDuesFromDataModel(m *duesDatamodel.MemberDues) *MemberDues {
	return &MemberDues{
		MemberID: m.MemberID,
		CycleID:  m.CycleID,
		Status:   Status(m.Status),
		PaidAt:   m.PaidAt,
		Source:   m.Source,
	}
}
