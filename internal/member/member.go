package member

import (
	"time"

	"github.com/frahmantamala/club-finance/internal/auth"
	memberDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/member"
)

type Status string

const (
	StatusPendingProfile Status = "PENDING_PROFILE"
	StatusActive         Status = "ACTIVE"
	StatusInactive       Status = "INACTIVE"
)

type Member struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        *string   `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile is the signed-in member's view of themself.
type Profile struct {
	*Member
	Permissions []auth.Action `json:"permissions"`
}

func ToDataModel(m *Member) *memberDatamodel.Member {
	return &memberDatamodel.Member{
		ID:           m.ID,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		Role:         string(m.Role),
		Status:       string(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func FromDataModel(m *memberDatamodel.Member) *Member {
	return &Member{
		ID:           m.ID,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		PasswordHash: m.PasswordHash,
		Role:         auth.Role(m.Role),
		Status:       Status(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
