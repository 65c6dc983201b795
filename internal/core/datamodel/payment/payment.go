package payment

import "time"

type Confirmation struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)"`
	MemberID    string     `gorm:"column:member_id;not null;index"`
	Amount      int64      `gorm:"column:amount;not null"`
	Type        string     `gorm:"column:type;not null"`
	Method      string     `gorm:"column:method;not null"`
	EventName   *string    `gorm:"column:event_name"`
	ProofURL    *string    `gorm:"column:proof_url"`
	Status      string     `gorm:"column:status;not null;index"`
	SubmittedAt time.Time  `gorm:"column:submitted_at"`
	ReviewedBy  *string    `gorm:"column:reviewed_by"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at"`
	ReviewNotes *string    `gorm:"column:review_notes"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (Confirmation) TableName() string {
	return "payment_confirmations"
}
