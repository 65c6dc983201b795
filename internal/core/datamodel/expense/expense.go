package expense

import "time"

type Expense struct {
	ID             string     `gorm:"primaryKey;type:varchar(36)"`
	ActivityID     string     `gorm:"column:activity_id;not null;index"`
	Category       string     `gorm:"column:category;not null"`
	CustomCategory *string    `gorm:"column:custom_category"`
	Amount         int64      `gorm:"column:amount;not null"`
	Description    *string    `gorm:"column:description"`
	Vendor         *string    `gorm:"column:vendor"`
	PaymentMethod  string     `gorm:"column:payment_method;not null"`
	ReceiptURL     *string    `gorm:"column:receipt_url"`
	Status         string     `gorm:"column:status;not null;index"`
	SubmittedBy    string     `gorm:"column:submitted_by;not null"`
	SubmittedAt    time.Time  `gorm:"column:submitted_at"`
	ReviewedBy     *string    `gorm:"column:reviewed_by"`
	ReviewedAt     *time.Time `gorm:"column:reviewed_at"`
	ReviewNotes    *string    `gorm:"column:review_notes"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (Expense) TableName() string {
	return "expenses"
}
