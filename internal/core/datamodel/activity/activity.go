package activity

import (
	"time"

	"gorm.io/datatypes"
)

type LineItem struct {
	Name   string  `json:"name"`
	Amount int64   `json:"amount"`
	Notes  *string `json:"notes,omitempty"`
}

type Activity struct {
	ID                   string                        `gorm:"primaryKey;type:varchar(36)"`
	Name                 string                        `gorm:"column:name;not null"`
	Type                 string                        `gorm:"column:type;not null"`
	CustomType           *string                       `gorm:"column:custom_type"`
	Date                 time.Time                     `gorm:"column:date;not null"`
	Location             *string                       `gorm:"column:location"`
	Description          *string                       `gorm:"column:description"`
	LinkedEventID        *string                       `gorm:"column:linked_event_id"`
	LineItems            datatypes.JSONSlice[LineItem] `gorm:"column:line_items"`
	TotalEstimate        int64                         `gorm:"column:total_estimate;not null"`
	TotalSpent           *int64                        `gorm:"column:total_spent"`
	Status               string                        `gorm:"column:status;not null;index"`
	TreasurerSubmitted   bool                          `gorm:"column:treasurer_submitted;not null"`
	TreasurerSubmittedAt *time.Time                    `gorm:"column:treasurer_submitted_at"`
	PresidentApproved    bool                          `gorm:"column:president_approved;not null"`
	PresidentApprovedAt  *time.Time                    `gorm:"column:president_approved_at"`
	CreatedBy            string                        `gorm:"column:created_by;not null"`
	CreatedAt            time.Time                     `gorm:"column:created_at"`
	UpdatedAt            time.Time                     `gorm:"column:updated_at"`
}

func (Activity) TableName() string {
	return "activities"
}
