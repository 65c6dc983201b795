package dues

import "time"

type Cycle struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	StartDate time.Time `gorm:"column:start_date;not null"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	Amount    int64     `gorm:"column:amount;not null"`
	IsActive  bool      `gorm:"column:is_active;not null"`
	CreatedBy string    `gorm:"column:created_by;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Cycle) TableName() string {
	return "dues_cycles"
}

type MemberDues struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)"`
	MemberID  string     `gorm:"column:member_id;not null;uniqueIndex:idx_member_dues_member_cycle"`
	CycleID   string     `gorm:"column:cycle_id;not null;uniqueIndex:idx_member_dues_member_cycle"`
	Status    string     `gorm:"column:status;not null"`
	PaidAt    *time.Time `gorm:"column:paid_at"`
	Source    *string    `gorm:"column:source"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (MemberDues) TableName() string {
	return "member_dues"
}

// Notification is the last-notified marker per member, cycle and phase.
type Notification struct {
	MemberID   string    `gorm:"column:member_id;primaryKey"`
	CycleID    string    `gorm:"column:cycle_id;primaryKey"`
	Phase      string    `gorm:"column:phase;primaryKey"`
	NotifiedOn string    `gorm:"column:notified_on;type:varchar(10);not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Notification) TableName() string {
	return "dues_notifications"
}
