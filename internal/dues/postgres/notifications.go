package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	duesDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/dues"
	"github.com/frahmantamala/club-finance/internal/dues"
)

type NotificationLog struct {
	db *gorm.DB
}

func NewNotificationLog(db *gorm.DB) *NotificationLog {
	return &NotificationLog{db: db}
}

func (l *NotificationLog) LastNotifiedOn(ctx context.Context, memberID, cycleID string, action dues.Action) (string, error) {
	var row duesDatamodel.Notification
	err := l.db.WithContext(ctx).
		Where("member_id = ? AND cycle_id = ? AND phase = ?", memberID, cycleID, string(action)).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get notification marker: %w", err)
	}
	return row.NotifiedOn, nil
}

func (l *NotificationLog) MarkNotified(ctx context.Context, memberID, cycleID string, action dues.Action, day string, at time.Time) error {
	row := &duesDatamodel.Notification{
		MemberID:   memberID,
		CycleID:    cycleID,
		Phase:      string(action),
		NotifiedOn: day,
		UpdatedAt:  at,
	}
	err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "cycle_id"}, {Name: "phase"}},
		DoUpdates: clause.AssignmentColumns([]string{"notified_on", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("store notification marker: %w", err)
	}
	return nil
}
