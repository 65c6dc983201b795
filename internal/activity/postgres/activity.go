package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/activity"
	activityDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/activity"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity.ToDataModel(a)).Error; err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*activity.Activity, error) {
	var row activityDatamodel.Activity
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrActivityNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return activity.FromDataModel(&row), nil
}

func (r *ActivityRepository) List(ctx context.Context, q activity.ListQuery) ([]*activity.Activity, error) {
	var rows []*activityDatamodel.Activity
	tx := r.db.WithContext(ctx).Order("date DESC, created_at DESC")
	if q.Status != "" {
		tx = tx.Where("status = ?", string(q.Status))
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	out := make([]*activity.Activity, len(rows))
	for i, row := range rows {
		out[i] = activity.FromDataModel(row)
	}
	return out, nil
}

// UpdateIfStatus leaves total_spent alone; only the expense ledger moves it.
func (r *ActivityRepository) UpdateIfStatus(ctx context.Context, a *activity.Activity, expected activity.Status) error {
	row := activity.ToDataModel(a)
	res := r.db.WithContext(ctx).
		Model(&activityDatamodel.Activity{}).
		Where("id = ? AND status = ?", a.ID, string(expected)).
		Updates(map[string]interface{}{
			"status":                 row.Status,
			"line_items":             row.LineItems,
			"total_estimate":         row.TotalEstimate,
			"treasurer_submitted":    row.TreasurerSubmitted,
			"treasurer_submitted_at": row.TreasurerSubmittedAt,
			"president_approved":     row.PresidentApproved,
			"president_approved_at":  row.PresidentApprovedAt,
			"updated_at":             row.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update activity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrStatusConflict
	}
	return nil
}
