package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/club-finance/internal"
	duesDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/dues"
	"github.com/frahmantamala/club-finance/internal/dues"
)

type CycleRepository struct {
	db *gorm.DB
}

func NewCycleRepository(db *gorm.DB) *CycleRepository {
	return &CycleRepository{db: db}
}

func (r *CycleRepository) CreateActive(ctx context.Context, c *dues.Cycle) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&duesDatamodel.Cycle{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("deactivate previous cycle: %w", err)
		}
		if err := tx.Create(dues.CycleToDataModel(c)).Error; err != nil {
			return fmt.Errorf("insert cycle: %w", err)
		}
		return nil
	})
}

func (r *CycleRepository) GetActive(ctx context.Context) (*dues.Cycle, error) {
	var row duesDatamodel.Cycle
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrNoActiveCycle
		}
		return nil, fmt.Errorf("get active cycle: %w", err)
	}
	return dues.CycleFromDataModel(&row), nil
}

// GetMemberDues never reports not-found: a missing row is UNPAID.
func (r *CycleRepository) GetMemberDues(ctx context.Context, memberID, cycleID string) (*dues.MemberDues, error) {
	var row duesDatamodel.MemberDues
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND cycle_id = ?", memberID, cycleID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dues.MemberDues{MemberID: memberID, CycleID: cycleID, Status: dues.StatusUnpaid}, nil
		}
		return nil, fmt.Errorf("get member dues: %w", err)
	}
	return dues.MemberDuesFromDataModel(&row), nil
}

func (r *CycleRepository) MarkPaid(ctx context.Context, memberID, cycleID, source string, at time.Time) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&duesDatamodel.Cycle{}).Where("id = ?", cycleID).Count(&count).Error; err != nil {
			return fmt.Errorf("check cycle: %w", err)
		}
		if count == 0 {
			return internal.ErrCycleNotFound
		}
		var err error
		changed, err = MarkPaidTx(tx, memberID, cycleID, source, at)
		return err
	})
	return changed, err
}

// ActiveCycleID reads the active cycle inside an open transaction.
func ActiveCycleID(tx *gorm.DB) (string, error) {
	var row duesDatamodel.Cycle
	err := tx.Select("id").Where("is_active = ?", true).Order("created_at DESC").Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", internal.ErrNoActiveCycle
		}
		return "", fmt.Errorf("get active cycle: %w", err)
	}
	return row.ID, nil
}

// MarkPaidTx settles a member's dues inside tx. It reports false when the
// dues were already PAID, which is not an error.
func MarkPaidTx(tx *gorm.DB, memberID, cycleID, source string, at time.Time) (bool, error) {
	res := tx.Model(&duesDatamodel.MemberDues{}).
		Where("member_id = ? AND cycle_id = ? AND status <> ?", memberID, cycleID, string(dues.StatusPaid)).
		Updates(map[string]interface{}{
			"status":     string(dues.StatusPaid),
			"paid_at":    at,
			"source":     source,
			"updated_at": at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("update member dues: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	src := source
	paidAt := at
	row := &duesDatamodel.MemberDues{
		ID:        uuid.NewString(),
		MemberID:  memberID,
		CycleID:   cycleID,
		Status:    string(dues.StatusPaid),
		PaidAt:    &paidAt,
		Source:    &src,
		CreatedAt: at,
		UpdatedAt: at,
	}
	ins := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_id"}, {Name: "cycle_id"}},
		DoNothing: true,
	}).Create(row)
	if ins.Error != nil {
		return false, fmt.Errorf("insert member dues: %w", ins.Error)
	}
	return ins.RowsAffected > 0, nil
}
