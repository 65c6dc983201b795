package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/club-finance/internal"
	paymentDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/payment"
	duesPostgres "github.com/frahmantamala/club-finance/internal/dues/postgres"
	"github.com/frahmantamala/club-finance/internal/payment"
)

// ConfirmationRepository implements payment.Repository using GORM
type ConfirmationRepository struct {
	db *gorm.DB
}

func NewConfirmationRepository(db *gorm.DB) *ConfirmationRepository {
	return &ConfirmationRepository{db: db}
}

func (r *ConfirmationRepository) Create(ctx context.Context, c *payment.Confirmation) error {
	if err := r.db.WithContext(ctx).Create(payment.ToDataModel(c)).Error; err != nil {
		return fmt.Errorf("insert payment confirmation: %w", err)
	}
	return nil
}

func (r *ConfirmationRepository) GetByID(ctx context.Context, id string) (*payment.Confirmation, error) {
	var row paymentDatamodel.Confirmation
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrConfirmationNotFound
		}
		return nil, fmt.Errorf("get payment confirmation: %w", err)
	}
	return payment.FromDataModel(&row), nil
}

func (r *ConfirmationRepository) ListByMember(ctx context.Context, memberID string) ([]*payment.Confirmation, error) {
	var rows []*paymentDatamodel.Confirmation
	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("submitted_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list payment confirmations: %w", err)
	}
	return payment.FromDataModelSlice(rows), nil
}

func (r *ConfirmationRepository) ListByStatus(ctx context.Context, status payment.Status) ([]*payment.Confirmation, error) {
	var rows []*paymentDatamodel.Confirmation
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("submitted_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list payment confirmations: %w", err)
	}
	return payment.FromDataModelSlice(rows), nil
}

func (r *ConfirmationRepository) Approve(ctx context.Context, c *payment.Confirmation, review payment.Review) (payment.Settlement, error) {
	var settlement payment.Settlement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := resolve(tx, c.ID, review); err != nil {
			return err
		}
		if c.Type != payment.TypeDues {
			return nil
		}

		cycleID, err := duesPostgres.ActiveCycleID(tx)
		if err != nil {
			return err
		}
		changed, err := duesPostgres.MarkPaidTx(tx, c.MemberID, cycleID, payment.SourceConfirmation, review.ReviewedAt)
		if err != nil {
			return err
		}
		settlement = payment.Settlement{CycleID: cycleID, MarkedPaid: changed}
		return nil
	})
	if err != nil {
		return payment.Settlement{}, err
	}
	return settlement, nil
}

func (r *ConfirmationRepository) Reject(ctx context.Context, c *payment.Confirmation, review payment.Review) error {
	return resolve(r.db.WithContext(ctx), c.ID, review)
}

func resolve(tx *gorm.DB, id string, review payment.Review) error {
	res := tx.Model(&paymentDatamodel.Confirmation{}).
		Where("id = ? AND status = ?", id, string(payment.StatusPending)).
		Updates(map[string]interface{}{
			"status":       string(review.Decision),
			"reviewed_by":  review.ReviewedBy,
			"reviewed_at":  review.ReviewedAt,
			"review_notes": review.Notes,
			"updated_at":   review.ReviewedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update payment confirmation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrStatusConflict
	}
	return nil
}
