package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/club-finance/internal"
	activityDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/activity"
	expenseDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/expense"
	"github.com/frahmantamala/club-finance/internal/expense"
)

// ExpenseRepository implements the expense.Repository interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	if err := r.db.WithContext(ctx).Create(expense.ToDataModel(e)).Error; err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*expense.Expense, error) {
	var row expenseDatamodel.Expense
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return expense.FromDataModel(&row), nil
}

func (r *ExpenseRepository) ListByActivity(ctx context.Context, activityID string) ([]*expense.Expense, error) {
	var rows []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", activityID).
		Order("submitted_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expense.FromDataModelSlice(rows), nil
}

// ListByStatus returns oldest first so review queues are FIFO.
func (r *ExpenseRepository) ListByStatus(ctx context.Context, status expense.Status) ([]*expense.Expense, error) {
	var rows []*expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("submitted_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expense.FromDataModelSlice(rows), nil
}

func (r *ExpenseRepository) Approve(ctx context.Context, e *expense.Expense, review expense.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := resolve(tx, e.ID, review); err != nil {
			return err
		}

		res := tx.Model(&activityDatamodel.Activity{}).
			Where("id = ?", e.ActivityID).
			Updates(map[string]interface{}{
				"total_spent": gorm.Expr("COALESCE(total_spent, 0) + ?", e.Amount),
				"updated_at":  review.ReviewedAt,
			})
		if res.Error != nil {
			return fmt.Errorf("roll up total spent: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return internal.ErrActivityNotFound
		}
		return nil
	})
}

func (r *ExpenseRepository) Reject(ctx context.Context, e *expense.Expense, review expense.Review) error {
	return resolve(r.db.WithContext(ctx), e.ID, review)
}

// resolve is the pending-guarded write shared by both decisions.
func resolve(tx *gorm.DB, id string, review expense.Review) error {
	res := tx.Model(&expenseDatamodel.Expense{}).
		Where("id = ? AND status = ?", id, string(expense.StatusPending)).
		Updates(map[string]interface{}{
			"status":       string(review.Decision),
			"reviewed_by":  review.ReviewedBy,
			"reviewed_at":  review.ReviewedAt,
			"review_notes": review.Notes,
			"updated_at":   review.ReviewedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update expense: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrStatusConflict
	}
	return nil
}
