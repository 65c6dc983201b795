package expense

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/activity"
	"github.com/frahmantamala/club-finance/internal/auth"
	"github.com/frahmantamala/club-finance/internal/core/events"
)

type Repository interface {
	Create(ctx context.Context, e *Expense) error
	GetByID(ctx context.Context, id string) (*Expense, error)
	ListByActivity(ctx context.Context, activityID string) ([]*Expense, error)
	ListByStatus(ctx context.Context, status Status) ([]*Expense, error)
	// Approve marks a pending expense approved and adds its amount to the
	// owning activity's total spent in one transaction.
	Approve(ctx context.Context, e *Expense, review Review) error
	Reject(ctx context.Context, e *Expense, review Review) error
}

// ActivityReader is the slice of the activity store the ledger needs.
type ActivityReader interface {
	GetByID(ctx context.Context, id string) (*activity.Activity, error)
}

type ServiceAPI interface {
	SubmitExpense(ctx context.Context, actor *auth.User, dto SubmitExpenseDTO) (*Expense, error)
	ReviewExpense(ctx context.Context, actor *auth.User, id string, dto ReviewExpenseDTO) (*Expense, error)
	GetExpense(ctx context.Context, actor *auth.User, id string) (*Expense, error)
	ListExpenses(ctx context.Context, actor *auth.User, activityID string) ([]*Expense, error)
	ListPendingExpenses(ctx context.Context, actor *auth.User) ([]*Expense, error)
}

type Service struct {
	repo       Repository
	activities ActivityReader
	publisher  events.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo Repository, activities ActivityReader, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		activities: activities,
		publisher:  publisher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) SubmitExpense(ctx context.Context, actor *auth.User, dto SubmitExpenseDTO) (*Expense, error) {
	if err := auth.Authorize(actor, auth.ActionExpenseSubmit); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	act, err := s.activities.GetByID(ctx, dto.ActivityID)
	if err != nil {
		return nil, err
	}
	if !act.Status.AcceptsExpenses() {
		s.logger.Warn("ExpenseService: activity not open for expenses",
			"activity_id", act.ID,
			"status", act.Status,
			"actor_id", actor.ID)
		return nil, internal.ErrActivityNotApproved
	}

	customCategory := dto.CustomCategory
	if dto.Category != CategoryOther {
		customCategory = nil
	}

	now := s.now()
	e := &Expense{
		ID:             uuid.NewString(),
		ActivityID:     act.ID,
		Category:       dto.Category,
		CustomCategory: customCategory,
		Amount:         dto.Amount,
		Description:    dto.Description,
		Vendor:         dto.Vendor,
		PaymentMethod:  dto.PaymentMethod,
		ReceiptURL:     dto.ReceiptURL,
		Status:         StatusPending,
		SubmittedBy:    actor.ID,
		SubmittedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		s.logger.Error("ExpenseService: failed to create expense", "error", err, "activity_id", act.ID)
		return nil, internal.NewExternalIOError("failed to save expense", internal.ErrCodePersistenceFailed, err)
	}

	s.logger.Info("ExpenseService: expense submitted",
		"expense_id", e.ID,
		"activity_id", e.ActivityID,
		"amount", e.Amount,
		"actor_id", actor.ID)
	return e, nil
}

// ReviewExpense is single-shot: once approved or rejected, later reviews
// fail and the activity's total spent is never touched twice.
func (s *Service) ReviewExpense(ctx context.Context, actor *auth.User, id string, dto ReviewExpenseDTO) (*Expense, error) {
	if err := auth.Authorize(actor, auth.ActionExpenseReview); err != nil {
		s.logger.Warn("ExpenseService: review denied", "expense_id", id, "actor_id", actorID(actor))
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != StatusPending {
		s.logger.Warn("ExpenseService: expense already reviewed",
			"expense_id", id,
			"status", e.Status,
			"actor_id", actor.ID)
		return nil, internal.ErrInvalidExpenseStatus
	}

	review := Review{
		Decision:   dto.Decision,
		ReviewedBy: actor.ID,
		ReviewedAt: s.now(),
		Notes:      trimmed(dto.Notes),
	}

	if dto.Decision == StatusApproved {
		err = s.repo.Approve(ctx, e, review)
	} else {
		err = s.repo.Reject(ctx, e, review)
	}
	if err != nil {
		return nil, s.translateWriteError(err, id)
	}

	e.Status = review.Decision
	e.ReviewedBy = &review.ReviewedBy
	e.ReviewedAt = &review.ReviewedAt
	e.ReviewNotes = review.Notes
	e.UpdatedAt = review.ReviewedAt

	s.logger.Info("ExpenseService: expense reviewed",
		"expense_id", e.ID,
		"activity_id", e.ActivityID,
		"decision", e.Status,
		"amount", e.Amount,
		"actor_id", actor.ID)

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.NewExpenseReviewedEvent(e.ID, e.ActivityID, string(e.Status), e.Amount, actor.ID))
	}
	return e, nil
}

func (s *Service) GetExpense(ctx context.Context, actor *auth.User, id string) (*Expense, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.SubmittedBy != actorID(actor) {
		if err := auth.Authorize(actor, auth.ActionExpenseView); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (s *Service) ListExpenses(ctx context.Context, actor *auth.User, activityID string) ([]*Expense, error) {
	if err := auth.Authorize(actor, auth.ActionExpenseView); err != nil {
		return nil, err
	}
	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		return nil, err
	}
	return s.repo.ListByActivity(ctx, activityID)
}

func (s *Service) ListPendingExpenses(ctx context.Context, actor *auth.User) ([]*Expense, error) {
	if err := auth.Authorize(actor, auth.ActionExpenseReview); err != nil {
		return nil, err
	}
	return s.repo.ListByStatus(ctx, StatusPending)
}

func (s *Service) translateWriteError(err error, id string) error {
	if errors.Is(err, internal.ErrStatusConflict) {
		s.logger.Warn("ExpenseService: concurrent review lost", "expense_id", id)
		return internal.ErrInvalidExpenseStatus.WithCause(err)
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error("ExpenseService: failed to persist review", "expense_id", id, "error", err)
	return internal.NewExternalIOError("failed to save expense review", internal.ErrCodePersistenceFailed, err)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func actorID(u *auth.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
