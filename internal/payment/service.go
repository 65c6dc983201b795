package payment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/auth"
	"github.com/frahmantamala/club-finance/internal/core/events"
)

type Repository interface {
	Create(ctx context.Context, c *Confirmation) error
	GetByID(ctx context.Context, id string) (*Confirmation, error)
	ListByMember(ctx context.Context, memberID string) ([]*Confirmation, error)
	ListByStatus(ctx context.Context, status Status) ([]*Confirmation, error)
	// Approve resolves a pending confirmation and, for dues, marks the
	// member's dues for the active cycle PAID in the same transaction.
	Approve(ctx context.Context, c *Confirmation, review Review) (Settlement, error)
	Reject(ctx context.Context, c *Confirmation, review Review) error
}

// DuesLedger settles a member's dues outside the confirmation flow.
type DuesLedger interface {
	MarkPaid(ctx context.Context, memberID, cycleID, source string, at time.Time) (bool, error)
}

type ServiceAPI interface {
	SubmitConfirmation(ctx context.Context, actor *auth.User, dto SubmitConfirmationDTO) (*Confirmation, error)
	ReviewConfirmation(ctx context.Context, actor *auth.User, id string, dto ReviewConfirmationDTO) (*Confirmation, error)
	GetConfirmation(ctx context.Context, actor *auth.User, id string) (*Confirmation, error)
	ListMyConfirmations(ctx context.Context, actor *auth.User) ([]*Confirmation, error)
	ListPendingConfirmations(ctx context.Context, actor *auth.User) ([]*Confirmation, error)
	SettleGatewayDues(ctx context.Context, memberID, cycleID string) (bool, error)
}

type Service struct {
	repo      Repository
	dues      DuesLedger
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, dues DuesLedger, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		dues:      dues,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) SubmitConfirmation(ctx context.Context, actor *auth.User, dto SubmitConfirmationDTO) (*Confirmation, error) {
	if err := auth.Authorize(actor, auth.ActionPaymentSubmit); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	eventName := dto.EventName
	if eventName != nil {
		trimmedName := strings.TrimSpace(*eventName)
		eventName = &trimmedName
	}

	now := s.now()
	c := &Confirmation{
		ID:          uuid.NewString(),
		MemberID:    actor.ID,
		Amount:      dto.Amount,
		Type:        dto.Type,
		Method:      dto.Method,
		EventName:   eventName,
		ProofURL:    dto.ProofURL,
		Status:      StatusPending,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("PaymentService: failed to create confirmation", "error", err, "member_id", actor.ID)
		return nil, internal.NewExternalIOError("failed to save payment confirmation", internal.ErrCodePersistenceFailed, err)
	}

	s.logger.Info("PaymentService: confirmation submitted",
		"confirmation_id", c.ID,
		"member_id", c.MemberID,
		"type", c.Type,
		"method", c.Method,
		"amount", c.Amount)
	return c, nil
}

// ReviewConfirmation resolves a pending confirmation exactly once. Ticket
// grants are announced only after the review has been committed.
func (s *Service) ReviewConfirmation(ctx context.Context, actor *auth.User, id string, dto ReviewConfirmationDTO) (*Confirmation, error) {
	if err := auth.Authorize(actor, auth.ActionPaymentReview); err != nil {
		s.logger.Warn("PaymentService: review denied", "confirmation_id", id, "actor_id", actorID(actor))
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusPending {
		s.logger.Warn("PaymentService: confirmation already reviewed",
			"confirmation_id", id,
			"status", c.Status,
			"actor_id", actor.ID)
		return nil, internal.ErrInvalidConfirmationStatus
	}

	review := Review{
		Decision:   dto.Decision,
		ReviewedBy: actor.ID,
		ReviewedAt: s.now(),
		Notes:      trimmed(dto.Notes),
	}

	var settlement Settlement
	if dto.Decision == StatusApproved {
		settlement, err = s.repo.Approve(ctx, c, review)
	} else {
		err = s.repo.Reject(ctx, c, review)
	}
	if err != nil {
		return nil, s.translateWriteError(err, id)
	}

	c.Status = review.Decision
	c.ReviewedBy = &review.ReviewedBy
	c.ReviewedAt = &review.ReviewedAt
	c.ReviewNotes = review.Notes
	c.UpdatedAt = review.ReviewedAt

	s.logger.Info("PaymentService: confirmation reviewed",
		"confirmation_id", c.ID,
		"member_id", c.MemberID,
		"type", c.Type,
		"decision", c.Status,
		"cycle_id", settlement.CycleID,
		"actor_id", actor.ID)

	s.publishReview(ctx, c, settlement, actor.ID)
	return c, nil
}

func (s *Service) publishReview(ctx context.Context, c *Confirmation, settlement Settlement, reviewerID string) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, events.NewConfirmationReviewedEvent(c.ID, c.MemberID, string(c.Type), string(c.Status), reviewerID))
	if c.Status != StatusApproved {
		return
	}
	switch c.Type {
	case TypeEventTicket:
		eventName := ""
		if c.EventName != nil {
			eventName = *c.EventName
		}
		_ = s.publisher.Publish(ctx, events.NewTicketGrantedEvent(c.ID, c.MemberID, eventName))
	case TypeDues:
		if settlement.MarkedPaid {
			_ = s.publisher.Publish(ctx, events.NewDuesPaidEvent(c.MemberID, settlement.CycleID, SourceConfirmation))
		}
	}
}

func (s *Service) GetConfirmation(ctx context.Context, actor *auth.User, id string) (*Confirmation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.MemberID != actorID(actor) {
		if err := auth.Authorize(actor, auth.ActionPaymentReview); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (s *Service) ListMyConfirmations(ctx context.Context, actor *auth.User) ([]*Confirmation, error) {
	if err := auth.Authorize(actor, auth.ActionPaymentSubmit); err != nil {
		return nil, err
	}
	return s.repo.ListByMember(ctx, actor.ID)
}

func (s *Service) ListPendingConfirmations(ctx context.Context, actor *auth.User) ([]*Confirmation, error) {
	if err := auth.Authorize(actor, auth.ActionPaymentReview); err != nil {
		return nil, err
	}
	return s.repo.ListByStatus(ctx, StatusPending)
}

// SettleGatewayDues records a dues payment completed by the card gateway.
// Settling dues that are already PAID reports false and is not an error.
func (s *Service) SettleGatewayDues(ctx context.Context, memberID, cycleID string) (bool, error) {
	changed, err := s.dues.MarkPaid(ctx, memberID, cycleID, SourceGateway, s.now())
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return false, err
		}
		s.logger.Error("PaymentService: failed to settle gateway dues", "error", err, "member_id", memberID, "cycle_id", cycleID)
		return false, internal.NewExternalIOError("failed to record dues payment", internal.ErrCodePersistenceFailed, err)
	}

	s.logger.Info("PaymentService: gateway dues settled",
		"member_id", memberID,
		"cycle_id", cycleID,
		"changed", changed)

	if changed && s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.NewDuesPaidEvent(memberID, cycleID, SourceGateway))
	}
	return changed, nil
}

func (s *Service) translateWriteError(err error, id string) error {
	if errors.Is(err, internal.ErrStatusConflict) {
		s.logger.Warn("PaymentService: concurrent review lost", "confirmation_id", id)
		return internal.ErrInvalidConfirmationStatus.WithCause(err)
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error("PaymentService: failed to persist review", "confirmation_id", id, "error", err)
	return internal.NewExternalIOError("failed to save payment confirmation review", internal.ErrCodePersistenceFailed, err)
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
