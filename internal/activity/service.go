package activity

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
	Create(ctx context.Context, a *Activity) error
	GetByID(ctx context.Context, id string) (*Activity, error)
	List(ctx context.Context, q ListQuery) ([]*Activity, error)
	// UpdateIfStatus persists workflow and budget fields only when the
	// stored status still equals expected, else internal.ErrStatusConflict.
	UpdateIfStatus(ctx context.Context, a *Activity, expected Status) error
}

type ServiceAPI interface {
	CreateActivity(ctx context.Context, actor *auth.User, dto CreateActivityDTO) (*Activity, error)
	UpdateBudget(ctx context.Context, actor *auth.User, id string, dto UpdateBudgetDTO) (*Activity, error)
	GetActivity(ctx context.Context, id string) (*Activity, error)
	ListActivities(ctx context.Context, q ListQuery) ([]*Activity, error)
	Transition(ctx context.Context, actor *auth.User, id string, action Action) (*Activity, error)
}

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateActivity(ctx context.Context, actor *auth.User, dto CreateActivityDTO) (*Activity, error) {
	if err := auth.Authorize(actor, auth.ActionActivityCreate); err != nil {
		s.logger.Warn("ActivityService: create denied", "actor_id", actorID(actor))
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	items := normalizeLineItems(dto.LineItems)
	total, err := ComputeTotalEstimate(items)
	if err != nil {
		return nil, err
	}

	customType := dto.CustomType
	if dto.Type != TypeOther {
		customType = nil
	}

	now := s.now()
	a := &Activity{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(dto.Name),
		Type:          dto.Type,
		CustomType:    customType,
		Date:          dto.Date,
		Location:      dto.Location,
		Description:   dto.Description,
		LinkedEventID: dto.LinkedEventID,
		LineItems:     items,
		TotalEstimate: total,
		Status:        StatusDraft,
		CreatedBy:     actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("ActivityService: failed to create activity", "error", err)
		return nil, internal.NewExternalIOError("failed to save activity", internal.ErrCodePersistenceFailed, err)
	}

	s.logger.Info("ActivityService: activity created",
		"activity_id", a.ID,
		"actor_id", actor.ID,
		"total_estimate", a.TotalEstimate)
	return a, nil
}

// UpdateBudget replaces the line items of a draft activity and re-derives
// its total estimate.
func (s *Service) UpdateBudget(ctx context.Context, actor *auth.User, id string, dto UpdateBudgetDTO) (*Activity, error) {
	if err := auth.Authorize(actor, auth.ActionActivityUpdateBudget); err != nil {
		s.logger.Warn("ActivityService: budget update denied", "activity_id", id, "actor_id", actorID(actor))
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusDraft {
		s.logger.Warn("ActivityService: budget update rejected", "activity_id", id, "status", a.Status)
		return nil, internal.ErrInvalidActivityStatus
	}

	items := normalizeLineItems(dto.LineItems)
	total, err := ComputeTotalEstimate(items)
	if err != nil {
		return nil, err
	}

	a.LineItems = items
	a.TotalEstimate = total
	a.UpdatedAt = s.now()

	if err := s.repo.UpdateIfStatus(ctx, a, StatusDraft); err != nil {
		return nil, s.translateWriteError(err, a.ID)
	}

	s.logger.Info("ActivityService: budget updated", "activity_id", a.ID, "total_estimate", total)
	return a, nil
}

func (s *Service) GetActivity(ctx context.Context, id string) (*Activity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListActivities(ctx context.Context, q ListQuery) ([]*Activity, error) {
	if q.Status != "" {
		switch q.Status {
		case StatusDraft, StatusPendingApproval, StatusApproved, StatusCompleted, StatusCancelled:
		default:
			return nil, internal.NewValidationFieldError("status", "unknown activity status", internal.ErrCodeInvalidEnum)
		}
	}
	return s.repo.List(ctx, q)
}

// Transition applies a workflow action. Role is checked before state, and
// the write is guarded on the status that was read.
func (s *Service) Transition(ctx context.Context, actor *auth.User, id string, action Action) (*Activity, error) {
	t, err := lookupTransition(action)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, t.permission); err != nil {
		s.logger.Warn("ActivityService: transition denied",
			"activity_id", id,
			"action", action,
			"actor_id", actorID(actor))
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prev, err := a.Apply(action, s.now())
	if err != nil {
		s.logger.Warn("ActivityService: transition not allowed",
			"activity_id", id,
			"action", action,
			"status", a.Status,
			"actor_id", actor.ID)
		return nil, err
	}

	if err := s.repo.UpdateIfStatus(ctx, a, prev); err != nil {
		return nil, s.translateWriteError(err, a.ID)
	}

	s.logger.Info("ActivityService: activity transitioned",
		"activity_id", a.ID,
		"action", action,
		"from", prev,
		"to", a.Status,
		"actor_id", actor.ID)

	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.NewActivityTransitionedEvent(a.ID, string(action), string(prev), string(a.Status), actor.ID))
	}
	return a, nil
}

func (s *Service) translateWriteError(err error, id string) error {
	if errors.Is(err, internal.ErrStatusConflict) {
		s.logger.Warn("ActivityService: concurrent status change", "activity_id", id)
		return internal.ErrInvalidActivityStatus.WithCause(err)
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error("ActivityService: failed to persist activity", "activity_id", id, "error", err)
	return internal.NewExternalIOError("failed to save activity", internal.ErrCodePersistenceFailed, err)
}

func actorID(u *auth.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}
