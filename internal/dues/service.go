package dues

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/auth"
)

type Repository interface {
	// CreateActive stores c as the only active cycle, deactivating the
	// previous one in the same transaction.
	CreateActive(ctx context.Context, c *Cycle) error
	GetActive(ctx context.Context) (*Cycle, error)
	GetMemberDues(ctx context.Context, memberID, cycleID string) (*MemberDues, error)
	MarkPaid(ctx context.Context, memberID, cycleID, source string, at time.Time) (bool, error)
}

type ServiceAPI interface {
	CreateCycle(ctx context.Context, actor *auth.User, dto CreateCycleDTO) (*Cycle, error)
	GetActiveCycle(ctx context.Context) (*Cycle, error)
	GetMyDues(ctx context.Context, actor *auth.User) (*MyDues, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateCycle(ctx context.Context, actor *auth.User, dto CreateCycleDTO) (*Cycle, error) {
	if err := auth.Authorize(actor, auth.ActionDuesCycleCreate); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c := &Cycle{
		ID:        uuid.NewString(),
		StartDate: dto.StartDate.UTC(),
		EndDate:   dto.EndDate.UTC(),
		Amount:    dto.Amount,
		IsActive:  true,
		CreatedBy: actor.ID,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateActive(ctx, c); err != nil {
		s.logger.Error("DuesService: failed to create cycle", "error", err, "actor_id", actor.ID)
		return nil, internal.NewExternalIOError("failed to save dues cycle", internal.ErrCodePersistenceFailed, err)
	}

	s.logger.Info("DuesService: cycle activated",
		"cycle_id", c.ID,
		"start_date", c.StartDate,
		"end_date", c.EndDate,
		"amount", c.Amount,
		"actor_id", actor.ID)
	return c, nil
}

func (s *Service) GetActiveCycle(ctx context.Context) (*Cycle, error) {
	return s.repo.GetActive(ctx)
}

func (s *Service) GetMyDues(ctx context.Context, actor *auth.User) (*MyDues, error) {
	if actor == nil {
		return nil, internal.ErrInvalidToken
	}
	c, err := s.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	d, err := s.repo.GetMemberDues(ctx, actor.ID, c.ID)
	if err != nil {
		return nil, err
	}
	return &MyDues{Cycle: c, Dues: d}, nil
}
