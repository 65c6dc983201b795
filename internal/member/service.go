package member

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/auth"
	"github.com/frahmantamala/club-finance/internal/core/events"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Member, error)
	// CompleteProfile stores the profile and moves the member out of
	// PENDING_PROFILE in one status-guarded write.
	CompleteProfile(ctx context.Context, m *Member, from Status) error
	TransitionStatus(ctx context.Context, id string, from, to Status, at time.Time) error
}

type ServiceAPI interface {
	GetProfile(ctx context.Context, actor *auth.User) (*Profile, error)
	CompleteOnboarding(ctx context.Context, actor *auth.User, dto OnboardingDTO) (*Profile, error)
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

func (s *Service) GetProfile(ctx context.Context, actor *auth.User) (*Profile, error) {
	if actor == nil {
		return nil, internal.ErrInvalidToken
	}
	m, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{Member: m, Permissions: permissionsFor(m)}, nil
}

func (s *Service) CompleteOnboarding(ctx context.Context, actor *auth.User, dto OnboardingDTO) (*Profile, error) {
	if actor == nil {
		return nil, internal.ErrInvalidToken
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if m.Status != StatusPendingProfile {
		s.logger.Warn("MemberService: onboarding already completed", "member_id", m.ID, "status", m.Status)
		return nil, internal.ErrInvalidMemberStatus
	}

	m.FirstName = strings.TrimSpace(dto.FirstName)
	m.LastName = strings.TrimSpace(dto.LastName)
	m.Phone = dto.Phone
	m.Status = StatusActive
	m.UpdatedAt = s.now()

	if err := s.repo.CompleteProfile(ctx, m, StatusPendingProfile); err != nil {
		if errors.Is(err, internal.ErrStatusConflict) {
			return nil, internal.ErrInvalidMemberStatus.WithCause(err)
		}
		s.logger.Error("MemberService: failed to complete onboarding", "member_id", m.ID, "error", err)
		return nil, internal.NewExternalIOError("failed to save member profile", internal.ErrCodePersistenceFailed, err)
	}

	s.logger.Info("MemberService: onboarding completed", "member_id", m.ID)
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.NewMemberOnboardedEvent(m.ID))
	}
	return &Profile{Member: m, Permissions: permissionsFor(m)}, nil
}

// Deactivate moves an ACTIVE member to INACTIVE. A member who is no longer
// ACTIVE yields InvalidTransition and is left untouched.
func (s *Service) Deactivate(ctx context.Context, memberID string) error {
	err := s.repo.TransitionStatus(ctx, memberID, StatusActive, StatusInactive, s.now())
	if err == nil {
		return nil
	}
	if errors.Is(err, internal.ErrStatusConflict) {
		return internal.ErrInvalidMemberStatus.WithCause(err)
	}
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	return internal.NewExternalIOError("failed to update member status", internal.ErrCodePersistenceFailed, err)
}

func permissionsFor(m *Member) []auth.Action {
	if m.Status == StatusInactive || m.Status == StatusPendingProfile {
		return []auth.Action{auth.ActionPaymentSubmit}
	}
	return auth.ActionsFor(m.Role)
}
