package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/club-finance/internal"
	memberDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/member"
	"github.com/frahmantamala/club-finance/internal/member"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Create(ctx context.Context, m *member.Member) error {
	if err := r.db.WithContext(ctx).Create(member.ToDataModel(m)).Error; err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (*member.Member, error) {
	var row memberDatamodel.Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return member.FromDataModel(&row), nil
}

func (r *MemberRepository) GetByEmail(ctx context.Context, email string) (*member.Member, error) {
	var row memberDatamodel.Member
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member by email: %w", err)
	}
	return member.FromDataModel(&row), nil
}

func (r *MemberRepository) CompleteProfile(ctx context.Context, m *member.Member, from member.Status) error {
	res := r.db.WithContext(ctx).Model(&memberDatamodel.Member{}).
		Where("id = ? AND status = ?", m.ID, string(from)).
		Updates(map[string]interface{}{
			"first_name": m.FirstName,
			"last_name":  m.LastName,
			"phone":      m.Phone,
			"status":     string(m.Status),
			"updated_at": m.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("complete member profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrStatusConflict
	}
	return nil
}

func (r *MemberRepository) TransitionStatus(ctx context.Context, id string, from, to member.Status, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&memberDatamodel.Member{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": at,
		})
	if res.Error != nil {
		return fmt.Errorf("update member status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrStatusConflict
	}
	return nil
}
