package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/club-finance/internal"
	"github.com/frahmantamala/club-finance/internal/auth"
	memberDatamodel "github.com/frahmantamala/club-finance/internal/core/datamodel/member"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	var row memberDatamodel.Member
	err := r.db.WithContext(ctx).
		Select("id", "password_hash").
		Where("email = ?", email).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrMemberNotFound
		}
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	return &auth.Credentials{MemberID: row.ID, PasswordHash: row.PasswordHash}, nil
}

func (r *Repository) GetUserByID(ctx context.Context, memberID string) (*auth.User, error) {
	var row memberDatamodel.Member
	err := r.db.WithContext(ctx).
		Select("id", "email", "role", "status").
		Where("id = ?", memberID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrMemberNotFound
		}
		return nil, fmt.Errorf("query member: %w", err)
	}
	return &auth.User{
		ID:     row.ID,
		Email:  row.Email,
		Role:   auth.Role(row.Role),
		Status: row.Status,
	}, nil
}
