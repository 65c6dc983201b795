package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/club-finance/internal/dues"
	"github.com/frahmantamala/club-finance/internal/member"
)

const unpaidActiveQuery = `
SELECT m.id, m.email, m.first_name
FROM members m
LEFT JOIN member_dues d ON d.member_id = m.id AND d.cycle_id = ?
WHERE m.status = ?
  AND (d.id IS NULL OR d.status <> ?)
ORDER BY m.id
`

// UnpaidMemberQuery selects ACTIVE members whose dues for a cycle are
// absent or UNPAID.
type UnpaidMemberQuery struct {
	db *sqlx.DB
}

func NewUnpaidMemberQuery(db *sqlx.DB) *UnpaidMemberQuery {
	return &UnpaidMemberQuery{db: db}
}

func (q *UnpaidMemberQuery) ListUnpaidActive(ctx context.Context, cycleID string) ([]dues.Recipient, error) {
	var out []dues.Recipient
	query := q.db.Rebind(unpaidActiveQuery)
	if err := q.db.SelectContext(ctx, &out, query, cycleID, string(member.StatusActive), string(dues.StatusPaid)); err != nil {
		return nil, fmt.Errorf("list unpaid active members: %w", err)
	}
	return out, nil
}
