package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mintrail/mintrail/application/port/outbound"
)

// PostgresMembershipRepository implements MembershipRepository using
// PostgreSQL. A user belongs to at most one organization; the unique
// constraint on org_members.user_id backs that assumption.
type PostgresMembershipRepository struct{ db *sql.DB }

func NewPostgresMembershipRepository(db *sql.DB) outbound.MembershipRepository {
	return &PostgresMembershipRepository{db: db}
}

func (r *PostgresMembershipRepository) FindOrgByUserID(ctx context.Context, userID string) (string, error) {
	query := `
        SELECT org_id
        FROM org_members
        WHERE user_id = $1
    `
	var orgID string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&orgID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", outbound.ErrNoMembership
		}
		return "", fmt.Errorf("failed to find membership: %w", err)
	}
	return orgID, nil
}
