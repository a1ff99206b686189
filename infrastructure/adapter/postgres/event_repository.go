package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mintrail/mintrail/application/port/outbound"
	"github.com/mintrail/mintrail/domain/entity"
)

// PostgresEventRepository implements EventRepository using PostgreSQL.
// The table is append-only: no UPDATE or DELETE statement exists in this
// package, and created_at comes from the database clock so ordering is
// consistent across application instances.
type PostgresEventRepository struct{ db *sql.DB }

func NewPostgresEventRepository(db *sql.DB) outbound.EventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) Append(ctx context.Context, event *entity.DistributionEvent) error {
	query := `
        INSERT INTO nft_history (id, org_id, actor_id, type, name, id_no, email, recipient_address, amount, token_ids, tx_hash, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
        RETURNING created_at
    `
	err := r.db.QueryRowContext(ctx, query,
		event.ID,
		event.OrgID,
		event.ActorID,
		string(event.Kind),
		event.Name,
		event.IDNo,
		event.Email,
		event.RecipientAddress,
		event.Amount,
		event.TokenIDs,
		event.TxHash,
	).Scan(&event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *PostgresEventRepository) ListByOrg(ctx context.Context, orgID string, from, to *time.Time) ([]*entity.DistributionEvent, error) {
	query := `
        SELECT id, org_id, actor_id, type, name, id_no, email, recipient_address, amount, token_ids, tx_hash, created_at
        FROM nft_history
        WHERE org_id = $1
    `
	args := []interface{}{orgID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*entity.DistributionEvent
	for rows.Next() {
		var event entity.DistributionEvent
		var name, idNo, email sql.NullString
		if err := rows.Scan(
			&event.ID,
			&event.OrgID,
			&event.ActorID,
			&event.Kind,
			&name,
			&idNo,
			&email,
			&event.RecipientAddress,
			&event.Amount,
			&event.TokenIDs,
			&event.TxHash,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if name.Valid {
			event.Name = &name.String
		}
		if idNo.Valid {
			event.IDNo = &idNo.String
		}
		if email.Valid {
			event.Email = &email.String
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}
