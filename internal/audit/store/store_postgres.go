package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gatepass/internal/audit/models"
)

// PostgresStore persists audit events through database/sql. It takes whatever
// *sql.DB it is handed; the server opens one with the lib/pq driver.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the audit table when absent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id         UUID PRIMARY KEY,
			action     TEXT NOT NULL,
			badge_num  TEXT NOT NULL DEFAULT '',
			kind       TEXT NOT NULL DEFAULT '',
			actor      TEXT NOT NULL,
			at         TIMESTAMPTZ NOT NULL,
			details    JSONB
		);
		CREATE INDEX IF NOT EXISTS audit_events_badge_num_idx ON audit_events (badge_num);
		CREATE INDEX IF NOT EXISTS audit_events_at_idx ON audit_events (at DESC);
	`)
	if err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, e models.Event) error {
	var details []byte
	if len(e.Details) > 0 {
		var err error
		if details, err = json.Marshal(e.Details); err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, action, badge_num, kind, actor, at, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, e.ID, string(e.Action), e.BadgeNum, e.Kind, e.Actor, e.At, details)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, badge_num, kind, actor, at, details
		FROM audit_events
		ORDER BY at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *PostgresStore) ListByBadge(ctx context.Context, badgeNum string) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, badge_num, kind, actor, at, details
		FROM audit_events
		WHERE badge_num = $1
		ORDER BY at DESC
	`, badgeNum)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	var events []models.Event
	for rows.Next() {
		var (
			e       models.Event
			action  string
			details []byte
		)
		if err := rows.Scan(&e.ID, &action, &e.BadgeNum, &e.Kind, &e.Actor, &e.At, &details); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Action = models.Action(action)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
