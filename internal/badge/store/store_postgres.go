package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"gatepass/internal/badge/models"
	"gatepass/pkg/platform/sentinel"
)

// PostgresBadgeStore persists all three badge collections in one table keyed
// by (kind, badge_num). A serial id preserves insertion order for listings.
type PostgresBadgeStore struct {
	pool *pgxpool.Pool
}

func NewPostgresBadgeStore(pool *pgxpool.Pool) *PostgresBadgeStore {
	return &PostgresBadgeStore{pool: pool}
}

// EnsureSchema creates the badge tables when they do not exist yet. Called once
// at startup; safe to run repeatedly.
func (s *PostgresBadgeStore) EnsureSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS badges (
			id                  BIGSERIAL PRIMARY KEY,
			kind                TEXT NOT NULL,
			badge_num           TEXT NOT NULL,
			full_name           TEXT NOT NULL,
			company             TEXT NOT NULL,
			cin                 TEXT NOT NULL,
			request_date        TIMESTAMPTZ,
			dgsn_sent           TIMESTAMPTZ,
			dgsn_sent_date      TIMESTAMPTZ,
			dgsn_return_date    TIMESTAMPTZ,
			gr_sent_date        TIMESTAMPTZ,
			gr_return_date      TIMESTAMPTZ,
			validity_duration   TEXT NOT NULL DEFAULT '',
			validity_start      TIMESTAMPTZ,
			validity_end        TIMESTAMPTZ,
			recovery_date       TIMESTAMPTZ,
			recovery_type       TEXT NOT NULL DEFAULT '',
			badge_type          TEXT NOT NULL DEFAULT '',
			contract_path       TEXT NOT NULL DEFAULT '',
			expiry_acknowledged TIMESTAMPTZ,
			UNIQUE (kind, badge_num)
		);
		CREATE INDEX IF NOT EXISTS badges_badge_num_idx ON badges (badge_num);

		CREATE TABLE IF NOT EXISTS badge_additions (
			id        BIGSERIAL PRIMARY KEY,
			badge_num TEXT NOT NULL,
			kind      TEXT NOT NULL,
			added_at  TIMESTAMPTZ NOT NULL,
			added_by  TEXT NOT NULL,
			status    TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS badge_additions_badge_num_idx ON badge_additions (badge_num);

		CREATE TABLE IF NOT EXISTS resolved_notifications (
			id          BIGSERIAL PRIMARY KEY,
			badge_num   TEXT NOT NULL,
			notif_type  TEXT NOT NULL,
			resolved_at TIMESTAMPTZ NOT NULL,
			resolved_by TEXT NOT NULL,
			UNIQUE (badge_num, notif_type)
		);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure badge schema: %w", err)
	}
	return nil
}

const badgeColumns = `kind, badge_num, full_name, company, cin,
	request_date, dgsn_sent, dgsn_sent_date, dgsn_return_date, gr_sent_date, gr_return_date,
	validity_duration, validity_start, validity_end,
	recovery_date, recovery_type, badge_type, contract_path, expiry_acknowledged`

func badgeArgs(b models.Badge) []any {
	return []any{
		b.Kind, b.BadgeNum, b.FullName, b.Company, b.CIN,
		b.RequestDate, b.DGSNSent, b.DGSNSentDate, b.DGSNReturnDate, b.GRSentDate, b.GRReturnDate,
		b.ValidityDuration, b.ValidityStart, b.ValidityEnd,
		b.RecoveryDate, b.RecoveryType, b.BadgeType, b.ContractPath, b.ExpiryAcknowledged,
	}
}

func scanBadge(row pgx.Row) (models.Badge, error) {
	var b models.Badge
	err := row.Scan(
		&b.Kind, &b.BadgeNum, &b.FullName, &b.Company, &b.CIN,
		&b.RequestDate, &b.DGSNSent, &b.DGSNSentDate, &b.DGSNReturnDate, &b.GRSentDate, &b.GRReturnDate,
		&b.ValidityDuration, &b.ValidityStart, &b.ValidityEnd,
		&b.RecoveryDate, &b.RecoveryType, &b.BadgeType, &b.ContractPath, &b.ExpiryAcknowledged,
	)
	return b, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *PostgresBadgeStore) Create(ctx context.Context, b models.Badge) error {
	query := fmt.Sprintf(`INSERT INTO badges (%s) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`, badgeColumns)
	if _, err := s.pool.Exec(ctx, query, badgeArgs(b)...); err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create badge: %w", err)
	}
	return nil
}

func (s *PostgresBadgeStore) Get(ctx context.Context, kind models.Kind, badgeNum string) (models.Badge, error) {
	query := fmt.Sprintf(`SELECT %s FROM badges WHERE kind = $1 AND badge_num = $2`, badgeColumns)
	b, err := scanBadge(s.pool.QueryRow(ctx, query, kind, badgeNum))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Badge{}, sentinel.ErrNotFound
		}
		return models.Badge{}, fmt.Errorf("get badge: %w", err)
	}
	return b, nil
}

func (s *PostgresBadgeStore) Update(ctx context.Context, kind models.Kind, badgeNum string, b models.Badge) error {
	query := `
		UPDATE badges SET
			badge_num = $3, full_name = $4, company = $5, cin = $6,
			request_date = $7, dgsn_sent = $8, dgsn_sent_date = $9, dgsn_return_date = $10,
			gr_sent_date = $11, gr_return_date = $12,
			validity_duration = $13, validity_start = $14, validity_end = $15,
			recovery_date = $16, recovery_type = $17, badge_type = $18,
			contract_path = $19, expiry_acknowledged = $20
		WHERE kind = $1 AND badge_num = $2
	`
	args := append([]any{kind, badgeNum}, badgeArgs(b)[1:]...)
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update badge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresBadgeStore) Delete(ctx context.Context, kind models.Kind, badgeNum string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM badges WHERE kind = $1 AND badge_num = $2`, kind, badgeNum)
	if err != nil {
		return fmt.Errorf("delete badge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresBadgeStore) List(ctx context.Context, kind models.Kind) ([]models.Badge, error) {
	query := fmt.Sprintf(`SELECT %s FROM badges WHERE kind = $1 ORDER BY id`, badgeColumns)
	rows, err := s.pool.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	defer rows.Close()

	var out []models.Badge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresBadgeStore) Count(ctx context.Context, kind models.Kind) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM badges WHERE kind = $1`, kind).Scan(&n); err != nil {
		return 0, fmt.Errorf("count badges: %w", err)
	}
	return n, nil
}

func (s *PostgresBadgeStore) ExistsAnywhere(ctx context.Context, badgeNum string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM badges WHERE badge_num = $1)`, badgeNum).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check badge number: %w", err)
	}
	return exists, nil
}

// PostgresAdditionLog persists creation events in badge_additions.
type PostgresAdditionLog struct {
	pool *pgxpool.Pool
}

func NewPostgresAdditionLog(pool *pgxpool.Pool) *PostgresAdditionLog {
	return &PostgresAdditionLog{pool: pool}
}

func (l *PostgresAdditionLog) Append(ctx context.Context, a models.BadgeAddition) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO badge_additions (badge_num, kind, added_at, added_by, status)
		VALUES ($1, $2, $3, $4, $5)
	`, a.BadgeNum, a.Kind, a.AddedAt, a.AddedBy, a.Status)
	if err != nil {
		return fmt.Errorf("append addition: %w", err)
	}
	return nil
}

func (l *PostgresAdditionLog) ListNewSince(ctx context.Context, cutoff time.Time) ([]models.BadgeAddition, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT badge_num, kind, added_at, added_by, status
		FROM badge_additions
		WHERE status = $1 AND added_at >= $2
		ORDER BY id
	`, models.AdditionNew, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list additions: %w", err)
	}
	defer rows.Close()

	var out []models.BadgeAddition
	for rows.Next() {
		var a models.BadgeAddition
		if err := rows.Scan(&a.BadgeNum, &a.Kind, &a.AddedAt, &a.AddedBy, &a.Status); err != nil {
			return nil, fmt.Errorf("scan addition: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (l *PostgresAdditionLog) Acknowledge(ctx context.Context, badgeNum string) (bool, error) {
	tag, err := l.pool.Exec(ctx, `
		UPDATE badge_additions SET status = $1 WHERE badge_num = $2 AND status = $3
	`, models.AdditionAcknowledged, badgeNum, models.AdditionNew)
	if err != nil {
		return false, fmt.Errorf("acknowledge addition: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (l *PostgresAdditionLog) DeleteByBadge(ctx context.Context, badgeNum string) error {
	if _, err := l.pool.Exec(ctx, `DELETE FROM badge_additions WHERE badge_num = $1`, badgeNum); err != nil {
		return fmt.Errorf("delete additions: %w", err)
	}
	return nil
}

func (l *PostgresAdditionLog) RenameBadge(ctx context.Context, oldNum, newNum string) error {
	if _, err := l.pool.Exec(ctx, `UPDATE badge_additions SET badge_num = $1 WHERE badge_num = $2`, newNum, oldNum); err != nil {
		return fmt.Errorf("rename additions: %w", err)
	}
	return nil
}

func (l *PostgresAdditionLog) Purge(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, `DELETE FROM badge_additions`); err != nil {
		return fmt.Errorf("purge additions: %w", err)
	}
	return nil
}

// PostgresResolutionLedger persists resolution entries; the unique pair
// constraint gives append-only idempotency for free.
type PostgresResolutionLedger struct {
	pool *pgxpool.Pool
}

func NewPostgresResolutionLedger(pool *pgxpool.Pool) *PostgresResolutionLedger {
	return &PostgresResolutionLedger{pool: pool}
}

func (l *PostgresResolutionLedger) Record(ctx context.Context, r models.ResolvedNotification) error {
	_, err := l.pool.Exec(ctx, `
		INSERT INTO resolved_notifications (badge_num, notif_type, resolved_at, resolved_by)
		VALUES ($1, $2, $3, $4)
	`, r.BadgeNum, r.Type, r.ResolvedAt, r.ResolvedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("record resolution: %w", err)
	}
	return nil
}

func (l *PostgresResolutionLedger) Exists(ctx context.Context, badgeNum, notifType string) (bool, error) {
	var exists bool
	err := l.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM resolved_notifications WHERE badge_num = $1 AND notif_type = $2)
	`, badgeNum, notifType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check resolution: %w", err)
	}
	return exists, nil
}

func (l *PostgresResolutionLedger) DeleteByBadge(ctx context.Context, badgeNum string) error {
	if _, err := l.pool.Exec(ctx, `DELETE FROM resolved_notifications WHERE badge_num = $1`, badgeNum); err != nil {
		return fmt.Errorf("delete resolutions: %w", err)
	}
	return nil
}

func (l *PostgresResolutionLedger) RenameBadge(ctx context.Context, oldNum, newNum string) error {
	if _, err := l.pool.Exec(ctx, `UPDATE resolved_notifications SET badge_num = $1 WHERE badge_num = $2`, newNum, oldNum); err != nil {
		return fmt.Errorf("rename resolutions: %w", err)
	}
	return nil
}
