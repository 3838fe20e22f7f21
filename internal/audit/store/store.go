package store

import (
	"context"

	"gatepass/internal/audit/models"
)

// Store persists the append-only audit trail.
type Store interface {
	Append(ctx context.Context, e models.Event) error
	ListRecent(ctx context.Context, limit int) ([]models.Event, error)
	ListByBadge(ctx context.Context, badgeNum string) ([]models.Event, error)
}
