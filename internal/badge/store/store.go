package store

import (
	"context"
	"time"

	"gatepass/internal/badge/models"
)

// BadgeStore persists the three badge collections. Implementations return
// sentinel errors (pkg/platform/sentinel) for factual failures; services
// translate those into domain errors.
type BadgeStore interface {
	// Create inserts a badge into its variant's collection. Returns
	// sentinel.ErrConflict when the badge number is already present in that
	// collection.
	Create(ctx context.Context, b models.Badge) error

	// Get returns the badge with the given number from one variant's
	// collection, or sentinel.ErrNotFound.
	Get(ctx context.Context, kind models.Kind, badgeNum string) (models.Badge, error)

	// Update replaces the stored badge. The badge number in b may differ from
	// badgeNum; implementations move the record under the new key and return
	// sentinel.ErrConflict if the new number is taken within the collection.
	Update(ctx context.Context, kind models.Kind, badgeNum string, b models.Badge) error

	// Delete removes the badge, or returns sentinel.ErrNotFound.
	Delete(ctx context.Context, kind models.Kind, badgeNum string) error

	// List returns one variant's collection in stable insertion order.
	List(ctx context.Context, kind models.Kind) ([]models.Badge, error)

	// Count returns the size of one variant's collection.
	Count(ctx context.Context, kind models.Kind) (int, error)

	// ExistsAnywhere reports whether any of the three collections holds the
	// badge number. Uniqueness spans the union, not each collection alone.
	ExistsAnywhere(ctx context.Context, badgeNum string) (bool, error)
}

// AdditionLog records badge creation events. Entries start in status new and
// flip to acknowledged exactly once; the log is the sole basis for new-badge
// notifications.
type AdditionLog interface {
	Append(ctx context.Context, a models.BadgeAddition) error

	// ListNewSince returns entries still in status new whose AddedAt is at or
	// after cutoff, in append order.
	ListNewSince(ctx context.Context, cutoff time.Time) ([]models.BadgeAddition, error)

	// Acknowledge flips every new entry for the badge to acknowledged and
	// reports whether any entry changed.
	Acknowledge(ctx context.Context, badgeNum string) (bool, error)

	// DeleteByBadge removes all entries for the badge (delete cascade).
	DeleteByBadge(ctx context.Context, badgeNum string) error

	// RenameBadge rewrites entries from oldNum to newNum (rename cascade).
	RenameBadge(ctx context.Context, oldNum, newNum string) error

	// Purge removes every entry. Used by the clear-all sweep.
	Purge(ctx context.Context) error
}

// ResolutionLedger is the append-only suppression record for resolved
// notifications. Existence of a (badge number, notification type) pair
// permanently silences that category for the badge.
type ResolutionLedger interface {
	// Record appends an entry. Returns sentinel.ErrConflict when the pair is
	// already recorded so callers can report idempotent resolutions.
	Record(ctx context.Context, r models.ResolvedNotification) error

	Exists(ctx context.Context, badgeNum, notifType string) (bool, error)

	// DeleteByBadge removes all entries for the badge (delete cascade).
	DeleteByBadge(ctx context.Context, badgeNum string) error

	// RenameBadge rewrites entries from oldNum to newNum (rename cascade).
	RenameBadge(ctx context.Context, oldNum, newNum string) error
}
