package notification

import (
	"time"

	"gatepass/internal/badge/models"
)

// Notification categories. Delay and expiry are resolvable through the
// resolution ledger; new-badge entries are only acknowledgeable.
const (
	TypeDelay    = "delay"
	TypeExpiry   = "expiry"
	TypeNewBadge = "new_badge"
)

// Severity orders the feed. Rank: critique > attention > info.
type Severity string

const (
	SeverityCritique  Severity = "critique"
	SeverityAttention Severity = "attention"
	SeverityInfo      Severity = "info"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritique:
		return 3
	case SeverityAttention:
		return 2
	default:
		return 1
	}
}

// Notification is one entry of the derived feed. Nothing here is persisted;
// the feed is recomputed from the badge population on every read.
type Notification struct {
	Type      string         `json:"type"`
	BadgeNum  string         `json:"badge_num"`
	BadgeKind models.Kind    `json:"badge_type,omitempty"`
	Message   string         `json:"message"`
	FullName  string         `json:"full_name,omitempty"`
	Company   string         `json:"company,omitempty"`
	Severity  Severity       `json:"severity"`
	Details   map[string]any `json:"details,omitempty"`
	AddedBy   string         `json:"added_by,omitempty"`
	AddedAt   *time.Time     `json:"added_at,omitempty"`
}

// Summary counts the feed per category.
type Summary struct {
	NewBadges int `json:"new_badges"`
	Delayed   int `json:"delayed"`
	Expiring  int `json:"expiring"`
}

// Feed is the full derivation result.
type Feed struct {
	Notifications []Notification `json:"notifications"`
	Summary       Summary        `json:"summary"`
	LastUpdated   time.Time      `json:"last_updated"`
}
