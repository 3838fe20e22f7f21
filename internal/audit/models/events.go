package models

import "time"

// Action enumerates the badge lifecycle events the audit trail records.
type Action string

const (
	ActionBadgeCreated         Action = "badge.created"
	ActionBadgeUpdated         Action = "badge.updated"
	ActionBadgeRenamed         Action = "badge.renamed"
	ActionBadgeDeleted         Action = "badge.deleted"
	ActionContractAttached     Action = "badge.contract_attached"
	ActionNotificationResolved Action = "notification.resolved"
	ActionNotificationsCleared Action = "notification.cleared_all"
	ActionNewBadgeAcknowledged Action = "notification.new_acknowledged"
	ActionUserLoggedIn         Action = "user.logged_in"
	ActionUserLoggedOut        Action = "user.logged_out"
)

// Event is one audit trail entry. Details carries event-specific context such
// as the old badge number on a rename.
type Event struct {
	ID       string            `json:"id"`
	Action   Action            `json:"action"`
	BadgeNum string            `json:"badge_num,omitempty"`
	Kind     string            `json:"kind,omitempty"`
	Actor    string            `json:"actor"`
	At       time.Time         `json:"at"`
	Details  map[string]string `json:"details,omitempty"`
}
