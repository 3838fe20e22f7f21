package models

import "time"

// Kind tags the three badge variants. A badge belongs to exactly one variant at
// a time; recovery creates a new record rather than mutating the original.
type Kind string

const (
	KindPermanent Kind = "permanent"
	KindTemporary Kind = "temporary"
	KindRecovered Kind = "recovered"
)

// Kinds lists the variants in store iteration order. Derivations that scan the
// whole population follow this order so feed ordering stays stable.
func Kinds() []Kind {
	return []Kind{KindPermanent, KindTemporary, KindRecovered}
}

// ValidityDuration is the declared validity of a permanent badge.
type ValidityDuration string

const (
	Validity1Year  ValidityDuration = "1 year"
	Validity3Years ValidityDuration = "3 years"
	Validity5Years ValidityDuration = "5 years"
)

// Days maps the declared duration to a day count. Unrecognized or missing
// durations default to one year, matching how historical records behave.
func (d ValidityDuration) Days() int {
	switch d {
	case Validity3Years:
		return 1095
	case Validity5Years:
		return 1825
	default:
		return 365
	}
}

// RecoveryType distinguishes badge surrender from renewal.
type RecoveryType string

const (
	RecoveryDischarge RecoveryType = "décharge"
	RecoveryRenewal   RecoveryType = "renouvellement"
)

// Badge is the shared shape of all three variants. Optional instants are nil
// pointers; heterogeneous historical representations (ISO strings with or
// without time parts) are normalized once at the boundary via NormalizeDate and
// never re-checked at use sites.
//
// DGSNSent is a timestamp despite reading like a boolean: its presence both
// marks the first workflow handoff and suppresses delay notifications.
type Badge struct {
	Kind     Kind   `json:"type,omitempty"`
	BadgeNum string `json:"badge_num"`
	FullName string `json:"full_name"`
	Company  string `json:"company"`
	CIN      string `json:"cin"`

	RequestDate    *time.Time `json:"request_date,omitempty"`
	DGSNSent       *time.Time `json:"dgsn_sent,omitempty"`
	DGSNSentDate   *time.Time `json:"dgsn_sent_date,omitempty"`
	DGSNReturnDate *time.Time `json:"dgsn_return_date,omitempty"`
	GRSentDate     *time.Time `json:"gr_sent_date,omitempty"`
	GRReturnDate   *time.Time `json:"gr_return_date,omitempty"`

	// Permanent badges: computed window anchored on GRReturnDate.
	ValidityDuration ValidityDuration `json:"validity_duration,omitempty"`

	// Temporary badges: explicit window fixed at creation.
	ValidityStart *time.Time `json:"validity_start,omitempty"`
	ValidityEnd   *time.Time `json:"validity_end,omitempty"`

	// Recovered badges.
	RecoveryDate *time.Time   `json:"recovery_date,omitempty"`
	RecoveryType RecoveryType `json:"recovery_type,omitempty"`
	BadgeType    Kind         `json:"badge_type,omitempty"`

	ContractPath string `json:"contract_path,omitempty"`

	// ExpiryAcknowledged suppresses expiry notifications for this badge without
	// touching the resolution ledger (legacy dual-suppression path).
	ExpiryAcknowledged *time.Time `json:"expiry_acknowledged,omitempty"`
}

// AdditionStatus tracks whether a creation event still surfaces as a
// new-badge notification.
type AdditionStatus string

const (
	AdditionNew          AdditionStatus = "new"
	AdditionAcknowledged AdditionStatus = "acknowledged"
)

// BadgeAddition records one badge creation. It is the append-only basis for
// new-badge notifications; Status flips new → acknowledged exactly once.
type BadgeAddition struct {
	BadgeNum string         `json:"badge_num"`
	Kind     Kind           `json:"type"`
	AddedAt  time.Time      `json:"added_at"`
	AddedBy  string         `json:"added_by"`
	Status   AdditionStatus `json:"status"`
}

// ResolvedNotification is one resolution ledger entry. Existence of a
// (badge_num, type) pair permanently suppresses that notification category for
// the badge; the ledger is append-only.
type ResolvedNotification struct {
	BadgeNum   string    `json:"badge_num"`
	Type       string    `json:"type"`
	ResolvedAt time.Time `json:"resolved_at"`
	ResolvedBy string    `json:"resolved_by"`
}
