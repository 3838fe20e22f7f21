package models

import "time"

// Status is a badge's derived validity standing.
type Status string

const (
	StatusPending Status = "pending"
	StatusValid   Status = "valid"
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusUnknown Status = "unknown"
)

// StatusReport is the result of classifying a badge at a point in time.
type StatusReport struct {
	Status        Status     `json:"status"`
	Valid         bool       `json:"valid"`
	ValidityEnd   *time.Time `json:"validity_end,omitempty"`
	DaysRemaining int        `json:"days_remaining,omitempty"`
	DaysExpired   int        `json:"days_expired,omitempty"`
}

// StatusPolicy classifies a badge's validity standing. The permanent and
// temporary variants intentionally diverge on where the validity window comes
// from; keeping them behind one interface makes the asymmetry explicit instead
// of duplicating near-identical branches at every call site.
type StatusPolicy interface {
	Classify(b *Badge, now time.Time) StatusReport
}

// PermanentPolicy derives validity from the GR return milestone plus the
// declared duration. Without a GR return the badge is still pending.
type PermanentPolicy struct{}

func (PermanentPolicy) Classify(b *Badge, now time.Time) StatusReport {
	if b.GRReturnDate == nil {
		return StatusReport{Status: StatusPending}
	}
	end := b.GRReturnDate.AddDate(0, 0, b.ValidityDuration.Days())
	if now.After(end) {
		return StatusReport{
			Status:      StatusExpired,
			ValidityEnd: &end,
			DaysExpired: DaysBetween(end, now),
		}
	}
	return StatusReport{
		Status:        StatusValid,
		Valid:         true,
		ValidityEnd:   &end,
		DaysRemaining: DaysBetween(now, end),
	}
}

// TemporaryPolicy uses the explicit validity window fixed at creation. The GR
// return milestone plays no role here; that asymmetry with PermanentPolicy is
// observed legacy behavior and covered by tests.
type TemporaryPolicy struct{}

func (TemporaryPolicy) Classify(b *Badge, now time.Time) StatusReport {
	if b.ValidityEnd == nil {
		return StatusReport{Status: StatusUnknown}
	}
	end := *b.ValidityEnd
	if now.Before(end) {
		return StatusReport{
			Status:        StatusActive,
			Valid:         true,
			ValidityEnd:   &end,
			DaysRemaining: DaysBetween(now, end),
		}
	}
	return StatusReport{
		Status:      StatusExpired,
		ValidityEnd: &end,
		DaysExpired: DaysBetween(end, now),
	}
}

// noValidityPolicy covers badges with no validity semantics (discharged
// recoveries, malformed records).
type noValidityPolicy struct{}

func (noValidityPolicy) Classify(*Badge, time.Time) StatusReport {
	return StatusReport{Status: StatusUnknown}
}

// PolicyFor returns the status policy for a badge. Recovered badges only carry
// validity when they are renewals, in which case the renewed badge type picks
// the policy.
func PolicyFor(b *Badge) StatusPolicy {
	switch b.Kind {
	case KindPermanent:
		return PermanentPolicy{}
	case KindTemporary:
		return TemporaryPolicy{}
	case KindRecovered:
		if b.RecoveryType == RecoveryRenewal {
			switch b.BadgeType {
			case KindPermanent:
				return PermanentPolicy{}
			case KindTemporary:
				return TemporaryPolicy{}
			}
		}
	}
	return noValidityPolicy{}
}

// Classify derives the validity standing of b at now using its policy.
func Classify(b *Badge, now time.Time) StatusReport {
	return PolicyFor(b).Classify(b, now)
}
