package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestPermanentPolicy(t *testing.T) {
	grReturn := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("pending without GR return regardless of request age", func(t *testing.T) {
		old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		b := &Badge{Kind: KindPermanent, RequestDate: &old}
		report := Classify(b, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, StatusPending, report.Status)
		assert.False(t, report.Valid)
	})

	t.Run("valid inside the one-year window", func(t *testing.T) {
		b := &Badge{Kind: KindPermanent, GRReturnDate: &grReturn, ValidityDuration: Validity1Year}

		report := Classify(b, grReturn.AddDate(0, 0, 100))
		require.Equal(t, StatusValid, report.Status)
		assert.True(t, report.Valid)
		assert.Equal(t, 265, report.DaysRemaining)
		require.NotNil(t, report.ValidityEnd)
		assert.True(t, report.ValidityEnd.Equal(grReturn.AddDate(0, 0, 365)))
	})

	t.Run("days remaining strictly decreases as now advances", func(t *testing.T) {
		b := &Badge{Kind: KindPermanent, GRReturnDate: &grReturn, ValidityDuration: Validity1Year}
		prev := Classify(b, grReturn).DaysRemaining
		for days := 1; days <= 365; days += 30 {
			cur := Classify(b, grReturn.AddDate(0, 0, days)).DaysRemaining
			assert.Less(t, cur, prev)
			prev = cur
		}
	})

	t.Run("expired past the window with days expired", func(t *testing.T) {
		b := &Badge{Kind: KindPermanent, GRReturnDate: &grReturn, ValidityDuration: Validity1Year}
		report := Classify(b, grReturn.AddDate(0, 0, 365).Add(48*time.Hour))
		require.Equal(t, StatusExpired, report.Status)
		assert.False(t, report.Valid)
		assert.Equal(t, 2, report.DaysExpired)
	})

	t.Run("duration enum maps to day counts with one-year default", func(t *testing.T) {
		assert.Equal(t, 365, Validity1Year.Days())
		assert.Equal(t, 1095, Validity3Years.Days())
		assert.Equal(t, 1825, Validity5Years.Days())
		assert.Equal(t, 365, ValidityDuration("").Days())
		assert.Equal(t, 365, ValidityDuration("2 years").Days())
	})
}

func TestTemporaryPolicy(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("active strictly before the window end", func(t *testing.T) {
		b := &Badge{
			Kind:          KindTemporary,
			ValidityStart: datePtr(now.AddDate(0, 0, -10)),
			ValidityEnd:   datePtr(now.AddDate(0, 0, 20)),
		}
		report := Classify(b, now)
		assert.Equal(t, StatusActive, report.Status)
		assert.True(t, report.Valid)
		assert.Equal(t, 20, report.DaysRemaining)
	})

	t.Run("expired at and past the window end", func(t *testing.T) {
		b := &Badge{Kind: KindTemporary, ValidityEnd: datePtr(now)}
		report := Classify(b, now)
		assert.Equal(t, StatusExpired, report.Status)
		assert.False(t, report.Valid)
	})

	t.Run("unknown without a window end", func(t *testing.T) {
		b := &Badge{Kind: KindTemporary}
		assert.Equal(t, StatusUnknown, Classify(b, now).Status)
	})

	t.Run("ignores GR return date entirely", func(t *testing.T) {
		// The permanent/temporary asymmetry is intentional: a temporary badge
		// with a fresh GR return but an elapsed window is still expired.
		b := &Badge{
			Kind:         KindTemporary,
			GRReturnDate: datePtr(now.AddDate(0, 0, -1)),
			ValidityEnd:  datePtr(now.AddDate(0, 0, -5)),
		}
		assert.Equal(t, StatusExpired, Classify(b, now).Status)
	})
}

func TestPolicyAsymmetry(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	grReturn := now.AddDate(0, 0, -30)

	// Same milestone data, different variants, different outcomes: the
	// permanent badge derives a year of validity from its GR return while the
	// temporary badge reports unknown because it has no explicit window.
	perm := &Badge{Kind: KindPermanent, GRReturnDate: &grReturn, ValidityDuration: Validity1Year}
	temp := &Badge{Kind: KindTemporary, GRReturnDate: &grReturn}

	assert.Equal(t, StatusValid, Classify(perm, now).Status)
	assert.Equal(t, StatusUnknown, Classify(temp, now).Status)
}

func TestRecoveredPolicy(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("discharge has no validity semantics", func(t *testing.T) {
		b := &Badge{Kind: KindRecovered, RecoveryType: RecoveryDischarge}
		assert.Equal(t, StatusUnknown, Classify(b, now).Status)
	})

	t.Run("renewal dispatches on the renewed badge type", func(t *testing.T) {
		grReturn := now.AddDate(0, 0, -10)
		b := &Badge{
			Kind:             KindRecovered,
			RecoveryType:     RecoveryRenewal,
			BadgeType:        KindPermanent,
			GRReturnDate:     &grReturn,
			ValidityDuration: Validity1Year,
		}
		assert.Equal(t, StatusValid, Classify(b, now).Status)

		b.BadgeType = KindTemporary
		b.ValidityEnd = datePtr(now.AddDate(0, 0, 5))
		assert.Equal(t, StatusActive, Classify(b, now).Status)
	})
}
