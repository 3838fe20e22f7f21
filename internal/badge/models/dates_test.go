package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	t.Run("passes typed instants through unchanged", func(t *testing.T) {
		want := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
		got, ok := NormalizeDate(want)
		require.True(t, ok)
		assert.True(t, got.Equal(want))
	})

	t.Run("is idempotent", func(t *testing.T) {
		first, ok := NormalizeDate("2025-03-14T09:26:53Z")
		require.True(t, ok)
		second, ok := NormalizeDate(first)
		require.True(t, ok)
		assert.True(t, second.Equal(first))
	})

	t.Run("parses RFC3339 with offset marker", func(t *testing.T) {
		got, ok := NormalizeDate("2025-03-14T09:26:53Z")
		require.True(t, ok)
		assert.Equal(t, 2025, got.Year())
		assert.Equal(t, 9, got.Hour())
	})

	t.Run("parses naive timestamps in local time", func(t *testing.T) {
		got, ok := NormalizeDate("2025-03-14T09:26:53")
		require.True(t, ok)
		assert.Equal(t, time.Local, got.Location())
		assert.Equal(t, 9, got.Hour())
	})

	t.Run("date-only strings resolve to local midnight", func(t *testing.T) {
		got, ok := NormalizeDate("2025-03-14")
		require.True(t, ok)
		assert.Equal(t, 0, got.Hour())
		assert.Equal(t, 14, got.Day())
		assert.Equal(t, time.Local, got.Location())
	})

	t.Run("malformed strings are absent, not errors", func(t *testing.T) {
		for _, input := range []string{"not-a-date", "14/03/2025", "2025-13-45", ""} {
			_, ok := NormalizeDate(input)
			assert.False(t, ok, "input %q should be absent", input)
		}
	})

	t.Run("nil and unsupported types are absent", func(t *testing.T) {
		_, ok := NormalizeDate(nil)
		assert.False(t, ok)
		_, ok = NormalizeDate(42)
		assert.False(t, ok)
		var nilPtr *time.Time
		_, ok = NormalizeDate(nilPtr)
		assert.False(t, ok)
	})
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 15, DaysBetween(base, base.AddDate(0, 0, 15)))
	assert.Equal(t, 0, DaysBetween(base, base.Add(23*time.Hour)))

	// Negative spans pass through unclamped; callers depend on the sign.
	assert.Equal(t, -3, DaysBetween(base, base.AddDate(0, 0, -3)))
}
