//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatepass/internal/auth/models"
	platformredis "gatepass/internal/platform/redis"
	"gatepass/pkg/platform/sentinel"
	"gatepass/pkg/testutil/containers"
)

func newRedisSessionStore(t *testing.T) *RedisSessionStore {
	t.Helper()
	rc := containers.NewRedisContainer(t)
	return NewRedisSessionStore(&platformredis.Client{Client: rc.Client})
}

func TestRedisSessionRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	store := newRedisSessionStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	session := models.Session{
		ID:        "sess-1",
		Username:  "doufik@AdminEmail.com",
		Role:      models.RoleAdmin,
		Device:    "Chrome on Windows",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, session))

	got, err := store.FindByID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session, got)

	require.NoError(t, store.Delete(ctx, "sess-1"))
	_, err = store.FindByID(ctx, "sess-1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestRedisSessionExpiresWithTTL(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	store := newRedisSessionStore(t)

	now := time.Now()
	session := models.Session{
		ID:        "sess-short",
		Username:  "services@AdminEmail.com",
		Role:      models.RoleService,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Second),
	}
	require.NoError(t, store.Save(ctx, session))

	require.Eventually(t, func() bool {
		_, err := store.FindByID(ctx, "sess-short")
		return err != nil
	}, 5*time.Second, 200*time.Millisecond, "session should expire with its TTL")
}

func TestRedisSessionRejectsExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	store := newRedisSessionStore(t)

	err := store.Save(ctx, models.Session{
		ID:        "sess-stale",
		Username:  "doufik@AdminEmail.com",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)
}
