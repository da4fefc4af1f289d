package sessions

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test d'intégration : exige un Redis disponible (TEST_REDIS_ADDR).
func TestRedisRevoker(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	revoker := NewRedisRevoker(client)

	revoked, err := revoker.IsRevoked(ctx, "fresh-token")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revoker.Revoke(ctx, "fresh-token", time.Minute))

	revoked, err = revoker.IsRevoked(ctx, "fresh-token")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Un token différent reste valide.
	revoked, err = revoker.IsRevoked(ctx, "other-token")
	require.NoError(t, err)
	assert.False(t, revoked)
}
