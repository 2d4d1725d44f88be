package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"artiststudio/model"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcredis.Run(ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestOverrideAuditRoundTrip(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	audit := NewOverrideAudit(client)

	require.NoError(t, audit.Ping(ctx))

	empty, err := audit.ListOverrides(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	base := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		require.NoError(t, audit.RecordOverride(ctx, model.OverrideLogin{
			Email: fmt.Sprintf("u%d@example.com", i), UserID: int64(i), At: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := audit.ListOverrides(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(3), entries[0].UserID)
	assert.Equal(t, int64(2), entries[1].UserID)
	assert.True(t, entries[0].At.Equal(base.Add(3*time.Minute)))

	require.NoError(t, client.LPush(ctx, OverrideAuditKey, "not json").Err())
	all, err := audit.ListOverrides(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOverrideAuditIsCapped(t *testing.T) {
	client := startRedis(t)
	ctx := context.Background()
	audit := NewOverrideAudit(client)

	for i := 0; i < MaxOverrideEntries+5; i++ {
		require.NoError(t, audit.RecordOverride(ctx, model.OverrideLogin{UserID: int64(i), At: time.Now()}))
	}

	n, err := client.LLen(ctx, OverrideAuditKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(MaxOverrideEntries), n)
}
