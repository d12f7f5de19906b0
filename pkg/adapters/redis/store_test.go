package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/routinely/pkg/adapters/redis"
	"github.com/aretw0/routinely/pkg/domain"
	"github.com/aretw0/routinely/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	tests.SessionStoreContract(t, redis.NewFromClient(client))
}

func TestRedisHistory_Contract(t *testing.T) {
	_, client := newTestClient(t)
	tests.HistoryStoreContract(t, redis.NewHistory(client))
}

func TestRedisStore_TTLExpiration(t *testing.T) {
	mr, client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Session{ID: "s1", Status: domain.SessionRunning}))
	_, err := store.Load(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newTestClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Session{ID: "s1"}))
	assert.True(t, mr.Exists("custom:app:session"))
	assert.False(t, mr.Exists("routinely:session"))
}

func TestRedisHistory_CapsEntries(t *testing.T) {
	_, client := newTestClient(t)
	history := redis.NewHistory(client)
	ctx := context.Background()

	for i := 0; i < domain.MaxHistoryEntries+10; i++ {
		require.NoError(t, history.Append(ctx, domain.HistoryRecord{ID: domain.NewID()}))
	}

	records, err := history.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, domain.MaxHistoryEntries)
}
