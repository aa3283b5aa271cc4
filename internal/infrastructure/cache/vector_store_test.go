package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/recommendation"
)

func newTestStore(t *testing.T) (*RedisVectorStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisVectorStore(client, time.Hour), srv
}

func TestRedisVectorStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Sin caché previa: Load responde (nil, false) sin error
	vectors, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, vectors)

	want := []recommendation.ProductVector{
		{ID: "p1", Name: "Taladro 650W", Category: "herramientas", Price: 100, Embedding: []float32{1, 0, 0.5}},
		{ID: "p2", Name: "Martillo", Category: "herramientas", Price: 15, Embedding: []float32{0, 1, 0}},
	}
	require.NoError(t, store.Save(ctx, want))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRedisVectorStore_Invalidate(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []recommendation.ProductVector{{ID: "p1"}}))
	require.NoError(t, store.Invalidate(ctx))

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "tras invalidar no debe quedar snapshot")
}

func TestRedisVectorStore_CacheCorruptaSeIgnora(t *testing.T) {
	store, srv := newTestStore(t)

	require.NoError(t, srv.Set(vectorKey, "{esto no es json válido"))

	vectors, ok, err := store.Load(context.Background())
	require.NoError(t, err, "la caché corrupta se trata como ausente, no como fallo")
	assert.False(t, ok)
	assert.Nil(t, vectors)
}

func TestRedisVectorStore_SaveAplicaTTL(t *testing.T) {
	store, srv := newTestStore(t)

	require.NoError(t, store.Save(context.Background(), []recommendation.ProductVector{{ID: "p1"}}))
	assert.Equal(t, time.Hour, srv.TTL(vectorKey))

	srv.FastForward(2 * time.Hour)
	_, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok, "expirado el TTL la caché desaparece")
}
