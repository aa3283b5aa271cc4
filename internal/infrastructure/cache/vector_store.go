package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/almacen-api/internal/application/recommendation"
)

const vectorKey = "recommendations:vectors"

// defaultVectorTTL vida de la caché de vectores; regenerar siempre la renueva.
const defaultVectorTTL = 7 * 24 * time.Hour

var _ recommendation.VectorStore = (*RedisVectorStore)(nil)

// RedisVectorStore persiste el snapshot de embeddings como un blob JSON en
// Redis para sobrevivir reinicios del proceso sin regenerar.
type RedisVectorStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisVectorStore construye el store; ttl <= 0 usa el valor por defecto.
func NewRedisVectorStore(client *redis.Client, ttl time.Duration) *RedisVectorStore {
	if ttl <= 0 {
		ttl = defaultVectorTTL
	}
	return &RedisVectorStore{client: client, ttl: ttl}
}

// Load devuelve el snapshot cacheado y true, o (nil, false) si no hay caché.
func (s *RedisVectorStore) Load(ctx context.Context) ([]recommendation.ProductVector, bool, error) {
	raw, err := s.client.Get(ctx, vectorKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get vectors: %w", err)
	}
	var vectors []recommendation.ProductVector
	if err := json.Unmarshal(raw, &vectors); err != nil {
		// Caché corrupta: tratarla como ausente y dejar que el motor regenere
		return nil, false, nil
	}
	return vectors, true, nil
}

// Save serializa y guarda el snapshot completo.
func (s *RedisVectorStore) Save(ctx context.Context, vectors []recommendation.ProductVector) error {
	raw, err := json.Marshal(vectors)
	if err != nil {
		return fmt.Errorf("marshal vectors: %w", err)
	}
	if err := s.client.Set(ctx, vectorKey, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set vectors: %w", err)
	}
	return nil
}

// Invalidate elimina el snapshot cacheado.
func (s *RedisVectorStore) Invalidate(ctx context.Context) error {
	if err := s.client.Del(ctx, vectorKey).Err(); err != nil {
		return fmt.Errorf("del vectors: %w", err)
	}
	return nil
}
