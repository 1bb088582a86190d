package dataset

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisDatasetKey = "dataset:maestro"

// RedisProvider is an optional read-through layer that shares one parsed copy
// of the master dataset between instances. Best effort: any Redis failure
// falls through to the inner provider.
type RedisProvider struct {
	inner Provider
	rdb   *redis.Client
	ttl   time.Duration
}

func NewRedisProvider(inner Provider, rdb *redis.Client, ttl time.Duration) *RedisProvider {
	return &RedisProvider{inner: inner, rdb: rdb, ttl: ttl}
}

func (p *RedisProvider) Load(ctx context.Context) ([]RawRow, error) {
	if cached, err := p.rdb.Get(ctx, redisDatasetKey).Bytes(); err == nil {
		var rows []RawRow
		if jsonErr := json.Unmarshal(cached, &rows); jsonErr == nil {
			return rows, nil
		}
	}

	rows, err := p.inner.Load(ctx)
	if err != nil {
		return nil, err
	}

	// Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(rows); jsonErr == nil {
		if err := p.rdb.Set(ctx, redisDatasetKey, b, p.ttl).Err(); err != nil {
			log.Warn().Err(err).Msg("no se pudo cachear el dataset maestro en redis")
		}
	}
	return rows, nil
}
