package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lehakot-create/LCT2023-13Case-Dash/config"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/domain"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/render"
	"github.com/redis/go-redis/v9"
)

// RedisCache stores rendered bundles per dataset and normalized filter.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    cfg.TTL(),
	}
}

// GetBundle returns nil, nil on a miss.
func (c *RedisCache) GetBundle(ctx context.Context, datasetID string, state domain.FilterState) (*render.Bundle, error) {
	data, err := c.client.Get(ctx, bundleKey(datasetID, state)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	return decodeBundle(data)
}

func (c *RedisCache) SetBundle(ctx context.Context, datasetID string, state domain.FilterState, bundle *render.Bundle) error {
	payload, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	return c.client.Set(ctx, bundleKey(datasetID, state), payload, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func decodeBundle(data []byte) (*render.Bundle, error) {
	var bundle render.Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("decode cached bundle: %w", err)
	}
	return &bundle, nil
}

func bundleKey(datasetID string, state domain.FilterState) string {
	return "cache:bundle:" + datasetID + ":" + filterDigest(state)
}

// filterDigest is stable for equal selections regardless of the order cities were picked in.
func filterDigest(state domain.FilterState) string {
	canonical := strings.Join([]string{
		strings.Join(state.Departures(), "\x1f"),
		strings.Join(state.Arrivals(), "\x1f"),
		state.StartDate.String(),
		state.EndDate.String(),
	}, "\x1e")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
