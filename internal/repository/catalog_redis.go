package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"coachdash/internal/domain"
)

const catalogKey = "catalog:services"

type CatalogRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogRepo {
	return &CatalogRepo{
		rdb: rdb,
		ttl: ttl,
	}
}

// Get reports false on a cache miss.
func (r *CatalogRepo) Get(ctx context.Context) ([]domain.Service, bool, error) {
	data, err := r.rdb.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read service catalog: %w", err)
	}

	var services []domain.Service
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, false, fmt.Errorf("failed to decode service catalog: %w", err)
	}
	return services, true, nil
}

func (r *CatalogRepo) Set(ctx context.Context, services []domain.Service) error {
	data, err := json.Marshal(services)
	if err != nil {
		return fmt.Errorf("failed to encode service catalog: %w", err)
	}
	if err := r.rdb.Set(ctx, catalogKey, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache service catalog: %w", err)
	}
	return nil
}
