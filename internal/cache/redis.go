package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/carrental/config"
	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds short-lived car and agency-status snapshots read on the
// booking-creation path. A stale agency status within the TTL is acceptable;
// transitions delete the key best-effort.
type RedisCache struct {
	client      *redis.Client
	snapshotTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, snapshotTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		snapshotTTL: snapshotTTL,
	}
}

func (c *RedisCache) GetCar(ctx context.Context, carID int64) (*domain.Car, error) {
	data, err := c.client.Get(ctx, carKey(carID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var car domain.Car
	if err := json.Unmarshal(data, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

func (c *RedisCache) SetCar(ctx context.Context, car *domain.Car) error {
	payload, err := json.Marshal(car)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, carKey(car.ID), payload, c.snapshotTTL).Err()
}

func (c *RedisCache) GetAgencyStatus(ctx context.Context, agencyID int64) (domain.AgencyStatus, error) {
	status, err := c.client.Get(ctx, agencyStatusKey(agencyID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return domain.AgencyStatus(status), nil
}

func (c *RedisCache) SetAgencyStatus(ctx context.Context, agencyID int64, status domain.AgencyStatus) error {
	return c.client.Set(ctx, agencyStatusKey(agencyID), string(status), c.snapshotTTL).Err()
}

func (c *RedisCache) DeleteAgencyStatus(ctx context.Context, agencyID int64) error {
	return c.client.Del(ctx, agencyStatusKey(agencyID)).Err()
}

func carKey(carID int64) string {
	return fmt.Sprintf("cache:car:%d", carID)
}

func agencyStatusKey(agencyID int64) string {
	return fmt.Sprintf("cache:agency:%d:status", agencyID)
}
