package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airtrack/config"
	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	tripsPrefix = "cache:trips:"
	airportsKey = "cache:airports"
)

type RedisCache struct {
	client   *redis.Client
	tripsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, tripsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		tripsTTL: tripsTTL,
	}
}

// GetTrips returns the cached search result for the airport pair, or nil on a miss.
func (c *RedisCache) GetTrips(ctx context.Context, from, to string) ([]domain.Trip, error) {
	var trips []domain.Trip
	if err := c.get(ctx, tripsKey(from, to), &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (c *RedisCache) SetTrips(ctx context.Context, from, to string, trips []domain.Trip) error {
	if trips == nil {
		trips = []domain.Trip{}
	}
	return c.set(ctx, tripsKey(from, to), trips)
}

func (c *RedisCache) GetAirports(ctx context.Context) ([]domain.Airport, error) {
	var airports []domain.Airport
	if err := c.get(ctx, airportsKey, &airports); err != nil {
		return nil, err
	}
	return airports, nil
}

func (c *RedisCache) SetAirports(ctx context.Context, airports []domain.Airport) error {
	if airports == nil {
		airports = []domain.Airport{}
	}
	return c.set(ctx, airportsKey, airports)
}

// InvalidateTrips drops every cached search result.
func (c *RedisCache) InvalidateTrips(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, tripsPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) InvalidateAirports(ctx context.Context) error {
	return c.client.Del(ctx, airportsKey).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, dst)
}

func (c *RedisCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.tripsTTL).Err()
}

func tripsKey(from, to string) string {
	return fmt.Sprintf("%s%s:%s", tripsPrefix, strings.ToUpper(from), strings.ToUpper(to))
}
