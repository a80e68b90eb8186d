package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/config"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	garagesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, garagesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		garagesTTL: garagesTTL,
	}
}

func (c *RedisCache) GetGarages(ctx context.Context) ([]domain.Garage, error) {
	data, err := c.client.Get(ctx, garagesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var garages []domain.Garage
	if err := json.Unmarshal(data, &garages); err != nil {
		return nil, err
	}
	return garages, nil
}

func (c *RedisCache) SetGarages(ctx context.Context, garages []domain.Garage) error {
	payload, err := json.Marshal(garages)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, garagesKey(), payload, c.garagesTTL).Err()
}

func (c *RedisCache) InvalidateGarages(ctx context.Context) error {
	return c.client.Del(ctx, garagesKey()).Err()
}

// IncrementWindow bumps a fixed-window counter, setting the window TTL on
// first increment, and returns the new count. Counters live in redis so every
// instance shares them.
func (c *RedisCache) IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := c.client.Incr(ctx, rateKey(key)).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := c.client.Expire(ctx, rateKey(key), window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (c *RedisCache) SetVerificationCode(ctx context.Context, email, code string, ttl time.Duration) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, verificationKey(email), code, ttl)
	pipe.Del(ctx, verificationAttemptsKey(email))
	_, err := pipe.Exec(ctx)
	return err
}

// GetVerificationCode returns the stored code, or "" when none is pending.
func (c *RedisCache) GetVerificationCode(ctx context.Context, email string) (string, error) {
	code, err := c.client.Get(ctx, verificationKey(email)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return code, err
}

func (c *RedisCache) IncrementVerificationAttempts(ctx context.Context, email string, ttl time.Duration) (int64, error) {
	key := verificationAttemptsKey(email)
	attempts, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if attempts == 1 {
		if err := c.client.Expire(ctx, key, ttl).Err(); err != nil {
			return attempts, err
		}
	}
	return attempts, nil
}

func (c *RedisCache) ClearVerification(ctx context.Context, email string) error {
	return c.client.Del(ctx, verificationKey(email), verificationAttemptsKey(email)).Err()
}

func garagesKey() string {
	return "cache:garages"
}

func rateKey(key string) string {
	return fmt.Sprintf("rate:%s", key)
}

func verificationKey(email string) string {
	return fmt.Sprintf("verify:code:%s", email)
}

func verificationAttemptsKey(email string) string {
	return fmt.Sprintf("verify:attempts:%s", email)
}
