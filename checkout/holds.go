package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// HoldKeyPrefix marks the Redis keys whose expiry the worker listens for.
const HoldKeyPrefix = "payment_hold:"

func HoldKey(orderID string) string {
	return HoldKeyPrefix + orderID
}

// OrderIDFromHoldKey reverses HoldKey; ok is false for unrelated keys.
func OrderIDFromHoldKey(key string) (string, bool) {
	if !strings.HasPrefix(key, HoldKeyPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(key, HoldKeyPrefix)
	return id, id != ""
}

// RedisHolds tracks gateway payments waiting for their provider callback.
type RedisHolds struct {
	client *redis.Client
}

func NewRedisHolds(client *redis.Client) *RedisHolds {
	return &RedisHolds{client: client}
}

func (h *RedisHolds) Hold(ctx context.Context, orderID string, owner int, ttl time.Duration) error {
	if err := h.client.SetEx(ctx, HoldKey(orderID), strconv.Itoa(owner), ttl).Err(); err != nil {
		return fmt.Errorf("redis setex failed: %w", err)
	}
	return nil
}

func (h *RedisHolds) Release(ctx context.Context, orderID string) error {
	if err := h.client.Del(ctx, HoldKey(orderID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
