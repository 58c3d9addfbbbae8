package cache

import (
	"context"
	"time"
)

// NoOpCache never stores anything and grants every lock. Used when redis is unavailable.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	return false, nil
}

func (c *NoOpCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	return nil
}

func (c *NoOpCache) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (c *NoOpCache) ReleaseLock(ctx context.Context, key string) error {
	return nil
}

func (c *NoOpCache) Ping(ctx context.Context) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}
