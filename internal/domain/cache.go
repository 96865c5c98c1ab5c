package domain

import (
	"context"
	"time"
)

// CacheRepository is a JSON value cache. Get returns ErrCacheMiss when the
// key is absent or expired.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}
