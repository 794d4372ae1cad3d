package tracker

import (
	"context"
	"time"
)

// Store is the minimum capability set the tracker needs from the
// durable keyed store: atomic counters, bounded lists, hash counters,
// expirable keys, key scans, an append-only stream, and pub/sub.
// Any backend substitution has to provide exactly this surface.
type Store interface {
	// IncrBy atomically adds delta to the integer at key and returns
	// the new value. This backs the score ledger; a get-then-set here
	// would lose concurrent increments.
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)

	// GetInt reads an integer key; missing keys read as 0.
	GetInt(ctx context.Context, key string) (int64, error)

	// Get reads a string key; ok is false when the key is missing.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set writes a string key. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX writes only when the key does not exist yet, reporting
	// whether this call claimed it.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	LPush(ctx context.Context, key string, values ...string) error
	LTrim(ctx context.Context, key string, start, stop int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	HIncrBy(ctx context.Context, key, field string, delta int64) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)

	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error

	// ScanKeys returns all keys matching a glob pattern.
	ScanKeys(ctx context.Context, pattern string) ([]string, error)

	// XAdd appends an entry to the append-only activity stream.
	XAdd(ctx context.Context, stream string, values map[string]any) error

	Publish(ctx context.Context, channel string, payload []byte) error

	// Subscribe returns a channel of payloads published on channel and
	// a close function releasing the subscription. The returned channel
	// is closed when the context is cancelled or close is called.
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func() error, error)

	Ping(ctx context.Context) error
	Close() error
}
