// threads.go provides a Valkey-backed cache of the thread directory listing.
// The board is read-heavy (clients poll on an interval), so the full listing
// with post counts is cached for a short TTL and invalidated by every write
// that changes threads or their counts.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"luckyboard/internal/models"
)

const (
	// threadListKey is the Valkey key holding the serialized listing.
	threadListKey = "threads:list"

	// DefaultThreadListTTL bounds staleness even if an invalidation is lost.
	DefaultThreadListTTL = 10 * time.Second
)

// ThreadList caches the full thread listing in Valkey. A nil *ThreadList
// is valid and behaves as a cache that always misses, so the application
// runs unchanged when Valkey is not configured.
type ThreadList struct {
	client *redis.Client
	ttl    time.Duration
}

// NewThreadList creates a thread listing cache backed by the given client.
func NewThreadList(client *redis.Client, ttl time.Duration) *ThreadList {
	if ttl == 0 {
		ttl = DefaultThreadListTTL
	}
	return &ThreadList{client: client, ttl: ttl}
}

// Get retrieves the cached listing. Returns (nil, false) on miss or error.
func (c *ThreadList) Get(ctx context.Context) ([]models.Thread, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, threadListKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("thread list cache get error", "error", err)
		return nil, false
	}

	var threads []models.Thread
	if err := json.Unmarshal(val, &threads); err != nil {
		slog.Warn("thread list cache decode error", "error", err)
		return nil, false
	}
	slog.Debug("thread list cache hit")
	return threads, true
}

// Set stores the listing with the configured TTL. Errors are logged and
// swallowed; the cache is never allowed to fail a request.
func (c *ThreadList) Set(ctx context.Context, threads []models.Thread) {
	if c == nil {
		return
	}
	val, err := json.Marshal(threads)
	if err != nil {
		slog.Warn("thread list cache encode error", "error", err)
		return
	}
	if err := c.client.Set(ctx, threadListKey, val, c.ttl).Err(); err != nil {
		slog.Warn("thread list cache set error", "error", err)
	}
}

// Invalidate drops the cached listing. Called after any mutation that
// changes the set of threads, their order, or their post counts.
func (c *ThreadList) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, threadListKey).Err(); err != nil {
		slog.Warn("thread list cache invalidate error", "error", err)
	}
	slog.Debug("thread list cache invalidated")
}
