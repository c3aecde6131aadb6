package imagegen

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/rueidis"

	"workshop/internal/domain"
)

// StatusCache stores terminal job statuses. Get returns nil, nil on a miss.
type StatusCache interface {
	Get(ctx context.Context, jobID string) (*domain.ImageStatus, error)
	Set(ctx context.Context, status domain.ImageStatus, ttl time.Duration) error
}

const redisKeyPrefix = "workshop:image_status:"

// RedisStatusCache shares terminal statuses between processes.
type RedisStatusCache struct {
	client rueidis.Client
}

// NewRedisStatusCache connects to the Redis server at addr.
func NewRedisStatusCache(addr string) (*RedisStatusCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{addr},
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	return &RedisStatusCache{client: client}, nil
}

// NewRedisStatusCacheWithClient wraps an existing client.
func NewRedisStatusCacheWithClient(client rueidis.Client) *RedisStatusCache {
	return &RedisStatusCache{client: client}
}

func (c *RedisStatusCache) Get(ctx context.Context, jobID string) (*domain.ImageStatus, error) {
	cmd := c.client.B().Get().Key(redisKeyPrefix + jobID).Build()
	data, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get image status: %w", err)
	}
	var status domain.ImageStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("decode image status: %w", err)
	}
	return &status, nil
}

func (c *RedisStatusCache) Set(ctx context.Context, status domain.ImageStatus, ttl time.Duration) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode image status: %w", err)
	}
	cmd := c.client.B().Set().Key(redisKeyPrefix + status.JobID).Value(string(data)).Ex(ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set image status: %w", err)
	}
	return nil
}

func (c *RedisStatusCache) Close() {
	c.client.Close()
}

// memorySweepInterval spaces out the expiry sweeps done by Set.
const memorySweepInterval = time.Minute

// MemoryStatusCache is a process-local StatusCache. Expired entries are
// dropped on read and by a periodic sweep on write.
type MemoryStatusCache struct {
	mu        sync.Mutex
	entries   map[string]memoryEntry
	now       func() time.Time
	lastSweep time.Time
}

type memoryEntry struct {
	status    domain.ImageStatus
	expiresAt time.Time
}

func NewMemoryStatusCache() *MemoryStatusCache {
	return &MemoryStatusCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryStatusCache) Get(_ context.Context, jobID string) (*domain.ImageStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[jobID]
	if !ok {
		return nil, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, jobID)
		return nil, nil
	}
	status := entry.status
	return &status, nil
}

func (c *MemoryStatusCache) Set(_ context.Context, status domain.ImageStatus, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.Sub(c.lastSweep) >= memorySweepInterval {
		c.sweep(now)
	}
	c.entries[status.JobID] = memoryEntry{status: status, expiresAt: now.Add(ttl)}
	return nil
}

func (c *MemoryStatusCache) sweep(now time.Time) {
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
	c.lastSweep = now
}
