package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const unreadTTL = 5 * time.Minute

// UnreadCache caches per-user unread notification counts.
// Key format: unread:<user_id>. Entries are deleted whenever a notification
// is created or marked read for the user, so a warm entry is authoritative
// until the TTL evicts it.
type UnreadCache struct {
	client *redis.Client
}

// NewUnreadCache wraps the given Redis client.
func NewUnreadCache(client *redis.Client) *UnreadCache {
	return &UnreadCache{client: client}
}

// Get returns the cached count and whether the entry was present.
func (c *UnreadCache) Get(ctx context.Context, userID string) (int64, bool, error) {
	count, err := c.client.Get(ctx, c.key(userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("unread cache get: %w", err)
	}
	return count, true, nil
}

// Set stores the count with the cache TTL.
func (c *UnreadCache) Set(ctx context.Context, userID string, count int64) error {
	return c.client.Set(ctx, c.key(userID), count, unreadTTL).Err()
}

// Invalidate drops the cached count after a write touched the user's
// notifications.
func (c *UnreadCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *UnreadCache) key(userID string) string {
	return "unread:" + userID
}
