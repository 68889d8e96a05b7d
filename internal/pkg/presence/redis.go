package presence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisKey is the sorted set holding user ids scored by last activity
const RedisKey = "presence:last_active"

// RedisTracker keeps a sorted set of user ids scored by unix time, so the
// online count is a range count instead of a table scan. Touches are also
// forwarded to Persist (usually the postgres tracker) so profiles keep
// showing last_active.
type RedisTracker struct {
	rdb     goredis.Cmdable
	persist Tracker
}

// NewRedisTracker creates a RedisTracker. persist may be nil.
func NewRedisTracker(rdb goredis.Cmdable, persist Tracker) *RedisTracker {
	return &RedisTracker{rdb: rdb, persist: persist}
}

// Touch implements Tracker
func (t *RedisTracker) Touch(ctx context.Context, userID string, at time.Time) error {
	err := t.rdb.ZAdd(ctx, RedisKey, goredis.Z{
		Score:  float64(at.Unix()),
		Member: userID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to record presence: %w", err)
	}

	if t.persist != nil {
		return t.persist.Touch(ctx, userID, at)
	}
	return nil
}

// CountOnline implements Tracker. Entries older than since are trimmed first.
func (t *RedisTracker) CountOnline(ctx context.Context, since time.Time) (int64, error) {
	min := strconv.FormatInt(since.Unix(), 10)

	pipe := t.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, RedisKey, "-inf", "("+min)
	count := pipe.ZCount(ctx, RedisKey, min, "+inf")
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to count online users: %w", err)
	}
	return count.Val(), nil
}
