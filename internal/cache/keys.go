package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	StatsKey       = "moderation:stats"
	ItemKeyPrefix  = "item:%s"
	UserKeyPrefix  = "user:%s"
	ClaimKeyPrefix = "claim:%s"
)

const (
	StatsTTL  = 30 * time.Second
	EntityTTL = 5 * time.Minute
)

func ItemKey(id string) string {
	return fmt.Sprintf(ItemKeyPrefix, id)
}

func UserKey(id string) string {
	return fmt.Sprintf(UserKeyPrefix, id)
}

func ClaimKey(id string) string {
	return fmt.Sprintf(ClaimKeyPrefix, id)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateStats drops the cached dashboard counters. Called after any
// moderation transition so the dashboard never serves stale counts for
// longer than one request.
func InvalidateStats(ctx context.Context) {
	Invalidate(ctx, StatsKey)
}

func InvalidateItem(ctx context.Context, id string) {
	Invalidate(ctx, ItemKey(id))
	InvalidateStats(ctx)
}

func InvalidateUser(ctx context.Context, id string) {
	Invalidate(ctx, UserKey(id))
	InvalidateStats(ctx)
}

func InvalidateClaim(ctx context.Context, id string) {
	Invalidate(ctx, ClaimKey(id))
	InvalidateStats(ctx)
}
