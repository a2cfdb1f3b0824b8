package overview

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gavel/internal/platform/redis"
)

// ReportCache keeps rendered overview reports in Redis for a short TTL so a
// dashboard poll storm does not fan out into repeated sub-fetches. A nil
// cache (Redis not configured) is a no-op.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if client == nil {
		return nil
	}
	return &ReportCache{client: client, ttl: ttl}
}

func cacheKey(p Params) string {
	return fmt.Sprintf("gavel:overview:%d:%d:%d:%d",
		p.LookbackDays, p.QueueLimit, p.PublicationLimit, p.TimelineLimit)
}

func (c *ReportCache) Get(ctx context.Context, p Params) (*Report, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, cacheKey(p)).Bytes()
	if err != nil {
		// Cache misses and Redis failures both fall through to a rebuild.
		return nil, false
	}
	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false
	}
	return &report, true
}

func (c *ReportCache) Set(ctx context.Context, p Params, report *Report) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(p), raw, c.ttl)
}
