package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisDecisionCache stores profile-dependent gate decisions in a dedicated
// Redis database. Cache errors degrade to a miss; the gate then evaluates
// against the live profile, so a flaky cache can never grant stale access
// beyond its TTL.
type RedisDecisionCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

const decisionTTL = 5 * time.Minute

// NewRedisDecisionCache wraps a Redis client as a DecisionCache.
func NewRedisDecisionCache(client *redis.Client, log *zap.Logger) *RedisDecisionCache {
	return &RedisDecisionCache{client: client, ttl: decisionTTL, log: log}
}

func cacheKey(uid string, req Requirement) string {
	verified := 0
	if req.RequireVerified {
		verified = 1
	}
	return fmt.Sprintf("gate:%s:%d:%d", uid, req.Area, verified)
}

func (c *RedisDecisionCache) Get(ctx context.Context, uid string, req Requirement) (Decision, bool) {
	raw, err := c.client.Get(ctx, cacheKey(uid, req)).Result()
	if err == redis.Nil {
		return Decision{}, false
	}
	if err != nil {
		c.log.Warn("gate cache read failed", zap.Error(err))
		return Decision{}, false
	}
	var d Decision
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return Decision{}, false
	}
	return d, true
}

func (c *RedisDecisionCache) Set(ctx context.Context, uid string, req Requirement, d Decision) {
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(uid, req), raw, c.ttl).Err(); err != nil {
		c.log.Warn("gate cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached decision for one profile, across both areas
// and both verification requirements.
func (c *RedisDecisionCache) Invalidate(ctx context.Context, uid string) {
	keys := []string{
		cacheKey(uid, Requirement{Area: AreaResident}),
		cacheKey(uid, Requirement{Area: AreaResident, RequireVerified: true}),
		cacheKey(uid, Requirement{Area: AreaAdmin}),
		cacheKey(uid, Requirement{Area: AreaAdmin, RequireVerified: true}),
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("gate cache invalidation failed", zap.String("uid", uid), zap.Error(err))
	}
}
