package repository

import (
	"context"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"lifesnaps-data/internal/domain"
)

// participantSetKey 已知参与者 id 集合的 Redis key
const participantSetKey = "lifesnaps:participants"

// ParticipantCache 用 Redis 缓存已知参与者 id 集合（带 TTL）
// 仅缓存 id 集合本身，原始事件数据永不缓存；
// Redis 不可用时直接回源，缓存故障不影响请求
type ParticipantCache struct {
	inner  FitbitRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewParticipantCache(inner FitbitRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *ParticipantCache {
	return &ParticipantCache{inner: inner, client: client, ttl: ttl, logger: logger}
}

var _ FitbitRepository = (*ParticipantCache)(nil)

// ParticipantIDs 优先读缓存，未命中时回源并写回（SADD + EXPIRE）
func (c *ParticipantCache) ParticipantIDs(ctx context.Context) ([]string, error) {
	ids, err := c.client.SMembers(ctx, participantSetKey).Result()
	if err != nil {
		c.logger.Warn("Failed to read participant cache", zap.Error(err))
	} else if len(ids) > 0 {
		sort.Strings(ids)
		return ids, nil
	}

	ids, err = c.inner.ParticipantIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		members := make([]any, len(ids))
		for i, id := range ids {
			members[i] = id
		}
		pipe := c.client.TxPipeline()
		pipe.SAdd(ctx, participantSetKey, members...)
		pipe.Expire(ctx, participantSetKey, c.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			c.logger.Warn("Failed to update participant cache", zap.Error(err))
		}
	}
	return ids, nil
}

func (c *ParticipantCache) SleepLogs(ctx context.Context, participantID string, window domain.Window, byDateOfSleep bool) ([]domain.SleepLog, error) {
	return c.inner.SleepLogs(ctx, participantID, window, byDateOfSleep)
}

func (c *ParticipantCache) MetricDocuments(ctx context.Context, spec MetricSpec, participantID string, window domain.Window) ([]map[string]any, error) {
	return c.inner.MetricDocuments(ctx, spec, participantID, window)
}
