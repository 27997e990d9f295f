package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
	errx "github.com/tamimsangrar/pubx-real-estate/internal/core/error"
	logx "github.com/tamimsangrar/pubx-real-estate/pkg/logger"
)

// RedisLeadRepository stores the accumulated lead record for a conversation
// as a hash. Writes are additive: empty or nil values are skipped, so a
// field captured on an earlier turn survives a turn that failed to extract
// it again.
type RedisLeadRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisLeadRepository(rdb redis.Cmdable, ttl time.Duration) *RedisLeadRepository {
	return &RedisLeadRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisLeadRepository) leadKey(conversationID string) string {
	return fmt.Sprintf("conversation:%s:lead", conversationID)
}

func (r *RedisLeadRepository) SaveLead(ctx context.Context, conversationID string, fields map[string]any) error {
	values := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == nil {
			continue
		}
		s := fmt.Sprint(v)
		if s == "" {
			continue
		}
		values[k] = s
	}
	if len(values) == 0 {
		return nil
	}

	key := r.leadKey(conversationID)
	if err := r.rdb.HSet(ctx, key, values).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save lead fields to redis")
		return errx.WrapRedis(err)
	}
	if r.ttl > 0 {
		if ok, err := r.rdb.Expire(ctx, key, r.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", r.ttl).Msg("failed to set TTL on lead key")
		}
	}
	return nil
}

func (r *RedisLeadRepository) LoadLead(ctx context.Context, conversationID string) (map[string]any, error) {
	key := r.leadKey(conversationID)
	rows, err := r.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return map[string]any{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load lead fields from redis")
		return nil, errx.WrapRedis(err)
	}

	fields := make(map[string]any, len(rows))
	for k, v := range rows {
		fields[k] = v
	}
	return fields, nil
}

var _ model.LeadRepository = (*RedisLeadRepository)(nil)
