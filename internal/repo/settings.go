package repo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
	errx "github.com/tamimsangrar/pubx-real-estate/internal/core/error"
	logx "github.com/tamimsangrar/pubx-real-estate/pkg/logger"
)

// ErrSettingNotFound reports a missing settings key.
var ErrSettingNotFound = errx.New(redis.Nil, http.StatusNotFound, errx.SettingsErrorMessage)

// RedisSettingsRepository is the key-value store behind admin-editable
// configuration. Values are opaque strings; callers own the encoding
// (agent config is stored as JSON).
type RedisSettingsRepository struct {
	rdb redis.Cmdable
}

func NewRedisSettingsRepository(rdb redis.Cmdable) *RedisSettingsRepository {
	return &RedisSettingsRepository{rdb: rdb}
}

func (r *RedisSettingsRepository) settingsKey(key string) string {
	return fmt.Sprintf("settings:%s", key)
}

func (r *RedisSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, r.settingsKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrSettingNotFound
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to read setting from redis")
		return "", errx.WrapRedis(err)
	}
	return val, nil
}

func (r *RedisSettingsRepository) Set(ctx context.Context, key, value string) error {
	// settings have no TTL: they live until an admin overwrites them
	if err := r.rdb.Set(ctx, r.settingsKey(key), value, 0).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write setting to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.SettingsRepository = (*RedisSettingsRepository)(nil)
