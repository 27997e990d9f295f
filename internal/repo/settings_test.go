package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsRepositoryRoundTrip(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewRedisSettingsRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "agent_config", `{"personality":"friendly"}`))

	val, err := repo.Get(ctx, "agent_config")
	require.NoError(t, err)
	assert.Equal(t, `{"personality":"friendly"}`, val)
}

func TestSettingsRepositoryMissingKey(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewRedisSettingsRepository(client)

	_, err := repo.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSettingNotFound)
	// callers match on redis.Nil to detect the first-run case
	assert.True(t, errors.Is(err, redis.Nil))
}

func TestSettingsRepositoryNoTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisSettingsRepository(client)

	require.NoError(t, repo.Set(context.Background(), "agent_config", "{}"))
	assert.Zero(t, mr.TTL("settings:agent_config"))
}
