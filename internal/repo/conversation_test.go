package repo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestConversationRepositoryRoundTrip(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisConversationRepository(client, 15*time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.AddMessage(ctx, "conv-1", schema.UserMessage("hello")))
	require.NoError(t, repo.AddMessage(ctx, "conv-1", schema.AssistantMessage("hi, how can I help?", nil)))

	history, err := repo.LoadHistory(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, schema.User, history.Messages[0].Role)
	assert.Equal(t, "hello", history.Messages[0].Content)
	assert.Equal(t, schema.Assistant, history.Messages[1].Role)
	assert.Equal(t, "hi, how can I help?", history.Messages[1].Content)

	count, err := repo.GetMessageCount(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// TTL is refreshed on every write
	assert.Greater(t, mr.TTL("conversation:conv-1:messages"), time.Duration(0))
}

func TestConversationRepositoryEmptyHistory(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewRedisConversationRepository(client, 15*time.Minute)

	history, err := repo.LoadHistory(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, history.Messages)

	count, err := repo.GetMessageCount(context.Background(), "missing")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestConversationRepositoryClearHistory(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewRedisConversationRepository(client, 15*time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.AddMessage(ctx, "conv-1", schema.UserMessage("hello")))
	require.NoError(t, repo.ClearHistory(ctx, "conv-1"))

	history, err := repo.LoadHistory(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, history.Messages)
}
