package conversations

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
	"github.com/tamimsangrar/pubx-real-estate/internal/repo"
)

func newTestManager(t *testing.T) *MessagesManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := model.ConversationConfig{TTL: "15m"}
	cfg.Classifier.MaxTurns = 3

	return NewMessagesManager(
		repo.NewRedisConversationRepository(client, 15*time.Minute),
		repo.NewRedisLeadRepository(client, 15*time.Minute),
		cfg,
	)
}

func TestBeginTurnReturnsPriorHistory(t *testing.T) {
	mm := newTestManager(t)
	ctx := context.Background()

	// first turn: the transcript was empty before this message
	prior, lead, err := mm.BeginTurn(ctx, "conv-1", "hello")
	require.NoError(t, err)
	assert.Empty(t, prior)
	assert.Empty(t, lead)

	require.NoError(t, mm.SaveResponse(ctx, "conv-1", "hi there"))

	// second turn: prior history holds the first exchange, not this message
	prior, _, err = mm.BeginTurn(ctx, "conv-1", "show me houses")
	require.NoError(t, err)
	require.Len(t, prior, 2)
	assert.Equal(t, "hello", prior[0].Content)
	assert.Equal(t, "hi there", prior[1].Content)

	// the stored transcript does include the new message
	history, err := mm.History(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "show me houses", history[2].Content)
}

func TestBeginTurnLoadsLead(t *testing.T) {
	mm := newTestManager(t)
	ctx := context.Background()

	require.NoError(t, mm.FlushLead(ctx, "conv-1", map[string]any{"email": "jamie@example.com"}))

	_, lead, err := mm.BeginTurn(ctx, "conv-1", "hello again")
	require.NoError(t, err)
	assert.Equal(t, "jamie@example.com", lead["email"])
}

func TestRecentContextTrimsTail(t *testing.T) {
	mm := newTestManager(t)

	msgs := []*schema.Message{
		schema.UserMessage("one"),
		schema.AssistantMessage("two", nil),
		schema.UserMessage("three"),
		schema.AssistantMessage("four", nil),
		schema.UserMessage("five"),
	}

	recent := mm.RecentContext(msgs)
	require.Len(t, recent, 3)
	assert.Equal(t, "three", recent[0].Content)
	assert.Equal(t, "five", recent[2].Content)

	// short histories come back whole
	assert.Len(t, mm.RecentContext(msgs[:2]), 2)
}
