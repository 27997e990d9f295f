package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadRepositoryAdditiveMerge(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisLeadRepository(client, 15*time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.SaveLead(ctx, "conv-1", map[string]any{
		"budget": 300000,
		"email":  "jamie@example.com",
	}))

	// empty and nil values are skipped; new fields are added
	require.NoError(t, repo.SaveLead(ctx, "conv-1", map[string]any{
		"email": "",
		"name":  nil,
		"phone": "555-123-4567",
	}))

	lead, err := repo.LoadLead(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"budget": "300000",
		"email":  "jamie@example.com",
		"phone":  "555-123-4567",
	}, lead)

	assert.Greater(t, mr.TTL("conversation:conv-1:lead"), time.Duration(0))
}

func TestLeadRepositoryAllFieldsSkipped(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewRedisLeadRepository(client, 15*time.Minute)
	ctx := context.Background()

	// a write with nothing usable is a no-op, it does not create the key
	require.NoError(t, repo.SaveLead(ctx, "conv-1", map[string]any{"email": "", "name": nil}))
	assert.False(t, mr.Exists("conversation:conv-1:lead"))
}

func TestLeadRepositoryMissingLead(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewRedisLeadRepository(client, 15*time.Minute)

	lead, err := repo.LoadLead(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, lead)
}
