package config

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
	errx "github.com/tamimsangrar/pubx-real-estate/internal/core/error"
)

// memSettings is an in-memory SettingsRepository mirroring the Redis repo's
// not-found semantics.
type memSettings struct {
	values map[string]string
	sets   int
}

func newMemSettings() *memSettings {
	return &memSettings{values: map[string]string{}}
}

func (m *memSettings) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", errx.New(redis.Nil, http.StatusNotFound, errx.SettingsErrorMessage)
	}
	return v, nil
}

func (m *memSettings) Set(ctx context.Context, key, value string) error {
	m.sets++
	m.values[key] = value
	return nil
}

func newTestManager(settings *memSettings) (*AgentConfigManager, *time.Time) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	mgr := NewAgentConfigManager(settings, 5*time.Minute)
	mgr.now = func() time.Time { return now }
	return mgr, &now
}

func TestGetAgentConfigInstallsDefault(t *testing.T) {
	settings := newMemSettings()
	mgr, _ := newTestManager(settings)

	cfg := mgr.GetAgentConfig(context.Background())
	require.NotNil(t, cfg)
	assert.Equal(t, model.DefaultAgentConfig().Personality, cfg.Personality)

	// the default was written back to the store
	stored, ok := settings.values[agentConfigKey]
	require.True(t, ok)
	fromStore := &model.AgentConfig{}
	require.NoError(t, json.Unmarshal([]byte(stored), fromStore))
	assert.Equal(t, cfg.Personality, fromStore.Personality)
}

func TestGetAgentConfigServesFromCache(t *testing.T) {
	settings := newMemSettings()
	mgr, now := newTestManager(settings)

	first := mgr.GetAgentConfig(context.Background())

	// mutate the store behind the manager's back
	changed := model.DefaultAgentConfig()
	changed.Personality = "changed"
	b, err := json.Marshal(changed)
	require.NoError(t, err)
	settings.values[agentConfigKey] = string(b)

	// within the TTL the cached copy is served
	*now = now.Add(4 * time.Minute)
	assert.Equal(t, first.Personality, mgr.GetAgentConfig(context.Background()).Personality)

	// past the TTL the store is re-read
	*now = now.Add(2 * time.Minute)
	assert.Equal(t, "changed", mgr.GetAgentConfig(context.Background()).Personality)
}

func TestUpdateAgentConfigMerges(t *testing.T) {
	settings := newMemSettings()
	mgr, _ := newTestManager(settings)

	updated, err := mgr.UpdateAgentConfig(context.Background(), map[string]any{
		"personality":         "Direct and to the point",
		"max_response_length": 100,
	})
	require.NoError(t, err)

	assert.Equal(t, "Direct and to the point", updated.Personality)
	assert.Equal(t, 100, updated.MaxResponseLength)
	// untouched fields survive the merge
	assert.Equal(t, model.DefaultAgentConfig().ResponseStyle, updated.ResponseStyle)

	// the cache was invalidated, so the next read reflects the store
	assert.Equal(t, "Direct and to the point", mgr.GetAgentConfig(context.Background()).Personality)
}

func TestApplyPersonalityPreset(t *testing.T) {
	settings := newMemSettings()
	mgr, _ := newTestManager(settings)

	updated, err := mgr.ApplyPersonalityPreset(context.Background(), "friendly")
	require.NoError(t, err)

	preset := model.PersonalityPresets()["friendly"]
	assert.Equal(t, preset.Personality, updated.Personality)
	assert.Equal(t, preset.ResponseStyle, updated.ResponseStyle)
	assert.Equal(t, preset.GreetingMessage, updated.GreetingMessage)
}

func TestApplyPersonalityPresetUnknown(t *testing.T) {
	settings := newMemSettings()
	mgr, _ := newTestManager(settings)

	_, err := mgr.ApplyPersonalityPreset(context.Background(), "sassy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sassy")

	// rejected before any store access
	assert.Zero(t, settings.sets)
}

func TestGetAnalyticsConfigDefaults(t *testing.T) {
	settings := newMemSettings()
	mgr, _ := newTestManager(settings)

	cfg := mgr.GetAnalyticsConfig(context.Background())
	assert.True(t, cfg.TrackConversations)
	assert.False(t, cfg.AnonymizeData)
}

func TestGetAnalyticsConfigStored(t *testing.T) {
	settings := newMemSettings()
	mgr, _ := newTestManager(settings)

	stored := model.DefaultAnalyticsConfig()
	stored.AnonymizeData = true
	b, err := json.Marshal(stored)
	require.NoError(t, err)
	settings.values[analyticsConfigKey] = string(b)

	assert.True(t, mgr.GetAnalyticsConfig(context.Background()).AnonymizeData)
}
