// Package config owns the admin-editable agent configuration: a cached
// read path for the conversation graph and a write path for the admin
// surface (merge updates, personality presets).
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
	logx "github.com/tamimsangrar/pubx-real-estate/pkg/logger"
)

const (
	agentConfigKey     = "agent_config"
	analyticsConfigKey = "analytics_config"

	// DefaultCacheTTL bounds how stale a served config can be.
	DefaultCacheTTL = 5 * time.Minute
)

// AgentConfigManager serves agent configuration from the settings store
// with a timed in-process cache. It is the only cross-turn shared state in
// the engine, hence the mutex.
type AgentConfigManager struct {
	settings model.SettingsRepository
	cacheTTL time.Duration
	now      func() time.Time

	mu        sync.Mutex
	cached    *model.AgentConfig
	fetchedAt time.Time
}

func NewAgentConfigManager(settings model.SettingsRepository, cacheTTL time.Duration) *AgentConfigManager {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &AgentConfigManager{
		settings: settings,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// GetAgentConfig returns the stored configuration, serving from cache
// within the TTL. A missing entry installs and returns the default config;
// a store failure degrades to the default config so a conversation turn is
// never blocked on the settings store.
func (m *AgentConfigManager) GetAgentConfig(ctx context.Context) *model.AgentConfig {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != nil && m.now().Sub(m.fetchedAt) < m.cacheTTL {
		return m.cached
	}

	raw, err := m.settings.Get(ctx, agentConfigKey)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			cfg := model.DefaultAgentConfig()
			if serr := m.saveLocked(ctx, cfg); serr != nil {
				logx.Warn().Err(serr).Msg("failed to install default agent config")
			}
			m.cached = cfg
			m.fetchedAt = m.now()
			return cfg
		}
		logx.Error().Err(err).Msg("failed to fetch agent config, using defaults")
		return model.DefaultAgentConfig()
	}

	cfg := &model.AgentConfig{}
	if err := json.Unmarshal([]byte(raw), cfg); err != nil {
		logx.Error().Err(err).Msg("stored agent config is not valid JSON, using defaults")
		return model.DefaultAgentConfig()
	}

	m.cached = cfg
	m.fetchedAt = m.now()
	return cfg
}

// UpdateAgentConfig merges the provided fields over the current
// configuration, persists the result and invalidates the cache.
func (m *AgentConfigManager) UpdateAgentConfig(ctx context.Context, updates map[string]any) (*model.AgentConfig, error) {
	current := m.GetAgentConfig(ctx)

	merged, err := mergeConfig(current, updates)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.saveLocked(ctx, merged); err != nil {
		return nil, err
	}
	m.cached = nil
	m.fetchedAt = time.Time{}
	return merged, nil
}

// PersonalityPresets exposes the fixed persona bundles for the admin panel.
func (m *AgentConfigManager) PersonalityPresets() map[string]model.PersonalityPreset {
	return model.PersonalityPresets()
}

// ApplyPersonalityPreset overlays a named preset onto the stored
// configuration. An unknown name is rejected up front, before any store
// access or cache mutation.
func (m *AgentConfigManager) ApplyPersonalityPreset(ctx context.Context, name string) (*model.AgentConfig, error) {
	preset, ok := model.PersonalityPresets()[name]
	if !ok {
		return nil, fmt.Errorf("unknown personality preset: %s", name)
	}

	return m.UpdateAgentConfig(ctx, map[string]any{
		"personality":      preset.Personality,
		"response_style":   preset.ResponseStyle,
		"greeting_message": preset.GreetingMessage,
	})
}

// GetAnalyticsConfig returns the conversation analytics toggles, falling
// back to tracking-on defaults when the store has no entry or fails.
func (m *AgentConfigManager) GetAnalyticsConfig(ctx context.Context) *model.AnalyticsConfig {
	raw, err := m.settings.Get(ctx, analyticsConfigKey)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logx.Error().Err(err).Msg("failed to fetch analytics config, using defaults")
		}
		return model.DefaultAnalyticsConfig()
	}

	cfg := &model.AnalyticsConfig{}
	if err := json.Unmarshal([]byte(raw), cfg); err != nil {
		logx.Error().Err(err).Msg("stored analytics config is not valid JSON, using defaults")
		return model.DefaultAnalyticsConfig()
	}
	return cfg
}

// InvalidateCache forces the next read to hit the settings store.
func (m *AgentConfigManager) InvalidateCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = nil
	m.fetchedAt = time.Time{}
}

func (m *AgentConfigManager) saveLocked(ctx context.Context, cfg *model.AgentConfig) error {
	b, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal agent config: %w", err)
	}
	return m.settings.Set(ctx, agentConfigKey, string(b))
}

// mergeConfig overlays a partial update map onto a typed config through a
// JSON round-trip, so update keys use the same names as the stored JSON.
func mergeConfig(current *model.AgentConfig, updates map[string]any) (*model.AgentConfig, error) {
	b, err := json.Marshal(current)
	if err != nil {
		return nil, fmt.Errorf("marshal current config: %w", err)
	}
	var asMap map[string]any
	if err := json.Unmarshal(b, &asMap); err != nil {
		return nil, fmt.Errorf("unmarshal current config: %w", err)
	}
	for k, v := range updates {
		asMap[k] = v
	}
	b, err = json.Marshal(asMap)
	if err != nil {
		return nil, fmt.Errorf("marshal merged config: %w", err)
	}
	merged := &model.AgentConfig{}
	if err := json.Unmarshal(b, merged); err != nil {
		return nil, fmt.Errorf("unmarshal merged config: %w", err)
	}
	return merged, nil
}
