package prompts

import (
	"context"
	"encoding/json"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
)

//go:embed template/response_prompt.txt
var responseSystemPrompt string

// RenderResponseSystem renders the reply-synthesis system prompt from the
// persona configuration and the enriched turn state, and triggers prompt
// callbacks.
func RenderResponseSystem(ctx context.Context, cfg *model.AgentConfig, state *model.ConversationState) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("agent config is nil")
	}
	if state == nil {
		return "", fmt.Errorf("conversation state is nil")
	}

	userContext, err := json.MarshalIndent(state.UserContext, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode user context: %w", err)
	}
	leadInfo, err := json.MarshalIndent(state.LeadInfo, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode lead info: %w", err)
	}

	// Render via Eino prompt component (Go template) to both format and emit callbacks
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(responseSystemPrompt),
	)
	vars := map[string]any{
		"Personality":       cfg.Personality,
		"SystemPrompt":      cfg.SystemPrompt,
		"CurrentStep":       state.CurrentStep.String(),
		"UserInput":         state.UserInput,
		"UserContext":       string(userContext),
		"LeadInfo":          string(leadInfo),
		"ToolsUsed":         fmt.Sprintf("%v", state.ToolsUsed),
		"ResponseStyle":     cfg.ResponseStyle,
		"MaxResponseLength": cfg.MaxResponseLength,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("response prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("response prompt render: empty result")
	}
	return msgs[0].Content, nil
}
