package model

import (
	"github.com/cloudwego/eino/schema"
)

// ConversationState stores per-turn state for the Eino graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState,
//     so a fresh value is created for every Invoke and discarded afterwards.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//     Eino serializes access within these handlers, so no mutex is needed.
//   - Cross-turn continuity (message history, lead record) lives in the
//     repositories, never in this struct.
type ConversationState struct {
	ConversationID string
	UserInput      string            // raw text of the current turn, set once
	AgentResponse  string            // written exactly once by the finalizer
	CurrentStep    Intent            // set by the intent parser, read by the branch
	Messages       []*schema.Message // prior history; current turn appended at the end
	UserContext    map[string]any    // handler enrichment, additive within a turn
	LeadInfo       map[string]any    // qualification/contact fields, additive merge
	ToolsUsed      []string          // handler names invoked this turn

	// Accumulated total LLM cost (USD) across model invocations for this turn
	TotalCostUSD float64
}

// NewConversationState returns a turn-local state with initialized maps.
func NewConversationState() *ConversationState {
	return &ConversationState{
		CurrentStep: IntentGreeting,
		Messages:    []*schema.Message{},
		UserContext: map[string]any{},
		LeadInfo:    map[string]any{},
		ToolsUsed:   []string{},
	}
}

// MergeLeadInfo copies fields into LeadInfo without erasing existing keys:
// nil and empty-string values are skipped so a missed extraction never
// clobbers data gathered on an earlier turn.
func (s *ConversationState) MergeLeadInfo(fields map[string]any) {
	for k, v := range fields {
		if v == nil {
			continue
		}
		if str, ok := v.(string); ok && str == "" {
			continue
		}
		s.LeadInfo[k] = v
	}
}

// QueryInput represents the input for processing one user turn.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}

// TurnResult is the outcome of one user-message → agent-response cycle.
type TurnResult struct {
	Response    string            `json:"response"`
	Messages    []*schema.Message `json:"conversation_history"`
	LeadInfo    map[string]any    `json:"lead_info"`
	ToolsUsed   []string          `json:"tools_used"`
	CurrentStep string            `json:"current_step"`
}
