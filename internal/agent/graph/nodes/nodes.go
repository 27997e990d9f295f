package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	agentconfig "github.com/tamimsangrar/pubx-real-estate/internal/agent/config"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/graph/conversations"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/graph/handlers"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/graph/prompts"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
	logx "github.com/tamimsangrar/pubx-real-estate/pkg/logger"
)

// Node names. analyze_intent and generate_response are the entry and exit
// pseudo-steps; the six step nodes carry the intent names they serve.
const (
	NodeAnalyzeIntent     = "analyze_intent"
	NodeIntentChatModel   = "intent_chat_model"
	NodeIntentParser      = "intent_parser"
	NodeGreeting          = "greeting"
	NodePropertySearch    = "property_search"
	NodeLeadQualification = "lead_qualification"
	NodeScheduleViewing   = "schedule_viewing"
	NodeGeneralInfo       = "general_info"
	NodeEscalate          = "escalate"
	NodeGenerateResponse  = "generate_response"
	NodeResponseChatModel = "response_chat_model"
	NodeFinalizeTurn      = "finalize_turn"
)

// StepNodeFor maps an intent to the graph node handling it.
func StepNodeFor(intent model.Intent) string {
	switch intent {
	case model.IntentGreeting:
		return NodeGreeting
	case model.IntentPropertySearch:
		return NodePropertySearch
	case model.IntentLeadQualification:
		return NodeLeadQualification
	case model.IntentScheduleViewing:
		return NodeScheduleViewing
	case model.IntentEscalate:
		return NodeEscalate
	default:
		return NodeGeneralInfo
	}
}

// NewAnalyzeIntentPreHandler seeds the turn-local state from the query.
func NewAnalyzeIntentPreHandler() func(context.Context, model.QueryInput, *model.ConversationState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.ConversationState) (model.QueryInput, error) {
		s.ConversationID = in.ConversationID
		s.UserInput = in.Query
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewAnalyzeIntentNode persists the user message, loads prior history and
// the stored lead record into state, and renders the classification prompt
// as a single system message.
func NewAnalyzeIntentNode(
	mm *conversations.MessagesManager,
	cm *agentconfig.AgentConfigManager,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) ([]*schema.Message, error) {
		prior, lead, err := mm.BeginTurn(ctx, input.ConversationID, input.Query)
		if err != nil {
			return nil, fmt.Errorf("begin turn: %w", err)
		}

		err = compose.ProcessState(ctx, func(_ context.Context, state *model.ConversationState) error {
			state.Messages = prior
			state.MergeLeadInfo(lead)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("seed turn state: %w", err)
		}

		cfg := cm.GetAgentConfig(ctx)
		systemPrompt, err := prompts.RenderIntentSystem(ctx, cfg.Personality, input.Query, mm.RecentContext(prior))
		if err != nil {
			return nil, fmt.Errorf("render intent prompt: %w", err)
		}

		return []*schema.Message{schema.SystemMessage(systemPrompt)}, nil
	})
}

// NewIntentParserNode maps the classifier reply to one of the six intents,
// falling back to general_info for anything unrecognized.
func NewIntentParserNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (model.Intent, error) {
		if resp == nil {
			logx.Warn().Msg("Classifier returned no message, defaulting to general_info")
			return model.IntentGeneralInfo, nil
		}
		intent := model.ParseIntent(resp.Content)
		logx.Debug().Str("raw", resp.Content).Str("intent", intent.String()).Msg("Intent classified")
		return intent, nil
	})
}

// NewIntentParserPostHandler records the routing decision in state.
func NewIntentParserPostHandler() func(context.Context, model.Intent, *model.ConversationState) (model.Intent, error) {
	return func(ctx context.Context, out model.Intent, state *model.ConversationState) (model.Intent, error) {
		state.CurrentStep = out
		return out, nil
	}
}

// NewIntentRouter creates the branch condition dispatching to the step node
// for the classified intent. ParseIntent is total, so the branch always has
// a valid target.
func NewIntentRouter() func(context.Context, model.Intent) (string, error) {
	return func(ctx context.Context, intent model.Intent) (string, error) {
		node := StepNodeFor(intent)
		logx.Debug().Str("intent", intent.String()).Str("node", node).Msg("Routing conversation step")
		return node, nil
	}
}

// NewStepNode wraps one conversation-step handler as a lambda node. The
// intent passes through unchanged so every step node feeds the response
// assembler the same way.
func NewStepNode(
	steps *handlers.Steps,
	cm *agentconfig.AgentConfigManager,
	intent model.Intent,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Intent) (model.Intent, error) {
		cfg := cm.GetAgentConfig(ctx)
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.ConversationState) error {
			return steps.ForIntent(intent)(ctx, state, cfg)
		})
		if err != nil {
			return in, fmt.Errorf("%s step: %w", intent, err)
		}
		return in, nil
	})
}

// NewGenerateResponseNode assembles the reply-synthesis messages: the
// rendered system prompt plus the user's original turn.
func NewGenerateResponseNode(cm *agentconfig.AgentConfigManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.Intent) ([]*schema.Message, error) {
		cfg := cm.GetAgentConfig(ctx)

		var messages []*schema.Message
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.ConversationState) error {
			systemPrompt, rerr := prompts.RenderResponseSystem(ctx, cfg, state)
			if rerr != nil {
				return rerr
			}
			messages = []*schema.Message{
				schema.SystemMessage(systemPrompt),
				schema.UserMessage(state.UserInput),
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("generate response prompt: %w", err)
		}
		return messages, nil
	})
}

// NewResponseChatModelPostHandler accounts usage cost for the response model.
func NewResponseChatModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.ConversationState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.ConversationState) (*schema.Message, error) {
		applyUsageCost(NodeResponseChatModel, modelName, out, state)
		return out, nil
	}
}

// NewIntentChatModelPostHandler accounts usage cost for the classifier model.
func NewIntentChatModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.ConversationState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.ConversationState) (*schema.Message, error) {
		applyUsageCost(NodeIntentChatModel, modelName, out, state)
		return out, nil
	}
}

// NewFinalizeTurnNode stores the synthesized reply, appends the turn's
// {user, assistant} pair to the transcript, flushes the lead record and
// assembles the TurnResult. Persistence failures here are logged, never
// propagated: the reply already exists and must reach the user.
func NewFinalizeTurnNode(mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (*model.TurnResult, error) {
		var result *model.TurnResult
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.ConversationState) error {
			content := ""
			if resp != nil {
				content = resp.Content
			}
			state.AgentResponse = content
			state.Messages = append(state.Messages,
				schema.UserMessage(state.UserInput),
				schema.AssistantMessage(content, nil),
			)

			if serr := mm.SaveResponse(ctx, state.ConversationID, content); serr != nil {
				logx.Error().Err(serr).Str("conversation_id", state.ConversationID).Msg("Error saving assistant response")
			}
			if len(state.LeadInfo) > 0 {
				if lerr := mm.FlushLead(ctx, state.ConversationID, state.LeadInfo); lerr != nil {
					logx.Error().Err(lerr).Str("conversation_id", state.ConversationID).Msg("Error flushing lead record")
				}
			}

			result = &model.TurnResult{
				Response:    content,
				Messages:    state.Messages,
				LeadInfo:    state.LeadInfo,
				ToolsUsed:   state.ToolsUsed,
				CurrentStep: state.CurrentStep.String(),
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("finalize turn: %w", err)
		}
		return result, nil
	})
}
