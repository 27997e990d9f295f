package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	agentconfig "github.com/tamimsangrar/pubx-real-estate/internal/agent/config"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/graph/conversations"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/graph/handlers"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/graph/nodes"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/graph/observers"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/tools"
	logx "github.com/tamimsangrar/pubx-real-estate/pkg/logger"
)

// apologyResponse replaces the synthesized reply when a collaborator fails
// mid-turn. The transcript is returned as stored; the user's message is
// never dropped from it.
const apologyResponse = "I'm sorry, I'm having trouble responding right now. Please try again in a moment."

// Runner executes the compiled graph for one conversation turn.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (*model.TurnResult, error)
}

// Config holds everything needed to compose the full conversation graph
// end-to-end. This is a convenience layer over GraphConfig that also
// constructs ChatModels, MessagesManager and the step handlers.
type Config struct {
	APIKey  string
	BaseURL string

	ClassifierModel model.ClassifierModelConfig
	ResponseModel   model.ResponseModelConfig
	Conversation    model.ConversationConfig

	ConversationRepo model.ConversationRepository
	LeadRepo         model.LeadRepository
	ConfigManager    *agentconfig.AgentConfigManager

	// Optional collaborators; the built-in stubs are used when nil.
	Catalog   model.PropertySearcher
	Scheduler model.SlotProvider
}

// GraphConfig holds all configuration needed to build the graph
type GraphConfig struct {
	ChatModels      *nodes.ChatModels
	MessagesManager *conversations.MessagesManager
	ConfigManager   *agentconfig.AgentConfigManager
	Steps           *handlers.Steps
}

// GraphBuilder handles the construction of the conversation graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *model.TurnResult]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *model.TurnResult]
	mm       *conversations.MessagesManager
}

func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) (*model.TurnResult, error) {
	out, err := r.runnable.Invoke(ctx, model.QueryInput{
		ConversationID: in.ConversationID,
		Query:          in.Query,
	}, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", in.ConversationID).Msg("Turn failed, substituting fallback response")
		return r.fallbackResult(ctx, in), nil
	}
	if out == nil {
		logx.Error().Str("conversation_id", in.ConversationID).Msg("Graph produced no result, substituting fallback response")
		return r.fallbackResult(ctx, in), nil
	}
	return out, nil
}

// fallbackResult builds the apology turn from the stored transcript. When
// the store is unreachable, or the failure happened before the user message
// was persisted, the message is reattached so it never disappears.
func (r *graphRunner) fallbackResult(ctx context.Context, in model.QueryInput) *model.TurnResult {
	messages, err := r.mm.History(ctx, in.ConversationID)
	if err != nil {
		logx.Warn().Err(err).Str("conversation_id", in.ConversationID).Msg("Could not load history for fallback response")
		messages = []*schema.Message{}
	}
	if n := len(messages); n == 0 || messages[n-1] == nil ||
		messages[n-1].Role != schema.User || messages[n-1].Content != in.Query {
		messages = append(messages, schema.UserMessage(in.Query))
	}
	return &model.TurnResult{
		Response:    apologyResponse,
		Messages:    messages,
		LeadInfo:    map[string]any{},
		ToolsUsed:   []string{},
		CurrentStep: model.IntentGeneralInfo.String(),
	}
}

// BuildConversationGraph composes ChatModels, MessagesManager and step
// handlers, builds the graph, and returns a Runner.
func BuildConversationGraph(ctx context.Context, cfg Config) (Runner, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}
	if cfg.LeadRepo == nil {
		return nil, fmt.Errorf("lead repo is nil")
	}
	if cfg.ConfigManager == nil {
		return nil, fmt.Errorf("config manager is nil")
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		ClassifierConfig: &cfg.ClassifierModel,
		RespConfig:       &cfg.ResponseModel,
	})
	if err != nil {
		return nil, err
	}

	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.LeadRepo, cfg.Conversation)

	catalog := cfg.Catalog
	if catalog == nil {
		catalog = tools.NewStaticCatalog()
	}
	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler = tools.NewClockScheduler()
	}

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModels:      cms,
		MessagesManager: mm,
		ConfigManager:   cfg.ConfigManager,
		Steps:           handlers.New(catalog, scheduler),
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Conversation graph built successfully")
	return &graphRunner{runnable: runnable, mm: mm}, nil
}

// BuildGraph constructs and returns the compiled conversation graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *model.TurnResult], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Classifier == nil || config.ChatModels.Response == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.ConfigManager == nil {
		return nil, fmt.Errorf("config manager is nil")
	}
	if config.Steps == nil {
		return nil, fmt.Errorf("step handlers are nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *model.TurnResult](
			compose.WithGenLocalState(func(ctx context.Context) *model.ConversationState {
				return model.NewConversationState()
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranch(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeAnalyzeIntent,
		nodes.NewAnalyzeIntentNode(b.config.MessagesManager, b.config.ConfigManager),
		compose.WithStatePreHandler(nodes.NewAnalyzeIntentPreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodeIntentChatModel,
		nodes.NewClassifierChatModelNode(b.config.ChatModels.Classifier),
		compose.WithStatePostHandler(nodes.NewIntentChatModelPostHandler(b.config.ChatModels.ClassifierModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeIntentParser,
		nodes.NewIntentParserNode(),
		compose.WithStatePostHandler(nodes.NewIntentParserPostHandler()),
	)

	// one lambda node per conversation step
	for _, intent := range model.AllIntents() {
		b.graph.AddLambdaNode(nodes.StepNodeFor(intent),
			nodes.NewStepNode(b.config.Steps, b.config.ConfigManager, intent),
		)
	}

	b.graph.AddLambdaNode(nodes.NodeGenerateResponse,
		nodes.NewGenerateResponseNode(b.config.ConfigManager),
	)

	b.graph.AddChatModelNode(nodes.NodeResponseChatModel,
		nodes.NewResponseChatModelNode(b.config.ChatModels.Response),
		compose.WithStatePostHandler(nodes.NewResponseChatModelPostHandler(b.config.ChatModels.ResponseModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeFinalizeTurn,
		nodes.NewFinalizeTurnNode(b.config.MessagesManager),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeAnalyzeIntent},
		{nodes.NodeAnalyzeIntent, nodes.NodeIntentChatModel},
		{nodes.NodeIntentChatModel, nodes.NodeIntentParser},
		{nodes.NodeGenerateResponse, nodes.NodeResponseChatModel},
		{nodes.NodeResponseChatModel, nodes.NodeFinalizeTurn},
		{nodes.NodeFinalizeTurn, compose.END},
	}

	// every conversation step flows into response generation
	for _, intent := range model.AllIntents() {
		edges = append(edges, [2]string{nodes.StepNodeFor(intent), nodes.NodeGenerateResponse})
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranch creates the six-way routing branch off the intent parser.
// ParseIntent is total over its input, so the branch is total over the
// routing table.
func (b *GraphBuilder) addBranch() error {
	targets := map[string]bool{}
	for _, intent := range model.AllIntents() {
		targets[nodes.StepNodeFor(intent)] = true
	}

	routeBranch := compose.NewGraphBranch(nodes.NewIntentRouter(), targets)
	if err := b.graph.AddBranch(nodes.NodeIntentParser, routeBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding intent routing branch")
		return fmt.Errorf("error adding intent routing branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *model.TurnResult], error) {
	// The turn path is fixed length; the cap only guards against wiring bugs.
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(20))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
