package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	agentconfig "github.com/tamimsangrar/pubx-real-estate/internal/agent/config"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/graph"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
	"github.com/tamimsangrar/pubx-real-estate/internal/core"
	"github.com/tamimsangrar/pubx-real-estate/internal/repo"
	logx "github.com/tamimsangrar/pubx-real-estate/pkg/logger"
	pkgredis "github.com/tamimsangrar/pubx-real-estate/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant example,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Classifier   model.ClassifierModelConfig
	Response     model.ResponseModelConfig
	Conversation model.ConversationConfig
	Settings     model.SettingsConfig
}

func main() {
	fmt.Println("Testing real-estate conversation graph...")
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(os.Getenv("ENVIRONMENT"))})

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	// ====================================================
	// Build graph config entirely from env
	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}
	cacheTTL, err := time.ParseDuration(envCfg.Settings.CacheTTL)
	if err != nil {
		log.Fatalf("Invalid AGENT_CONFIG_CACHE_TTL '%s': %v", envCfg.Settings.CacheTTL, err)
	}

	configManager := agentconfig.NewAgentConfigManager(repo.NewRedisSettingsRepository(rdb), cacheTTL)

	cfg := graph.Config{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		ClassifierModel:  envCfg.Classifier,
		ResponseModel:    envCfg.Response,
		Conversation:     envCfg.Conversation,
		ConversationRepo: repo.NewRedisConversationRepository(rdb, ttl),
		LeadRepo:         repo.NewRedisLeadRepository(rdb, ttl),
		ConfigManager:    configManager,
	}

	runner, err := graph.BuildConversationGraph(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Initial greeting",
			query:       "Hi there!",
		},
		{
			description: "Property search with criteria",
			query:       "I'm looking for a 3 bedroom house under $400k in Midtown",
		},
		{
			description: "Budget and contact details",
			query:       "My budget is $350k, you can reach me at jamie@example.com",
		},
		{
			description: "Viewing request",
			query:       "Can we do Saturday or Tuesday?",
		},
		{
			description: "Market question",
			query:       "How are prices trending in this area?",
		},
	}

	conversationID := "demo-conversation-001"

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: \"%s\"\n", test.query)
		fmt.Println("Processing...")

		result, err := runner.Invoke(ctx, model.QueryInput{
			ConversationID: conversationID,
			Query:          test.query,
		})
		if err != nil {
			log.Fatalf("Failed to invoke graph for test %d: %v", i+1, err)
		}

		fmt.Printf("Step: %s | Tools: %v\n", result.CurrentStep, result.ToolsUsed)
		fmt.Printf("Response %d: %s\n", i+1, result.Response)
		fmt.Println("────────────────────────────────────────────────")

		// slight delay between turns for readability
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println("All conversation turns completed successfully!")
}
