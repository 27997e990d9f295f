package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/intent_prompt.txt
var intentSystemPrompt string

// RenderIntentSystem renders the classification prompt via the Eino prompt
// component. The persona, the current user input and at most the trailing
// context messages are substituted with a replacer so free text can never
// collide with template syntax.
func RenderIntentSystem(ctx context.Context, personality string, userInput string, recent []*schema.Message) (string, error) {
	if personality == "" {
		personality = "Professional real estate assistant"
	}

	content := strings.NewReplacer(
		"{personality}", personality,
		"{user_input}", userInput,
		"{recent_history}", formatRecentHistory(recent),
	).Replace(intentSystemPrompt)

	// Wrap via Eino prompt component using a messages placeholder to emit callbacks
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("intent prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("intent prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}

// formatRecentHistory flattens trailing context messages into role-tagged
// lines for the classification prompt.
func formatRecentHistory(recent []*schema.Message) string {
	if len(recent) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, msg := range recent {
		if msg == nil || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.User, schema.Assistant:
			b.WriteString(string(msg.Role) + ": " + msg.Content + "\n")
		}
	}
	if b.Len() == 0 {
		return "(none)"
	}
	return strings.TrimRight(b.String(), "\n")
}
