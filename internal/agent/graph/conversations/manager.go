package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
)

// MessagesManager mediates between the graph and the persistence layer:
// message history and the accumulated lead record, both keyed by
// conversation ID.
type MessagesManager struct {
	conversationRepo   model.ConversationRepository
	leadRepo           model.LeadRepository
	classifierMaxTurns int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, leadRepo model.LeadRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo:   conversationRepo,
		leadRepo:           leadRepo,
		classifierMaxTurns: config.Classifier.MaxTurns,
	}
}

// BeginTurn persists the incoming user message and returns the prior
// history (the transcript as it stood before this turn, so first-contact
// detection keeps working) together with the stored lead record.
func (cm *MessagesManager) BeginTurn(ctx context.Context, conversationID string, query string) ([]*schema.Message, map[string]any, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}

	if err := cm.conversationRepo.AddMessage(ctx, conversationID, schema.UserMessage(query)); err != nil {
		return nil, nil, err
	}

	lead, err := cm.leadRepo.LoadLead(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}

	return history.Messages, lead, nil
}

// RecentContext returns at most the configured number of trailing messages
// for the classification prompt.
func (cm *MessagesManager) RecentContext(prior []*schema.Message) []*schema.Message {
	return trimTail(prior, cm.classifierMaxTurns)
}

// History returns the stored transcript for a conversation.
func (cm *MessagesManager) History(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return history.Messages, nil
}

// SaveResponse appends the assistant reply to the stored transcript.
func (cm *MessagesManager) SaveResponse(ctx context.Context, conversationID string, content string) error {
	return cm.conversationRepo.AddMessage(ctx, conversationID, schema.AssistantMessage(content, nil))
}

// FlushLead merges the turn's accumulated lead fields into the lead store.
func (cm *MessagesManager) FlushLead(ctx context.Context, conversationID string, fields map[string]any) error {
	return cm.leadRepo.SaveLead(ctx, conversationID, fields)
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
