// Package handlers implements the six conversation-step handlers. Each
// handler is a plain function over the turn state: it enriches UserContext,
// merges LeadInfo and records its name in ToolsUsed, and never calls the
// completion model. Exactly one handler runs per turn.
package handlers

import (
	"context"

	"github.com/tamimsangrar/pubx-real-estate/internal/agent/extract"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/tools"
)

// requiredQualificationFields is the fixed set a qualified lead must cover.
var requiredQualificationFields = []string{"budget", "timeline", "name", "email"}

// minSearchCriteria is how many criteria fields a search needs before the
// agent stops asking follow-up questions.
const minSearchCriteria = 3

// Steps bundles the external collaborators the handlers depend on.
type Steps struct {
	Catalog   model.PropertySearcher
	Scheduler model.SlotProvider
}

func New(catalog model.PropertySearcher, scheduler model.SlotProvider) *Steps {
	return &Steps{Catalog: catalog, Scheduler: scheduler}
}

// StepFunc is the shared handler contract: mutate the turn state in place
// given the active agent configuration.
type StepFunc func(ctx context.Context, state *model.ConversationState, cfg *model.AgentConfig) error

// ForIntent returns the handler for an intent. The table is total over the
// six intents; ParseIntent guarantees nothing else reaches it.
func (s *Steps) ForIntent(intent model.Intent) StepFunc {
	table := map[model.Intent]StepFunc{
		model.IntentGreeting:          s.Greeting,
		model.IntentPropertySearch:    s.PropertySearch,
		model.IntentLeadQualification: s.LeadQualification,
		model.IntentScheduleViewing:   s.ScheduleViewing,
		model.IntentGeneralInfo:       s.GeneralInfo,
		model.IntentEscalate:          s.Escalate,
	}
	if fn, ok := table[intent]; ok {
		return fn
	}
	return s.GeneralInfo
}

// Greeting records whether this is the user's first contact and surfaces
// persona and service-list context for the response prompt.
func (s *Steps) Greeting(ctx context.Context, state *model.ConversationState, cfg *model.AgentConfig) error {
	state.UserContext["is_first_interaction"] = len(state.Messages) == 0
	state.UserContext["personality"] = cfg.Personality
	state.UserContext["available_services"] = cfg.Services
	return nil
}

// PropertySearch extracts search criteria from the utterance, runs the
// catalog lookup and flags when too few criteria were captured to search
// well.
func (s *Steps) PropertySearch(ctx context.Context, state *model.ConversationState, cfg *model.AgentConfig) error {
	criteria := extract.SearchCriteria(state.UserInput)

	properties, err := s.Catalog.Search(ctx, criteria)
	if err != nil {
		return err
	}

	state.UserContext["search_criteria"] = criteria
	state.UserContext["found_properties"] = properties
	state.UserContext["needs_more_criteria"] = len(criteria) < minSearchCriteria

	state.ToolsUsed = append(state.ToolsUsed, "property_search")
	return nil
}

// LeadQualification extracts budget and contact fields, merges them
// additively into the lead record and reports which required fields are
// still missing.
func (s *Steps) LeadQualification(ctx context.Context, state *model.ConversationState, cfg *model.AgentConfig) error {
	state.MergeLeadInfo(extract.QualificationInfo(state.UserInput))

	state.UserContext["qualification_complete"] = len(state.LeadInfo) >= len(requiredQualificationFields)
	state.UserContext["missing_info"] = missingQualificationFields(state.LeadInfo)

	state.ToolsUsed = append(state.ToolsUsed, "lead_qualification")
	return nil
}

// ScheduleViewing extracts the preferred day, fetches bookable slots and
// flags when the lead record has no way to confirm the appointment.
func (s *Steps) ScheduleViewing(ctx context.Context, state *model.ConversationState, cfg *model.AgentConfig) error {
	slots, err := s.Scheduler.AvailableSlots(ctx)
	if err != nil {
		return err
	}

	state.UserContext["scheduling_request"] = extract.PreferredDay(state.UserInput)
	state.UserContext["available_slots"] = slots
	state.UserContext["needs_contact_info"] = !hasLeadField(state.LeadInfo, "phone") && !hasLeadField(state.LeadInfo, "email")

	state.ToolsUsed = append(state.ToolsUsed, "schedule_viewing")
	return nil
}

// GeneralInfo buckets the info request by keywords and attaches the canned
// payload for that category.
func (s *Steps) GeneralInfo(ctx context.Context, state *model.ConversationState, cfg *model.AgentConfig) error {
	infoType := tools.ClassifyInfoRequest(state.UserInput)

	state.UserContext["info_type"] = infoType
	state.UserContext["relevant_info"] = tools.MarketInfo(infoType)

	state.ToolsUsed = append(state.ToolsUsed, "general_info")
	return nil
}

// Escalate classifies the escalation reason, maps it to a priority and
// always marks the turn as needing a human.
func (s *Steps) Escalate(ctx context.Context, state *model.ConversationState, cfg *model.AgentConfig) error {
	reason := tools.AnalyzeEscalation(state.UserInput)

	state.UserContext["escalation_reason"] = reason
	state.UserContext["human_agent_needed"] = true
	state.UserContext["priority_level"] = tools.EscalationPriority(reason)

	state.ToolsUsed = append(state.ToolsUsed, "escalate_human")
	return nil
}

func missingQualificationFields(leadInfo map[string]any) []string {
	missing := []string{}
	for _, field := range requiredQualificationFields {
		if !hasLeadField(leadInfo, field) {
			missing = append(missing, field)
		}
	}
	return missing
}

func hasLeadField(leadInfo map[string]any, field string) bool {
	v, ok := leadInfo[field]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return false
	}
	return true
}
