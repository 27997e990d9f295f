package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamimsangrar/pubx-real-estate/internal/agent/model"
	"github.com/tamimsangrar/pubx-real-estate/internal/agent/tools"
)

func newTestSteps() *Steps {
	scheduler := tools.NewClockScheduler()
	scheduler.Now = func() time.Time {
		return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	}
	return New(tools.NewStaticCatalog(), scheduler)
}

func newTestState(input string) *model.ConversationState {
	state := model.NewConversationState()
	state.ConversationID = "conv-1"
	state.UserInput = input
	return state
}

func TestGreeting(t *testing.T) {
	steps := newTestSteps()
	cfg := model.DefaultAgentConfig()

	state := newTestState("Hi there!")
	require.NoError(t, steps.Greeting(context.Background(), state, cfg))

	assert.Equal(t, true, state.UserContext["is_first_interaction"])
	assert.Equal(t, cfg.Personality, state.UserContext["personality"])
	assert.Equal(t, cfg.Services, state.UserContext["available_services"])
	// greeting is pure context, it registers no tool usage
	assert.Empty(t, state.ToolsUsed)
}

func TestGreetingReturningUser(t *testing.T) {
	steps := newTestSteps()
	state := newTestState("hello again")
	state.Messages = append(state.Messages, nil, nil)

	require.NoError(t, steps.Greeting(context.Background(), state, model.DefaultAgentConfig()))
	assert.Equal(t, false, state.UserContext["is_first_interaction"])
}

func TestPropertySearch(t *testing.T) {
	steps := newTestSteps()
	state := newTestState("I'm looking for a 3 bedroom house under $400k in Midtown")

	require.NoError(t, steps.PropertySearch(context.Background(), state, model.DefaultAgentConfig()))

	assert.Equal(t, map[string]any{
		"price_max": 400000,
		"bedrooms":  3,
		"location":  "Midtown",
	}, state.UserContext["search_criteria"])
	assert.Equal(t, false, state.UserContext["needs_more_criteria"])
	assert.Len(t, state.UserContext["found_properties"], len(tools.MockListings))
	assert.Equal(t, []string{"property_search"}, state.ToolsUsed)
}

func TestPropertySearchSparseCriteria(t *testing.T) {
	steps := newTestSteps()
	state := newTestState("show me some houses")

	require.NoError(t, steps.PropertySearch(context.Background(), state, model.DefaultAgentConfig()))
	assert.Equal(t, true, state.UserContext["needs_more_criteria"])
}

func TestLeadQualification(t *testing.T) {
	steps := newTestSteps()
	state := newTestState("My budget is $300k, email me at jamie@example.com")

	require.NoError(t, steps.LeadQualification(context.Background(), state, model.DefaultAgentConfig()))

	assert.Equal(t, 300000, state.LeadInfo["budget"])
	assert.Equal(t, "jamie@example.com", state.LeadInfo["email"])
	assert.Equal(t, false, state.UserContext["qualification_complete"])
	assert.Equal(t, []string{"timeline", "name"}, state.UserContext["missing_info"])
	assert.Equal(t, []string{"lead_qualification"}, state.ToolsUsed)
}

func TestLeadQualificationKeepsEarlierFields(t *testing.T) {
	steps := newTestSteps()
	state := newTestState("just checking in")
	state.LeadInfo["email"] = "kept@example.com"
	state.LeadInfo["budget"] = 250000

	require.NoError(t, steps.LeadQualification(context.Background(), state, model.DefaultAgentConfig()))

	// a turn that extracts nothing must not erase earlier fields
	assert.Equal(t, "kept@example.com", state.LeadInfo["email"])
	assert.Equal(t, 250000, state.LeadInfo["budget"])
}

func TestScheduleViewing(t *testing.T) {
	steps := newTestSteps()
	state := newTestState("Can we do Saturday or Tuesday?")

	require.NoError(t, steps.ScheduleViewing(context.Background(), state, model.DefaultAgentConfig()))

	assert.Equal(t, map[string]any{"preferred_day": "tuesday"}, state.UserContext["scheduling_request"])

	slots, ok := state.UserContext["available_slots"].([]model.ViewingSlot)
	require.True(t, ok)
	require.Len(t, slots, 5)
	assert.Equal(t, "2024-03-16", slots[0].Date)
	assert.Equal(t, "10:00 AM", slots[0].Time)

	// no phone and no email on file
	assert.Equal(t, true, state.UserContext["needs_contact_info"])
	assert.Equal(t, []string{"schedule_viewing"}, state.ToolsUsed)
}

func TestScheduleViewingWithContactOnFile(t *testing.T) {
	steps := newTestSteps()
	state := newTestState("any day works")
	state.LeadInfo["phone"] = "555-123-4567"

	require.NoError(t, steps.ScheduleViewing(context.Background(), state, model.DefaultAgentConfig()))

	// either contact channel on file is enough to confirm an appointment
	assert.Equal(t, false, state.UserContext["needs_contact_info"])
}

func TestGeneralInfo(t *testing.T) {
	steps := newTestSteps()
	state := newTestState("How are prices trending around here?")

	require.NoError(t, steps.GeneralInfo(context.Background(), state, model.DefaultAgentConfig()))

	assert.Equal(t, tools.InfoMarket, state.UserContext["info_type"])
	info, ok := state.UserContext["relevant_info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "$425,000", info["average_price"])
	assert.Equal(t, []string{"general_info"}, state.ToolsUsed)
}

func TestEscalate(t *testing.T) {
	steps := newTestSteps()
	state := newTestState("I have a complaint about my agent")

	require.NoError(t, steps.Escalate(context.Background(), state, model.DefaultAgentConfig()))

	assert.Equal(t, tools.ReasonComplaint, state.UserContext["escalation_reason"])
	assert.Equal(t, true, state.UserContext["human_agent_needed"])
	assert.Equal(t, "high", state.UserContext["priority_level"])
	assert.Equal(t, []string{"escalate_human"}, state.ToolsUsed)
}

func TestEscalateGeneralInquiry(t *testing.T) {
	steps := newTestSteps()
	state := newTestState("I'd rather talk to a person")

	require.NoError(t, steps.Escalate(context.Background(), state, model.DefaultAgentConfig()))

	assert.Equal(t, tools.ReasonGeneralInquiry, state.UserContext["escalation_reason"])
	assert.Equal(t, "low", state.UserContext["priority_level"])
}

func TestForIntentIsTotal(t *testing.T) {
	steps := newTestSteps()
	for _, intent := range model.AllIntents() {
		assert.NotNil(t, steps.ForIntent(intent), intent.String())
	}
	assert.NotNil(t, steps.ForIntent(model.Intent("bogus")))
}
