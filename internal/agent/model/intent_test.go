package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Intent
	}{
		{name: "exact label", raw: "property_search", want: IntentPropertySearch},
		{name: "surrounding whitespace", raw: "  schedule_viewing\n", want: IntentScheduleViewing},
		{name: "mixed case", raw: "Lead_Qualification", want: IntentLeadQualification},
		{name: "greeting", raw: "greeting", want: IntentGreeting},
		{name: "escalate", raw: "escalate", want: IntentEscalate},
		{name: "unknown label falls back", raw: "small_talk", want: IntentGeneralInfo},
		{name: "empty reply falls back", raw: "", want: IntentGeneralInfo},
		{name: "verbose reply falls back", raw: "the intent is property_search", want: IntentGeneralInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIntent(tt.raw))
		})
	}
}

func TestMergeLeadInfo(t *testing.T) {
	state := NewConversationState()
	state.MergeLeadInfo(map[string]any{"budget": 300000, "email": "a@example.com"})

	// nil and empty values never clobber fields from earlier turns
	state.MergeLeadInfo(map[string]any{"email": "", "phone": nil, "name": "Jamie"})

	assert.Equal(t, map[string]any{
		"budget": 300000,
		"email":  "a@example.com",
		"name":   "Jamie",
	}, state.LeadInfo)
}
