package model

import "strings"

// Intent is one of six fixed conversation-purpose tags driving routing.
// The set is closed: routing dispatches off an exhaustive table keyed by
// these values, so ParseIntent must never return anything else.
type Intent string

const (
	IntentGreeting          Intent = "greeting"
	IntentPropertySearch    Intent = "property_search"
	IntentLeadQualification Intent = "lead_qualification"
	IntentScheduleViewing   Intent = "schedule_viewing"
	IntentGeneralInfo       Intent = "general_info"
	IntentEscalate          Intent = "escalate"
)

// AllIntents lists the six routable intents in routing-table order.
func AllIntents() []Intent {
	return []Intent{
		IntentGreeting,
		IntentPropertySearch,
		IntentLeadQualification,
		IntentScheduleViewing,
		IntentGeneralInfo,
		IntentEscalate,
	}
}

func (i Intent) String() string {
	return string(i)
}

// ParseIntent maps a raw model reply to an Intent. The reply is trimmed and
// lower-cased; anything outside the six known labels falls back to
// general_info so the router always has a valid dispatch target.
func ParseIntent(raw string) Intent {
	candidate := Intent(strings.ToLower(strings.TrimSpace(raw)))
	for _, it := range AllIntents() {
		if candidate == it {
			return it
		}
	}
	return IntentGeneralInfo
}
