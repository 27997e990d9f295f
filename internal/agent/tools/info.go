package tools

import "strings"

// Info request categories recognized by ClassifyInfoRequest.
const (
	InfoMarket       = "market"
	InfoNeighborhood = "neighborhood"
	InfoGeneral      = "general"
)

// Escalation reasons and priorities.
const (
	ReasonComplaint      = "complaint"
	ReasonGeneralInquiry = "general_inquiry"
)

func containsAny(text string, words ...string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// ClassifyInfoRequest buckets a general-information request by keyword
// presence: market data, neighborhood insight, or general guidance.
func ClassifyInfoRequest(text string) string {
	switch {
	case containsAny(text, "market", "prices", "trends"):
		return InfoMarket
	case containsAny(text, "neighborhood", "area", "schools"):
		return InfoNeighborhood
	default:
		return InfoGeneral
	}
}

// MarketInfo returns the canned info payload for a category.
func MarketInfo(infoType string) map[string]any {
	payloads := map[string]map[string]any{
		InfoMarket:       {"average_price": "$425,000", "trend": "+5.2% YoY"},
		InfoNeighborhood: {"school_rating": "8/10", "safety": "Above average"},
		InfoGeneral:      {"info": "General real estate information"},
	}
	if p, ok := payloads[infoType]; ok {
		return p
	}
	return map[string]any{"info": "Information available"}
}

// AnalyzeEscalation classifies why the user needs a human: complaint
// keywords map to a complaint, everything else is a general inquiry.
func AnalyzeEscalation(text string) string {
	if containsAny(text, "complaint", "problem", "issue") {
		return ReasonComplaint
	}
	return ReasonGeneralInquiry
}

// EscalationPriority maps an escalation reason to a handling priority.
// The legal entry is kept for reasons supplied by future classifiers.
func EscalationPriority(reason string) string {
	priorities := map[string]string{
		ReasonComplaint: "high",
		"legal":         "urgent",
	}
	if p, ok := priorities[reason]; ok {
		return p
	}
	return "low"
}
