package model

// AgentConfig is the persona and response-shaping configuration stored in
// the settings store under the agent_config key. It is read-only from the
// graph's perspective; the admin-facing config manager owns writes.
type AgentConfig struct {
	Personality             string   `json:"personality"`
	SystemPrompt            string   `json:"system_prompt"`
	ResponseStyle           string   `json:"response_style"`
	MaxResponseLength       int      `json:"max_response_length"`
	ToolsEnabled            []string `json:"tools_enabled"`
	Services                []string `json:"services"`
	GreetingMessage         string   `json:"greeting_message"`
	EscalationTriggers      []string `json:"escalation_triggers"`
	LeadQualificationFields []string `json:"lead_qualification_fields"`
}

// PersonalityPreset is an admin-selectable persona bundle. Applying one
// overrides only the fields it carries.
type PersonalityPreset struct {
	Personality     string `json:"personality"`
	ResponseStyle   string `json:"response_style"`
	GreetingMessage string `json:"greeting_message"`
}

// DefaultAgentConfig returns the configuration used when the settings store
// has no agent_config entry yet, or cannot be reached.
func DefaultAgentConfig() *AgentConfig {
	return &AgentConfig{
		Personality: "Professional, friendly, and knowledgeable real estate assistant who helps clients find their perfect home",
		SystemPrompt: `You are a helpful real estate assistant. Your role is to:
1. Help users find properties that match their needs
2. Qualify leads by understanding their budget, timeline, and preferences
3. Schedule property viewings and appointments
4. Provide market information and neighborhood insights
5. Guide users through the home buying/selling process
6. Escalate complex issues to human agents when needed

Always be professional, empathetic, and solution-focused.`,
		ResponseStyle:     "conversational",
		MaxResponseLength: 250,
		ToolsEnabled: []string{
			"property_search",
			"lead_qualification",
			"schedule_viewing",
			"market_info",
			"escalate_human",
		},
		Services: []string{
			"Property Search",
			"Market Analysis",
			"Viewing Appointments",
			"Buyer/Seller Guidance",
			"Neighborhood Information",
		},
		GreetingMessage: "Hi! I'm your AI real estate assistant. I'm here to help you find your perfect home or answer any real estate questions you might have. How can I assist you today?",
		EscalationTriggers: []string{
			"complaint",
			"legal_question",
			"complex_negotiation",
			"technical_issue",
		},
		LeadQualificationFields: []string{
			"budget_range",
			"preferred_location",
			"property_type",
			"timeline",
			"contact_info",
		},
	}
}

// AnalyticsConfig toggles conversation analytics collection.
type AnalyticsConfig struct {
	TrackConversations  bool `json:"track_conversations"`
	TrackLeadConversion bool `json:"track_lead_conversion"`
	TrackToolUsage      bool `json:"track_tool_usage"`
	TrackEscalations    bool `json:"track_escalations"`
	AnonymizeData       bool `json:"anonymize_data"`
}

// DefaultAnalyticsConfig enables tracking and keeps data identifiable.
func DefaultAnalyticsConfig() *AnalyticsConfig {
	return &AnalyticsConfig{
		TrackConversations:  true,
		TrackLeadConversion: true,
		TrackToolUsage:      true,
		TrackEscalations:    true,
		AnonymizeData:       false,
	}
}

// PersonalityPresets returns the predefined persona bundles offered to the
// admin panel.
func PersonalityPresets() map[string]PersonalityPreset {
	return map[string]PersonalityPreset{
		"professional": {
			Personality:     "Professional, formal, and detail-oriented real estate expert",
			ResponseStyle:   "formal",
			GreetingMessage: "Good day! I am your professional real estate consultant. How may I assist you with your property needs today?",
		},
		"friendly": {
			Personality:     "Warm, friendly, and approachable real estate helper who makes home buying fun",
			ResponseStyle:   "conversational",
			GreetingMessage: "Hey there! I'm excited to help you find your dream home! What kind of place are you looking for?",
		},
		"expert": {
			Personality:     "Highly knowledgeable real estate expert with deep market insights and analytical approach",
			ResponseStyle:   "informative",
			GreetingMessage: "Hello! I'm your real estate market expert. I can provide detailed analysis and insights to help you make informed decisions. What would you like to know?",
		},
		"luxury": {
			Personality:     "Sophisticated luxury real estate specialist focused on high-end properties and white-glove service",
			ResponseStyle:   "elegant",
			GreetingMessage: "Welcome! I specialize in luxury real estate and premium properties. I'm here to provide you with exceptional service. How may I assist you today?",
		},
	}
}
