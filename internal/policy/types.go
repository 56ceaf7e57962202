package policy

import "encoding/json"

// Document is the versioned policy configuration. It is loaded once per
// evaluation and never mutated by the engine.
type Document struct {
	PolicyVersion       string           `json:"policy_version"`
	Phase               PhaseConfig      `json:"phase"`
	GeoReadiness        GeoRules         `json:"geo_readiness"`
	PhaseBTransition    TransitionRules  `json:"phase_b_transition"`
	DecisionEnforcement EnforcementRules `json:"decision_enforcement"`
	Dashboard           DashboardConfig  `json:"dashboard"`
}

type PhaseConfig struct {
	Current string `json:"current"`
}

type GeoRules struct {
	Escalation    EscalationRules `json:"escalation"`
	IncidentRules IncidentRules   `json:"incident_rules"`
}

type EscalationRules struct {
	Yellow EscalationLevel `json:"yellow"`
	Red    EscalationLevel `json:"red"`
}

type EscalationLevel struct {
	MinWeeklyWarningCount  int `json:"min_weekly_warning_count"`
	SustainedIncreaseWeeks int `json:"sustained_increase_weeks"`
}

type IncidentRules struct {
	CreateIncidentOnLevel    []string `json:"create_incident_on_level"`
	AutoHoldOnLevel          []string `json:"auto_hold_on_level"`
	AutoHoldWhenIncidentOpen bool     `json:"auto_hold_when_incident_open"`
}

type TransitionRules struct {
	FromPhase              string          `json:"from_phase"`
	ToPhase                string          `json:"to_phase"`
	MinimumPublishedVideos int             `json:"minimum_published_videos"`
	MaximumPublishedVideos int             `json:"maximum_published_videos"`
	StabilityWindowWeeks   int             `json:"stability_window_weeks"`
	CTR                    SeriesRules     `json:"ctr"`
	AVD                    SeriesRules     `json:"avd"`
	SourceEvidence         SourceEvidence  `json:"source_evidence"`
	Exceptions             ExceptionRules  `json:"exceptions"`
	Rollback               json.RawMessage `json:"rollback"`
}

type SeriesRules struct {
	MinDataPoints    int     `json:"min_data_points"`
	MaxRelativeRange float64 `json:"max_relative_range"`
}

type SourceEvidence struct {
	RequireContractReady          bool    `json:"require_contract_ready"`
	MinimumLinkagePassRate        float64 `json:"minimum_linkage_pass_rate"`
	MinimumResearchSourceCoverage float64 `json:"minimum_research_source_coverage"`
}

type ExceptionRules struct {
	ManualOverrideAllowed bool `json:"manual_override_allowed"`
}

type EnforcementRules struct {
	Override                      OverrideRules     `json:"override"`
	ReasonCodeActions             map[string]string `json:"reason_code_actions"`
	RequireActionOrSignedOverride bool              `json:"require_action_or_signed_override"`
}

type OverrideRules struct {
	Allowed        bool     `json:"allowed"`
	RequiredFields []string `json:"required_fields"`
	MaxTTLHours    float64  `json:"max_ttl_hours"`
}

type DashboardConfig struct {
	MustAnswer string `json:"must_answer"`
}
