package types

// PhaseEvaluationInput is the immutable KPI snapshot one evaluation runs over.
type PhaseEvaluationInput struct {
	PublishedVideos        int             `json:"published_videos"`
	CTRWeekly              []float64       `json:"ctr_weekly"`
	AVDWeekly              []float64       `json:"avd_weekly"`
	GeoWarningCountWeekly  []int           `json:"geo_readiness_warning_count_weekly"`
	SourceContractReady    bool            `json:"source_contract_ready"`
	SourceLinkagePassRate  float64         `json:"source_linkage_pass_rate"`
	ResearchSourceCoverage float64         `json:"research_source_coverage"`
	IncidentOpen           bool            `json:"incident_open"`
	OverrideRecord         *OverrideRecord `json:"override_record,omitempty"`
}

// OverrideRecord is a time-boxed human exception. It is either accepted for
// the current evaluation or rejected; partial validity is never persisted.
type OverrideRecord struct {
	ActorID       string `json:"actor_id"`
	ApproverID    string `json:"approver_id"`
	Justification string `json:"justification"`
	CreatedAt     string `json:"created_at"`
	ExpiresAt     string `json:"expires_at"`
	Signature     string `json:"signature"`
	Scope         string `json:"scope"`
}

// Field returns the named override field as it appears on the wire, so the
// policy's required_fields list can be checked by name.
func (r OverrideRecord) Field(name string) (string, bool) {
	switch name {
	case "actor_id":
		return r.ActorID, true
	case "approver_id":
		return r.ApproverID, true
	case "justification":
		return r.Justification, true
	case "created_at":
		return r.CreatedAt, true
	case "expires_at":
		return r.ExpiresAt, true
	case "signature":
		return r.Signature, true
	case "scope":
		return r.Scope, true
	default:
		return "", false
	}
}

// OutcomeLabel is a retrospective correctness judgment on a past decision.
type OutcomeLabel struct {
	Label        string `json:"label"`
	LabeledAt    string `json:"labeled_at,omitempty"`
	DecisionHash string `json:"decision_hash,omitempty"`
}

// ActionArtifact is externally recorded evidence that a mandatory action was
// carried out, back-referencing the decision it closes.
type ActionArtifact struct {
	ArtifactID   string `json:"artifact_id"`
	ArtifactType string `json:"artifact_type"`
	DecisionHash string `json:"decision_hash"`
}

// ObservedOperation is an operation seen on the production side, with the
// decision hash it claims to act under and an optional override reference.
type ObservedOperation struct {
	Operation    string `json:"operation"`
	OperationID  string `json:"operation_id"`
	DecisionHash string `json:"decision_hash,omitempty"`
	OverrideRef  string `json:"override_ref,omitempty"`
}

// EvaluationRequest is the wire form of one combined evaluation: the KPI
// snapshot plus the optional audit evidence for enforcement and calibration.
type EvaluationRequest struct {
	PhaseEvaluationInput

	HistoricalOutcomes []OutcomeLabel      `json:"historical_outcomes,omitempty"`
	ExecutedActions    []string            `json:"executed_actions,omitempty"`
	ActionArtifacts    []ActionArtifact    `json:"action_artifacts,omitempty"`
	ObservedOperations []ObservedOperation `json:"observed_operations,omitempty"`
}
