package types

import "encoding/json"

// ActionPromotionAllowed is the sentinel mandatory action emitted when no
// reason code blocked promotion. mandatory_actions is never empty.
const ActionPromotionAllowed = "PROMOTION_ALLOWED"

// GeoReadiness is the traffic-light readiness sub-result.
type GeoReadiness struct {
	Level                   string   `json:"level"`
	LatestWarningCount      int      `json:"latest_warning_count"`
	SustainedIncreaseStreak int      `json:"sustained_increase_streak"`
	IncidentRequired        bool     `json:"incident_required"`
	PhaseHold               bool     `json:"phase_hold"`
	ReasonCodes             []string `json:"reason_codes"`
}

// PhaseTransition is the structural-eligibility sub-result. Exceptions and
// Rollback carry the policy's declared metadata verbatim for human review.
type PhaseTransition struct {
	FromPhase   string          `json:"from_phase"`
	ToPhase     string          `json:"to_phase"`
	Promotable  bool            `json:"promotable"`
	ReasonCodes []string        `json:"reason_codes"`
	Exceptions  json.RawMessage `json:"exceptions"`
	Rollback    json.RawMessage `json:"rollback"`
}

// OverrideStatus reports the override verdict. Valid and Applied are kept
// independent: a valid override is only applied when the policy's
// manual_override_allowed exception permits it.
type OverrideStatus struct {
	Present bool   `json:"present"`
	Valid   bool   `json:"valid"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason"`
}

// Provenance pins the decision to its exact inputs. DecisionHash is the join
// key downstream audit evidence links back to.
type Provenance struct {
	PolicyVersion string               `json:"policy_version"`
	EvaluatedAt   string               `json:"evaluated_at"`
	InputSnapshot PhaseEvaluationInput `json:"input_snapshot"`
	DecisionHash  string               `json:"decision_hash"`
}

// MachineExplanation is the machine-readable explanation payload; it is part
// of the hashed material, so any change to it changes the decision hash.
type MachineExplanation struct {
	PolicyVersion    string         `json:"policy_version"`
	ReasonCodes      []string       `json:"reason_codes"`
	MandatoryActions []string       `json:"mandatory_actions"`
	CanPromote       bool           `json:"can_promote"`
	PhaseHold        bool           `json:"phase_hold"`
	OverrideStatus   OverrideStatus `json:"override_status"`
}

type Explanation struct {
	CanPromote  bool               `json:"can_promote"`
	ReasonCodes []string           `json:"reason_codes"`
	Question    string             `json:"question"`
	Machine     MachineExplanation `json:"machine"`
	Human       string             `json:"human"`
}

// CalibrationMetrics are false-decision rates folded into the decision for
// display only; they never affect the promotion verdict.
type CalibrationMetrics struct {
	FalseHoldRate    float64 `json:"false_hold_rate"`
	FalsePromoteRate float64 `json:"false_promote_rate"`
}

// Decision is the engine's output, immutable once produced.
type Decision struct {
	PolicyVersion           string             `json:"policy_version"`
	CurrentPhase            string             `json:"current_phase"`
	PromotionTarget         string             `json:"promotion_target"`
	PhaseHold               bool               `json:"phase_hold"`
	IncidentRequired        bool               `json:"incident_required"`
	DecisionWithoutAction   int                `json:"decision_without_action"`
	PromotionDuringHold     int                `json:"promotion_during_hold"`
	OverrideAuditViolations int                `json:"override_audit_violations"`
	GeoReadiness            GeoReadiness       `json:"geo_readiness"`
	Promotion               PhaseTransition    `json:"promotion"`
	MandatoryActions        []string           `json:"mandatory_actions"`
	Provenance              Provenance         `json:"provenance"`
	Explain                 Explanation        `json:"explain"`
	Calibration             CalibrationMetrics `json:"calibration"`
}
