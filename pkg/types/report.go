package types

// EnforcementReport is the after-the-fact closure verdict for one decision.
type EnforcementReport struct {
	DecisionActionClosureRate  float64  `json:"decision_action_closure_rate"`
	DecisionWithoutActionRate  float64  `json:"decision_without_action_rate"`
	PromotionDuringHoldCount   int      `json:"promotion_during_hold_count"`
	OverrideAuditViolationRate float64  `json:"override_audit_violation_rate"`
	OutOfBandActionCount       int      `json:"out_of_band_action_count"`
	ProvenanceLinkageCoverage  float64  `json:"provenance_linkage_coverage"`
	MissingRequiredActions     []string `json:"missing_required_actions"`
	ClosureOK                  bool     `json:"closure_ok"`
}

// CalibrationGovernanceReport describes freshness of the labeled outcomes
// used to tune the policy.
type CalibrationGovernanceReport struct {
	TotalLabels                int     `json:"total_labels"`
	FreshLabelCount            int     `json:"fresh_label_count"`
	StaleLabelCount            int     `json:"stale_label_count"`
	MissingLabelTimestampCount int     `json:"missing_label_timestamp_count"`
	StaleLabelRate             float64 `json:"stale_label_rate"`
	OldestLabelAgeDays         float64 `json:"oldest_label_age_days"`
	GovernanceOK               bool    `json:"governance_ok"`
}

// CalibrationReport holds the full labeled-outcome rate breakdown.
type CalibrationReport struct {
	Total              int     `json:"total"`
	FalseHoldRate      float64 `json:"false_hold_rate"`
	FalsePromoteRate   float64 `json:"false_promote_rate"`
	CorrectHoldRate    float64 `json:"correct_hold_rate"`
	CorrectPromoteRate float64 `json:"correct_promote_rate"`
}

// CombinedResponse is the evaluation response: the decision with the audit
// reports nested under it.
type CombinedResponse struct {
	Decision

	OperationalEnforcement *EnforcementReport           `json:"operational_enforcement,omitempty"`
	CalibrationGovernance  *CalibrationGovernanceReport `json:"calibration_governance,omitempty"`
	AuditGrade             string                       `json:"audit_grade,omitempty"`
	ReceiptID              string                       `json:"receipt_id,omitempty"`
	PolicyHash             string                       `json:"policy_hash,omitempty"`
}
