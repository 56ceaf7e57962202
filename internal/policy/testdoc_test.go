package policy

import "encoding/json"

// testDocument mirrors config/phase_policy.json.
func testDocument() Document {
	return Document{
		PolicyVersion: "2026-08-01",
		Phase:         PhaseConfig{Current: "A"},
		GeoReadiness: GeoRules{
			Escalation: EscalationRules{
				Yellow: EscalationLevel{MinWeeklyWarningCount: 3, SustainedIncreaseWeeks: 2},
				Red:    EscalationLevel{MinWeeklyWarningCount: 5, SustainedIncreaseWeeks: 3},
			},
			IncidentRules: IncidentRules{
				CreateIncidentOnLevel:    []string{"red"},
				AutoHoldOnLevel:          []string{"red"},
				AutoHoldWhenIncidentOpen: true,
			},
		},
		PhaseBTransition: TransitionRules{
			FromPhase:              "A",
			ToPhase:                "B",
			MinimumPublishedVideos: 4,
			MaximumPublishedVideos: 24,
			StabilityWindowWeeks:   4,
			CTR:                    SeriesRules{MinDataPoints: 4, MaxRelativeRange: 0.2},
			AVD:                    SeriesRules{MinDataPoints: 4, MaxRelativeRange: 0.15},
			SourceEvidence: SourceEvidence{
				RequireContractReady:          true,
				MinimumLinkagePassRate:        0.95,
				MinimumResearchSourceCoverage: 0.9,
			},
			Exceptions: ExceptionRules{ManualOverrideAllowed: true},
			Rollback:   json.RawMessage(`{"action":"revert to phase A cadence"}`),
		},
		DecisionEnforcement: EnforcementRules{
			Override: OverrideRules{
				Allowed: true,
				RequiredFields: []string{
					"actor_id", "approver_id", "justification",
					"created_at", "expires_at", "signature", "scope",
				},
				MaxTTLHours: 72,
			},
			ReasonCodeActions: map[string]string{
				CodeGeoWarnYellow:          "ESCALATE_MONITORING",
				CodeGeoWarnRed:             "AUTO_HOLD_AND_OPEN_INCIDENT",
				CodeOpenIncidentHold:       "BLOCK_PROMOTION_UNTIL_RESOLVED",
				CodeVideoCountBelowMin:     "BLOCK_PROMOTION_UNTIL_RESOLVED",
				CodeVideoCountAboveWindow:  "BLOCK_PROMOTION_UNTIL_RESOLVED",
				CodeCTRDataInsufficient:    "HOLD_PENDING_INFO_COLLECTION",
				CodeCTRStabilityFail:       "BLOCK_PROMOTION_UNTIL_RESOLVED",
				CodeAVDDataInsufficient:    "HOLD_PENDING_INFO_COLLECTION",
				CodeAVDStabilityFail:       "BLOCK_PROMOTION_UNTIL_RESOLVED",
				CodeSourceContractNotReady: "BLOCK_PROMOTION_UNTIL_RESOLVED",
				CodeLinkagePassRateFail:    "BLOCK_PROMOTION_UNTIL_RESOLVED",
				CodeResearchCoverageFail:   "BLOCK_PROMOTION_UNTIL_RESOLVED",
				CodeHoldPendingInfo:        "HOLD_PENDING_INFO_COLLECTION",
				CodeOverrideRejected:       "ESCALATE_TO_GOVERNANCE_REVIEW",
			},
			RequireActionOrSignedOverride: true,
		},
		Dashboard: DashboardConfig{MustAnswer: "Can the pipeline promote from phase A to phase B this week?"},
	}
}
