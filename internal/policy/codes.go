package policy

// Reason codes form a closed vocabulary: each code names exactly one policy
// condition and must have a mapped mandatory action in the policy document.
const (
	CodeGeoWarnYellow          = "GEO_WARN_YELLOW_THRESHOLD"
	CodeGeoWarnRed             = "GEO_WARN_RED_THRESHOLD"
	CodeOpenIncidentHold       = "OPEN_INCIDENT_HOLD"
	CodeVideoCountBelowMin     = "VIDEO_COUNT_BELOW_MINIMUM"
	CodeVideoCountAboveWindow  = "VIDEO_COUNT_ABOVE_PHASE_B_WINDOW"
	CodeCTRDataInsufficient    = "CTR_DATA_INSUFFICIENT"
	CodeCTRStabilityFail       = "CTR_STABILITY_FAIL"
	CodeAVDDataInsufficient    = "AVD_DATA_INSUFFICIENT"
	CodeAVDStabilityFail       = "AVD_STABILITY_FAIL"
	CodeSourceContractNotReady = "SOURCE_CONTRACT_NOT_READY"
	CodeLinkagePassRateFail    = "SOURCE_LINKAGE_PASS_RATE_FAIL"
	CodeResearchCoverageFail   = "RESEARCH_SOURCE_COVERAGE_FAIL"
	CodeHoldPendingInfo        = "decision_hold_pending_info"
	CodeOverrideRejected       = "OVERRIDE_REJECTED"
)

// Override verdict reasons. These describe the override record itself and
// are not mapped to mandatory actions.
const (
	OverrideReasonNone             = "NO_OVERRIDE"
	OverrideReasonMissingFields    = "MISSING_OVERRIDE_FIELDS"
	OverrideReasonBadTimestamp     = "INVALID_OVERRIDE_TIMESTAMP"
	OverrideReasonBadTTLOrder      = "INVALID_OVERRIDE_TTL_ORDER"
	OverrideReasonTTLExceedsPolicy = "OVERRIDE_TTL_EXCEEDS_POLICY"
	OverrideReasonExpired          = "OVERRIDE_EXPIRED"
	OverrideReasonDisabled         = "OVERRIDE_DISABLED_BY_POLICY"
	OverrideReasonAccepted         = "OVERRIDE_ACCEPTED_FOR_REVIEW"
)

// AllReasonCodes lists the engine's full vocabulary. The loader checks the
// policy's action table against this list so an unmapped code is a startup
// error instead of a runtime surprise.
var AllReasonCodes = []string{
	CodeGeoWarnYellow,
	CodeGeoWarnRed,
	CodeOpenIncidentHold,
	CodeVideoCountBelowMin,
	CodeVideoCountAboveWindow,
	CodeCTRDataInsufficient,
	CodeCTRStabilityFail,
	CodeAVDDataInsufficient,
	CodeAVDStabilityFail,
	CodeSourceContractNotReady,
	CodeLinkagePassRateFail,
	CodeResearchCoverageFail,
	CodeHoldPendingInfo,
	CodeOverrideRejected,
}
