package policy

import (
	"fmt"
	"strings"
	"time"

	"github.com/studioops/phasegate/internal/crypto"
	"github.com/studioops/phasegate/pkg/types"
)

// Engine is a pure evaluation over an immutable policy document. It holds
// no mutable state and is safe to share across goroutines.
type Engine struct {
	Doc        Document
	PolicyHash string
}

func NewEngine(loaded LoadedDocument) Engine {
	return Engine{Doc: loaded.Document, PolicyHash: loaded.Hash}
}

// Evaluate runs the full promotion-gating policy over one input snapshot.
// evaluatedAt is the single wall-clock read for the evaluation; callers
// that need reproducible audit trails pin it. Identical inputs at the same
// instant produce byte-identical decision hashes.
func (e Engine) Evaluate(in types.PhaseEvaluationInput, outcomes []types.OutcomeLabel, evaluatedAt time.Time) (types.Decision, error) {
	doc := e.Doc
	geo := EvaluateGeoReadiness(doc, in)
	transition := EvaluateTransition(doc, in)

	reasonCodes := sortedUnique(append(append([]string{}, geo.ReasonCodes...), transition.ReasonCodes...))

	finalHold := geo.PhaseHold || !transition.Promotable
	canPromote := transition.Promotable && !geo.PhaseHold

	overrideStatus := ValidateOverride(doc, in.OverrideRecord, evaluatedAt)

	if overrideStatus.Valid && doc.PhaseBTransition.Exceptions.ManualOverrideAllowed {
		overrideStatus.Applied = true
		canPromote = true
		finalHold = false
	} else if overrideStatus.Present && !overrideStatus.Valid {
		// An invalid override only ever makes the outcome more conservative.
		reasonCodes = sortedUnique(append(reasonCodes, CodeOverrideRejected, CodeHoldPendingInfo))
		canPromote = false
		finalHold = true
	}

	actions, err := MapActions(doc, reasonCodes)
	if err != nil {
		return types.Decision{}, err
	}

	if doc.DecisionEnforcement.RequireActionOrSignedOverride {
		if len(actions) == 0 && !(overrideStatus.Present && overrideStatus.Valid) {
			return types.Decision{}, fmt.Errorf("%w: decision generated no mandatory actions and no valid signed override", ErrPolicyConfig)
		}
	}

	machine := types.MachineExplanation{
		PolicyVersion:    doc.PolicyVersion,
		ReasonCodes:      reasonCodes,
		MandatoryActions: actions,
		CanPromote:       canPromote,
		PhaseHold:        finalHold,
		OverrideStatus:   overrideStatus,
	}

	snapshot := in
	snapshot.OverrideRecord = nil

	provenance := types.Provenance{
		PolicyVersion: doc.PolicyVersion,
		EvaluatedAt:   evaluatedAt.UTC().Format(time.RFC3339),
		InputSnapshot: snapshot,
	}

	hash, err := decisionHash(provenance, machine)
	if err != nil {
		return types.Decision{}, err
	}
	provenance.DecisionHash = hash

	return types.Decision{
		PolicyVersion:           doc.PolicyVersion,
		CurrentPhase:            doc.Phase.Current,
		PromotionTarget:         transition.ToPhase,
		PhaseHold:               finalHold,
		IncidentRequired:        geo.IncidentRequired,
		DecisionWithoutAction:   boolToInt(len(actions) == 0),
		PromotionDuringHold:     boolToInt(canPromote && finalHold),
		OverrideAuditViolations: boolToInt(overrideStatus.Present && !overrideStatus.Valid),
		GeoReadiness:            geo,
		Promotion:               transition,
		MandatoryActions:        actions,
		Provenance:              provenance,
		Explain: types.Explanation{
			CanPromote:  canPromote,
			ReasonCodes: reasonCodes,
			Question:    doc.Dashboard.MustAnswer,
			Machine:     machine,
			Human:       humanSummary(canPromote, reasonCodes, actions),
		},
		Calibration: falseDecisionMetrics(outcomes),
	}, nil
}

// decisionHash fingerprints the canonicalized union of the provenance block
// and the machine explanation. It changes whenever any reason code, action,
// or override-applied flag changes.
func decisionHash(prov types.Provenance, machine types.MachineExplanation) (string, error) {
	payload := map[string]any{
		"policy_version": prov.PolicyVersion,
		"evaluated_at":   prov.EvaluatedAt,
		"input_snapshot": map[string]any{
			"published_videos":                   prov.InputSnapshot.PublishedVideos,
			"ctr_weekly":                         prov.InputSnapshot.CTRWeekly,
			"avd_weekly":                         prov.InputSnapshot.AVDWeekly,
			"geo_readiness_warning_count_weekly": prov.InputSnapshot.GeoWarningCountWeekly,
			"source_contract_ready":              prov.InputSnapshot.SourceContractReady,
			"source_linkage_pass_rate":           prov.InputSnapshot.SourceLinkagePassRate,
			"research_source_coverage":           prov.InputSnapshot.ResearchSourceCoverage,
			"incident_open":                      prov.InputSnapshot.IncidentOpen,
		},
		"reason_codes":      machine.ReasonCodes,
		"mandatory_actions": machine.MandatoryActions,
		"can_promote":       machine.CanPromote,
		"phase_hold":        machine.PhaseHold,
		"override_status": map[string]any{
			"present": machine.OverrideStatus.Present,
			"valid":   machine.OverrideStatus.Valid,
			"applied": machine.OverrideStatus.Applied,
			"reason":  machine.OverrideStatus.Reason,
		},
	}

	return crypto.DigestCanonical(payload)
}

func humanSummary(canPromote bool, reasonCodes []string, actions []string) string {
	if canPromote {
		return "Promotion is allowed: all policy checks passed and no hold conditions were triggered."
	}
	reasons := "UNKNOWN_REASON"
	if len(reasonCodes) > 0 {
		reasons = strings.Join(reasonCodes, ", ")
	}
	required := "NO_ACTION_REGISTERED"
	if len(actions) > 0 {
		required = strings.Join(actions, ", ")
	}
	return fmt.Sprintf(
		"Promotion is blocked or held because policy reason codes were triggered: %s. Required actions: %s.",
		reasons, required,
	)
}

// falseDecisionMetrics folds labeled outcomes into display-only rates.
func falseDecisionMetrics(outcomes []types.OutcomeLabel) types.CalibrationMetrics {
	total := len(outcomes)
	if total == 0 {
		total = 1
	}
	falseHold := 0
	falsePromote := 0
	for _, item := range outcomes {
		switch item.Label {
		case "false_hold":
			falseHold++
		case "false_promote":
			falsePromote++
		}
	}
	return types.CalibrationMetrics{
		FalseHoldRate:    float64(falseHold) / float64(total),
		FalsePromoteRate: float64(falsePromote) / float64(total),
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
