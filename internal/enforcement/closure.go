// Package enforcement verifies, after the fact, that a promotion decision
// was actually acted upon and that the labels used to tune the policy are
// still fresh.
package enforcement

import (
	"sort"

	"github.com/studioops/phasegate/pkg/types"
)

// PromotionExecutedOp is the observed operation name that counts as a
// promotion on the production side.
const PromotionExecutedOp = "PROMOTION_EXECUTED"

// EvaluateClosure compares a decision against externally observed execution
// evidence and reports whether the decision's mandatory actions were closed
// out. Closure succeeds when nothing is missing or a valid, applied
// override excused the actions.
func EvaluateClosure(
	decision types.Decision,
	executedActions []string,
	artifacts []types.ActionArtifact,
	observed []types.ObservedOperation,
) types.EnforcementReport {
	executed := make(map[string]struct{}, len(executedActions))
	for _, a := range executedActions {
		executed[a] = struct{}{}
	}

	var required []string
	for _, action := range decision.MandatoryActions {
		if action != types.ActionPromotionAllowed {
			required = append(required, action)
		}
	}

	missing := make([]string, 0)
	seen := map[string]struct{}{}
	for _, action := range required {
		if _, done := executed[action]; done {
			continue
		}
		if _, dup := seen[action]; dup {
			continue
		}
		seen[action] = struct{}{}
		missing = append(missing, action)
	}
	sort.Strings(missing)

	override := decision.Explain.Machine.OverrideStatus
	closureOK := len(missing) == 0 || (override.Applied && override.Valid)

	decisionHash := decision.Provenance.DecisionHash

	linked := 0
	for _, artifact := range artifacts {
		if artifact.DecisionHash == decisionHash && decisionHash != "" {
			linked++
		}
	}
	linkageCoverage := 0.0
	switch {
	case len(artifacts) > 0:
		linkageCoverage = float64(linked) / float64(len(artifacts))
	case decisionHash != "":
		linkageCoverage = 1.0
	}

	outOfBand := 0
	promotionDuringHold := 0
	for _, op := range observed {
		if op.DecisionHash != decisionHash && op.OverrideRef == "" {
			outOfBand++
		}
		if op.Operation == PromotionExecutedOp && decision.PhaseHold {
			promotionDuringHold++
		}
	}

	decisionWithoutAction := 0
	if len(required) > 0 && !closureOK {
		decisionWithoutAction = 1
	}

	closureRate := 0.0
	if closureOK {
		closureRate = 1.0
	}
	overrideViolationRate := 0.0
	if override.Present && !override.Valid {
		overrideViolationRate = 1.0
	}

	return types.EnforcementReport{
		DecisionActionClosureRate:  closureRate,
		DecisionWithoutActionRate:  float64(decisionWithoutAction),
		PromotionDuringHoldCount:   promotionDuringHold,
		OverrideAuditViolationRate: overrideViolationRate,
		OutOfBandActionCount:       outOfBand,
		ProvenanceLinkageCoverage:  linkageCoverage,
		MissingRequiredActions:     missing,
		ClosureOK:                  closureOK,
	}
}
