// Package audit condenses the enforcement and calibration-governance
// reports into a single letter grade for dashboards.
package audit

import (
	"sort"

	"github.com/studioops/phasegate/pkg/types"
)

type Result struct {
	Grade   string
	Reasons []string
}

// Evaluate grades one decision's operational follow-through. The grade is
// deliberately coarse; the underlying reports stay attached for anyone who
// needs the numbers.
func Evaluate(enf types.EnforcementReport, gov types.CalibrationGovernanceReport) Result {
	flags := map[string]bool{}

	if enf.PromotionDuringHoldCount > 0 {
		flags["promotion_during_hold"] = true
	}
	if enf.ProvenanceLinkageCoverage == 0 {
		flags["no_provenance_linkage"] = true
	}
	if !enf.ClosureOK {
		flags["closure_failed"] = true
	}
	if enf.OverrideAuditViolationRate > 0 {
		flags["override_audit_violation"] = true
	}
	if enf.OutOfBandActionCount > 0 {
		flags["out_of_band_actions"] = true
	}
	if !gov.GovernanceOK {
		flags["stale_calibration_labels"] = true
	}

	grade := "A"
	switch {
	case flags["promotion_during_hold"] || flags["no_provenance_linkage"]:
		grade = "F"
	case flags["closure_failed"]:
		grade = "D"
	case flags["override_audit_violation"]:
		grade = "C"
	case flags["out_of_band_actions"] || flags["stale_calibration_labels"]:
		grade = "B"
	}

	reasons := make([]string, 0, len(flags))
	for flag, set := range flags {
		if set {
			reasons = append(reasons, flag)
		}
	}
	sort.Strings(reasons)

	return Result{Grade: grade, Reasons: reasons}
}
