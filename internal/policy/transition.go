package policy

import (
	"encoding/json"
	"sort"

	"github.com/studioops/phasegate/pkg/types"
)

// EvaluateTransition applies the structural eligibility rules for the
// phase-B promotion window. Checks are independent and cumulative: every
// applicable reason code is reported, not just the first failure.
func EvaluateTransition(doc Document, in types.PhaseEvaluationInput) types.PhaseTransition {
	rules := doc.PhaseBTransition
	promotable := true
	var codes []string

	fail := func(code ...string) {
		promotable = false
		codes = append(codes, code...)
	}

	if in.PublishedVideos < rules.MinimumPublishedVideos {
		fail(CodeVideoCountBelowMin)
	}
	if in.PublishedVideos > rules.MaximumPublishedVideos {
		fail(CodeVideoCountAboveWindow)
	}

	if len(in.CTRWeekly) < rules.CTR.MinDataPoints {
		fail(CodeCTRDataInsufficient, CodeHoldPendingInfo)
	} else if RelativeRange(tailWindow(in.CTRWeekly, rules.StabilityWindowWeeks)) > rules.CTR.MaxRelativeRange {
		fail(CodeCTRStabilityFail)
	}

	if len(in.AVDWeekly) < rules.AVD.MinDataPoints {
		fail(CodeAVDDataInsufficient, CodeHoldPendingInfo)
	} else if RelativeRange(tailWindow(in.AVDWeekly, rules.StabilityWindowWeeks)) > rules.AVD.MaxRelativeRange {
		fail(CodeAVDStabilityFail)
	}

	src := rules.SourceEvidence
	if src.RequireContractReady && !in.SourceContractReady {
		fail(CodeSourceContractNotReady)
	}
	if in.SourceLinkagePassRate < src.MinimumLinkagePassRate {
		fail(CodeLinkagePassRateFail)
	}
	if in.ResearchSourceCoverage < src.MinimumResearchSourceCoverage {
		fail(CodeResearchCoverageFail)
	}

	if in.IncidentOpen {
		fail(CodeOpenIncidentHold)
	}

	exceptions, _ := marshalVerbatim(rules.Exceptions)

	return types.PhaseTransition{
		FromPhase:   rules.FromPhase,
		ToPhase:     rules.ToPhase,
		Promotable:  promotable,
		ReasonCodes: sortedUnique(codes),
		Exceptions:  exceptions,
		Rollback:    rules.Rollback,
	}
}

func marshalVerbatim(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func sortedUnique(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
