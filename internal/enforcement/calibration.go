package enforcement

import (
	"fmt"
	"time"

	"github.com/studioops/phasegate/internal/policy"
	"github.com/studioops/phasegate/pkg/types"
)

// DefaultMaxLabelAgeDays is the freshness window for calibration labels.
const DefaultMaxLabelAgeDays = 7

// Calibration label vocabulary.
var validLabels = map[string]struct{}{
	"correct_hold":    {},
	"false_hold":      {},
	"correct_promote": {},
	"false_promote":   {},
}

// LabelStaleness reports governance over calibration label freshness. A
// label is stale when its timestamp is missing, unparseable, or older than
// maxAgeDays at the reference time.
func LabelStaleness(outcomes []types.OutcomeLabel, maxAgeDays float64, now time.Time) types.CalibrationGovernanceReport {
	stale := 0
	missingTimestamp := 0
	fresh := 0
	oldestAgeDays := 0.0

	for _, item := range outcomes {
		labeledAt, ok := policy.ParseInstant(item.LabeledAt)
		if !ok {
			missingTimestamp++
			stale++
			continue
		}

		ageDays := now.Sub(labeledAt).Seconds() / 86400.0
		if ageDays < 0 {
			ageDays = 0
		}
		if ageDays > oldestAgeDays {
			oldestAgeDays = ageDays
		}

		if ageDays > maxAgeDays {
			stale++
		} else {
			fresh++
		}
	}

	total := len(outcomes)
	staleRate := 0.0
	if total > 0 {
		staleRate = float64(stale) / float64(total)
	}

	return types.CalibrationGovernanceReport{
		TotalLabels:                total,
		FreshLabelCount:            fresh,
		StaleLabelCount:            stale,
		MissingLabelTimestampCount: missingTimestamp,
		StaleLabelRate:             staleRate,
		OldestLabelAgeDays:         oldestAgeDays,
		GovernanceOK:               staleRate == 0.0,
	}
}

// BuildCalibrationReport computes the full rate breakdown over labeled
// outcomes. Unknown labels are a hard error: a typo in a label silently
// skews the accuracy rates otherwise.
func BuildCalibrationReport(outcomes []types.OutcomeLabel) (types.CalibrationReport, error) {
	total := len(outcomes)
	if total == 0 {
		return types.CalibrationReport{}, nil
	}

	counts := map[string]int{}
	for _, item := range outcomes {
		if _, ok := validLabels[item.Label]; !ok {
			return types.CalibrationReport{}, fmt.Errorf("unknown calibration label: %q", item.Label)
		}
		counts[item.Label]++
	}

	return types.CalibrationReport{
		Total:              total,
		FalseHoldRate:      float64(counts["false_hold"]) / float64(total),
		FalsePromoteRate:   float64(counts["false_promote"]) / float64(total),
		CorrectHoldRate:    float64(counts["correct_hold"]) / float64(total),
		CorrectPromoteRate: float64(counts["correct_promote"]) / float64(total),
	}, nil
}
