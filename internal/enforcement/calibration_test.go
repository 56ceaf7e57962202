package enforcement

import (
	"math"
	"testing"
	"time"

	"github.com/studioops/phasegate/pkg/types"
)

var calibrationNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func TestLabelStalenessAllFresh(t *testing.T) {
	report := LabelStaleness([]types.OutcomeLabel{
		{Label: "correct_hold", LabeledAt: "2026-08-14T12:00:00Z"},
		{Label: "correct_promote", LabeledAt: "2026-08-10T12:00:00Z"},
	}, DefaultMaxLabelAgeDays, calibrationNow)

	if !report.GovernanceOK {
		t.Fatalf("expected governance ok, got %+v", report)
	}
	if report.FreshLabelCount != 2 || report.StaleLabelCount != 0 {
		t.Fatalf("unexpected counts %+v", report)
	}
	if math.Abs(report.OldestLabelAgeDays-5.0) > 1e-9 {
		t.Fatalf("expected oldest age 5 days, got %v", report.OldestLabelAgeDays)
	}
}

func TestLabelStalenessOldLabel(t *testing.T) {
	report := LabelStaleness([]types.OutcomeLabel{
		{Label: "false_hold", LabeledAt: "2026-08-01T12:00:00Z"},
		{Label: "correct_hold", LabeledAt: "2026-08-14T12:00:00Z"},
	}, DefaultMaxLabelAgeDays, calibrationNow)

	if report.GovernanceOK {
		t.Fatalf("stale label must fail governance")
	}
	if report.StaleLabelCount != 1 || report.FreshLabelCount != 1 {
		t.Fatalf("unexpected counts %+v", report)
	}
	if report.StaleLabelRate != 0.5 {
		t.Fatalf("expected stale rate 0.5, got %v", report.StaleLabelRate)
	}
}

func TestLabelStalenessMissingTimestamp(t *testing.T) {
	report := LabelStaleness([]types.OutcomeLabel{
		{Label: "correct_hold"},
		{Label: "correct_hold", LabeledAt: "garbage"},
	}, DefaultMaxLabelAgeDays, calibrationNow)

	if report.MissingLabelTimestampCount != 2 {
		t.Fatalf("expected 2 missing timestamps, got %d", report.MissingLabelTimestampCount)
	}
	if report.StaleLabelCount != 2 || report.GovernanceOK {
		t.Fatalf("missing timestamps count as stale, got %+v", report)
	}
}

func TestLabelStalenessFutureLabelClamped(t *testing.T) {
	report := LabelStaleness([]types.OutcomeLabel{
		{Label: "correct_hold", LabeledAt: "2026-08-16T12:00:00Z"},
	}, DefaultMaxLabelAgeDays, calibrationNow)

	if report.OldestLabelAgeDays != 0 {
		t.Fatalf("future labels clamp to age 0, got %v", report.OldestLabelAgeDays)
	}
	if !report.GovernanceOK {
		t.Fatalf("clamped future label is fresh, got %+v", report)
	}
}

func TestLabelStalenessEmpty(t *testing.T) {
	report := LabelStaleness(nil, DefaultMaxLabelAgeDays, calibrationNow)
	if !report.GovernanceOK || report.TotalLabels != 0 {
		t.Fatalf("empty outcomes should pass trivially, got %+v", report)
	}
}

func TestBuildCalibrationReportRates(t *testing.T) {
	report, err := BuildCalibrationReport([]types.OutcomeLabel{
		{Label: "correct_hold"},
		{Label: "correct_hold"},
		{Label: "false_hold"},
		{Label: "correct_promote"},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if report.Total != 4 {
		t.Fatalf("expected total 4, got %d", report.Total)
	}
	if report.CorrectHoldRate != 0.5 || report.FalseHoldRate != 0.25 {
		t.Fatalf("unexpected hold rates %+v", report)
	}
	if report.CorrectPromoteRate != 0.25 || report.FalsePromoteRate != 0 {
		t.Fatalf("unexpected promote rates %+v", report)
	}
}

func TestBuildCalibrationReportUnknownLabel(t *testing.T) {
	_, err := BuildCalibrationReport([]types.OutcomeLabel{
		{Label: "correct_hold"},
		{Label: "mislabeled"},
	})
	if err == nil {
		t.Fatalf("unknown label must be an error")
	}
}

func TestBuildCalibrationReportEmpty(t *testing.T) {
	report, err := BuildCalibrationReport(nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if report.Total != 0 || report.FalseHoldRate != 0 {
		t.Fatalf("expected zero report, got %+v", report)
	}
}
