package policy

import (
	"github.com/studioops/phasegate/pkg/types"
)

// GEO readiness traffic-light levels.
const (
	LevelGreen  = "green"
	LevelYellow = "yellow"
	LevelRed    = "red"
)

// sustainedIncreaseStreak is the length of the longest strictly-increasing
// run ending at the tail of the series. Series of length 0 or 1 have no
// week-over-week increase, so the streak is 0.
func sustainedIncreaseStreak(values []int) int {
	if len(values) < 2 {
		return 0
	}
	streak := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			streak++
		} else {
			streak = 0
		}
	}
	return streak
}

// EvaluateGeoReadiness turns the weekly warning-count series into a
// readiness level. A level trips when the latest count meets the threshold
// and the increase has been sustained for the configured run of weeks.
func EvaluateGeoReadiness(doc Document, in types.PhaseEvaluationInput) types.GeoReadiness {
	warnings := in.GeoWarningCountWeekly
	latest := 0
	if len(warnings) > 0 {
		latest = warnings[len(warnings)-1]
	}
	streak := sustainedIncreaseStreak(warnings)

	level := LevelGreen
	var codes []string

	esc := doc.GeoReadiness.Escalation
	if latest >= esc.Red.MinWeeklyWarningCount && streak >= esc.Red.SustainedIncreaseWeeks-1 {
		level = LevelRed
		codes = append(codes, CodeGeoWarnRed)
	} else if latest >= esc.Yellow.MinWeeklyWarningCount && streak >= esc.Yellow.SustainedIncreaseWeeks-1 {
		level = LevelYellow
		codes = append(codes, CodeGeoWarnYellow)
	}

	rules := doc.GeoReadiness.IncidentRules
	incidentRequired := containsLevel(rules.CreateIncidentOnLevel, level)
	hold := containsLevel(rules.AutoHoldOnLevel, level)
	if rules.AutoHoldWhenIncidentOpen && in.IncidentOpen {
		hold = true
		codes = append(codes, CodeOpenIncidentHold)
	}

	return types.GeoReadiness{
		Level:                   level,
		LatestWarningCount:      latest,
		SustainedIncreaseStreak: streak,
		IncidentRequired:        incidentRequired,
		PhaseHold:               hold,
		ReasonCodes:             sortedUnique(codes),
	}
}

func containsLevel(levels []string, level string) bool {
	for _, l := range levels {
		if l == level {
			return true
		}
	}
	return false
}
