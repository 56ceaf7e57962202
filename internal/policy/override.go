package policy

import (
	"sort"
	"strings"
	"time"

	"github.com/studioops/phasegate/pkg/types"
)

// overrideTimestampLayouts are tried in order. Layouts without a zone are
// taken as UTC.
var overrideTimestampLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02", true},
}

// ParseInstant parses an ISO-8601-style timestamp into a timezone-aware
// instant, defaulting naive timestamps to UTC.
func ParseInstant(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, candidate := range overrideTimestampLayouts {
		if candidate.naive {
			if t, err := time.ParseInLocation(candidate.layout, value, time.UTC); err == nil {
				return t, true
			}
			continue
		}
		if t, err := time.Parse(candidate.layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ValidateOverride checks a human override record against the policy's
// override rules. Checks run in order and short-circuit at the first
// failure. A record that passes everything is valid but not applied:
// application is the composer's call, gated on the policy's
// manual_override_allowed exception.
func ValidateOverride(doc Document, rec *types.OverrideRecord, now time.Time) types.OverrideStatus {
	rules := doc.DecisionEnforcement.Override

	if rec == nil {
		return types.OverrideStatus{Reason: OverrideReasonNone}
	}

	var missing []string
	for _, field := range rules.RequiredFields {
		value, known := rec.Field(field)
		if !known || strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return types.OverrideStatus{
			Present: true,
			Reason:  OverrideReasonMissingFields + ":" + strings.Join(missing, ","),
		}
	}

	createdAt, okCreated := ParseInstant(rec.CreatedAt)
	expiresAt, okExpires := ParseInstant(rec.ExpiresAt)
	if !okCreated || !okExpires {
		return types.OverrideStatus{Present: true, Reason: OverrideReasonBadTimestamp}
	}

	if !expiresAt.After(createdAt) {
		return types.OverrideStatus{Present: true, Reason: OverrideReasonBadTTLOrder}
	}

	ttlLimit := time.Duration(rules.MaxTTLHours * float64(time.Hour))
	if expiresAt.Sub(createdAt) > ttlLimit {
		return types.OverrideStatus{Present: true, Reason: OverrideReasonTTLExceedsPolicy}
	}

	if now.After(expiresAt) {
		return types.OverrideStatus{Present: true, Reason: OverrideReasonExpired}
	}

	if !rules.Allowed {
		return types.OverrideStatus{Present: true, Reason: OverrideReasonDisabled}
	}

	return types.OverrideStatus{
		Present: true,
		Valid:   true,
		Reason:  OverrideReasonAccepted,
	}
}
