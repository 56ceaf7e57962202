package policy

import (
	"fmt"
	"sort"

	"github.com/studioops/phasegate/pkg/types"
)

// MapActions resolves reason codes to mandatory actions through the
// policy's closed table, deduplicated and sorted. No reason codes yields
// the single PROMOTION_ALLOWED sentinel; an unmapped code is a fatal
// configuration error, never silently dropped.
func MapActions(doc Document, reasonCodes []string) ([]string, error) {
	if len(reasonCodes) == 0 {
		return []string{types.ActionPromotionAllowed}, nil
	}

	mapping := doc.DecisionEnforcement.ReasonCodeActions

	var unknown []string
	seen := map[string]struct{}{}
	var actions []string
	for _, code := range reasonCodes {
		action, ok := mapping[code]
		if !ok || action == "" {
			unknown = append(unknown, code)
			continue
		}
		if _, dup := seen[action]; dup {
			continue
		}
		seen[action] = struct{}{}
		actions = append(actions, action)
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: unknown reason codes for mandatory action mapping: %v", ErrPolicyConfig, unknown)
	}

	sort.Strings(actions)
	return actions, nil
}
