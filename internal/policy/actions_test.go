package policy

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/studioops/phasegate/pkg/types"
)

func TestMapActionsSentinelForNoCodes(t *testing.T) {
	actions, err := MapActions(testDocument(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{types.ActionPromotionAllowed}, actions); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestMapActionsDeduplicatesAndSorts(t *testing.T) {
	actions, err := MapActions(testDocument(), []string{
		CodeVideoCountBelowMin,
		CodeSourceContractNotReady,
		CodeGeoWarnRed,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"AUTO_HOLD_AND_OPEN_INCIDENT", "BLOCK_PROMOTION_UNTIL_RESOLVED"}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestMapActionsUnknownCodeIsFatal(t *testing.T) {
	_, err := MapActions(testDocument(), []string{"NOT_A_CODE"})
	if !errors.Is(err, ErrPolicyConfig) {
		t.Fatalf("expected ErrPolicyConfig, got %v", err)
	}
}

func TestMapActionsEmptyMappingIsFatal(t *testing.T) {
	doc := testDocument()
	doc.DecisionEnforcement.ReasonCodeActions[CodeGeoWarnRed] = ""

	_, err := MapActions(doc, []string{CodeGeoWarnRed})
	if !errors.Is(err, ErrPolicyConfig) {
		t.Fatalf("expected ErrPolicyConfig, got %v", err)
	}
}
