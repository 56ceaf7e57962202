package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/studioops/phasegate/internal/crypto"
)

type LoadedDocument struct {
	Document Document
	Hash     string
	Bytes    []byte
}

// Load reads a JSON policy document, validates it, and computes its hash
// over the raw bytes.
func Load(path string) (LoadedDocument, error) {
	// #nosec G304 -- path comes from operator-configured policy path.
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadedDocument{}, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return LoadedDocument{}, fmt.Errorf("parse policy document: %w", err)
	}
	if err := Validate(doc); err != nil {
		return LoadedDocument{}, err
	}

	return LoadedDocument{
		Document: doc,
		Hash:     crypto.DigestWithPrefix(data),
		Bytes:    data,
	}, nil
}

// Validate checks the document for internal consistency. Every reason code
// in the engine's vocabulary must have a mapped mandatory action; finding
// out at decision time would be too late.
func Validate(doc Document) error {
	if doc.PolicyVersion == "" {
		return fmt.Errorf("%w: policy_version is required", ErrPolicyConfig)
	}
	if doc.Phase.Current == "" {
		return fmt.Errorf("%w: phase.current is required", ErrPolicyConfig)
	}
	if doc.PhaseBTransition.StabilityWindowWeeks <= 0 {
		return fmt.Errorf("%w: phase_b_transition.stability_window_weeks must be positive", ErrPolicyConfig)
	}
	if doc.DecisionEnforcement.Override.MaxTTLHours <= 0 {
		return fmt.Errorf("%w: decision_enforcement.override.max_ttl_hours must be positive", ErrPolicyConfig)
	}

	var unmapped []string
	for _, code := range AllReasonCodes {
		if action, ok := doc.DecisionEnforcement.ReasonCodeActions[code]; !ok || action == "" {
			unmapped = append(unmapped, code)
		}
	}
	if len(unmapped) > 0 {
		sort.Strings(unmapped)
		return fmt.Errorf("%w: reason codes without mandatory action mapping: %v", ErrPolicyConfig, unmapped)
	}
	return nil
}
