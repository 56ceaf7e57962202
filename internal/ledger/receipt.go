package ledger

import (
	"fmt"

	"github.com/studioops/phasegate/internal/crypto"
	"github.com/studioops/phasegate/pkg/types"
)

const ReceiptSchema = "phasegate.receipt.v0.1"

type Signer interface {
	KeyID() string
	SignEd25519(digest []byte) ([]byte, error)
}

// MakeReceipt canonicalizes, hashes, and signs a receipt over a decision.
// The receipt id is content-addressed: it is the digest of the canonical
// body, so the receipt is verifiable offline against the stored bytes.
func MakeReceipt(decision types.Decision, policyHash string, createdAt string, signer Signer) (ReceiptRecord, error) {
	if decision.Provenance.DecisionHash == "" {
		return ReceiptRecord{}, fmt.Errorf("missing decision hash")
	}
	if policyHash == "" || createdAt == "" {
		return ReceiptRecord{}, fmt.Errorf("missing required receipt fields")
	}

	override := decision.Explain.Machine.OverrideStatus
	body := map[string]any{
		"schema":            ReceiptSchema,
		"created_at":        createdAt,
		"decision_hash":     decision.Provenance.DecisionHash,
		"policy_hash":       policyHash,
		"policy_version":    decision.PolicyVersion,
		"current_phase":     decision.CurrentPhase,
		"promotion_target":  decision.PromotionTarget,
		"can_promote":       decision.Explain.CanPromote,
		"phase_hold":        decision.PhaseHold,
		"reason_codes":      decision.Explain.ReasonCodes,
		"mandatory_actions": decision.MandatoryActions,
		"override": map[string]any{
			"present": override.Present,
			"valid":   override.Valid,
			"applied": override.Applied,
			"reason":  override.Reason,
		},
	}

	canonical, err := crypto.Canonicalize(body)
	if err != nil {
		return ReceiptRecord{}, err
	}

	digest := crypto.DigestWithPrefix(canonical)
	sig, err := signer.SignEd25519(crypto.DigestBytes(canonical))
	if err != nil {
		return ReceiptRecord{}, err
	}

	return ReceiptRecord{
		ReceiptID:    digest,
		DecisionHash: decision.Provenance.DecisionHash,
		PolicyHash:   policyHash,
		BodyJSON:     canonical,
		BodyDigest:   digest,
		KeyID:        signer.KeyID(),
		Sig:          sig,
		CreatedAt:    createdAt,
	}, nil
}
