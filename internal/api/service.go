package api

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/studioops/phasegate/internal/audit"
	"github.com/studioops/phasegate/internal/crypto"
	"github.com/studioops/phasegate/internal/enforcement"
	"github.com/studioops/phasegate/internal/ledger"
	"github.com/studioops/phasegate/internal/policy"
	"github.com/studioops/phasegate/pkg/types"
)

// ErrLedger marks failures persisting the audit trail. They are server-side
// faults, not request errors.
var ErrLedger = errors.New("ledger write failed")

// EvaluateService runs the promotion-gating engine over incoming requests
// and records the decision, a signed receipt, and any supplied calibration
// labels in the ledger.
type EvaluateService struct {
	Loaded    policy.LoadedDocument
	Engine    policy.Engine
	Store     ledger.Store
	Signer    ledger.Signer
	PublicKey ed25519.PublicKey
}

func NewEvaluateService(policyPath string, store ledger.Store) (*EvaluateService, error) {
	loaded, err := policy.Load(policyPath)
	if err != nil {
		return nil, err
	}

	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	priv, pub, err := crypto.KeyPairFromSeed(seed)
	if err != nil {
		return nil, err
	}

	return &EvaluateService{
		Loaded:    loaded,
		Engine:    policy.NewEngine(loaded),
		Store:     store,
		Signer:    DevSigner{ID: "dev", Priv: priv},
		PublicKey: pub,
	}, nil
}

// WithSigner swaps in an operator-configured signing key.
func (s *EvaluateService) WithSigner(keyID string, priv ed25519.PrivateKey, pub ed25519.PublicKey) *EvaluateService {
	s.Signer = DevSigner{ID: keyID, Priv: priv}
	s.PublicKey = pub
	return s
}

// Evaluate runs the combined evaluation and persists the audit trail. HOLD
// is a valid outcome, not an error; only malformed input or policy
// configuration inconsistency comes back as err.
func (s *EvaluateService) Evaluate(req types.EvaluationRequest, now time.Time) (types.CombinedResponse, error) {
	decision, err := s.Engine.Evaluate(req.PhaseEvaluationInput, req.HistoricalOutcomes, now)
	if err != nil {
		return types.CombinedResponse{}, err
	}

	enf := enforcement.EvaluateClosure(decision, req.ExecutedActions, req.ActionArtifacts, req.ObservedOperations)
	gov := enforcement.LabelStaleness(req.HistoricalOutcomes, enforcement.DefaultMaxLabelAgeDays, now)
	grade := audit.Evaluate(enf, gov)

	receiptID, err := s.record(decision, req, now)
	if err != nil {
		return types.CombinedResponse{}, fmt.Errorf("%w: %w", ErrLedger, err)
	}

	return types.CombinedResponse{
		Decision:               decision,
		OperationalEnforcement: &enf,
		CalibrationGovernance:  &gov,
		AuditGrade:             grade.Grade,
		ReceiptID:              receiptID,
		PolicyHash:             s.Loaded.Hash,
	}, nil
}

func (s *EvaluateService) record(decision types.Decision, req types.EvaluationRequest, now time.Time) (string, error) {
	if s.Store == nil {
		return "", nil
	}

	createdAt := now.UTC().Format(time.RFC3339)

	body, err := crypto.Canonicalize(decisionView(decision))
	if err != nil {
		return "", err
	}

	receipt, err := ledger.MakeReceipt(decision, s.Loaded.Hash, createdAt, s.Signer)
	if err != nil {
		return "", err
	}

	err = s.Store.WithTx(func(tx ledger.Tx) error {
		if err := tx.PutPolicyVersion(ledger.PolicyVersionRecord{
			PolicyHash:    s.Loaded.Hash,
			PolicyVersion: s.Loaded.Document.PolicyVersion,
			PolicyJSON:    s.Loaded.Bytes,
			CreatedAt:     createdAt,
		}); err != nil {
			return err
		}

		if err := tx.PutDecision(ledger.DecisionRecord{
			DecisionHash:  decision.Provenance.DecisionHash,
			PolicyHash:    s.Loaded.Hash,
			PolicyVersion: decision.PolicyVersion,
			CanPromote:    decision.Explain.CanPromote,
			PhaseHold:     decision.PhaseHold,
			BodyJSON:      body,
			CreatedAt:     createdAt,
		}); err != nil {
			return err
		}

		if err := tx.PutReceipt(receipt); err != nil {
			return err
		}

		for _, label := range req.HistoricalOutcomes {
			rec := ledger.OutcomeRecord{
				OutcomeID:    outcomeID(label, decision.Provenance.DecisionHash),
				DecisionHash: label.DecisionHash,
				Label:        label.Label,
				LabeledAt:    label.LabeledAt,
				CreatedAt:    createdAt,
			}
			if err := tx.PutOutcome(rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return receipt.ReceiptID, nil
}

// decisionView flattens the decision into canonicalizable maps. The stored
// body is canonical JSON so replays hash identically.
func decisionView(d types.Decision) map[string]any {
	override := d.Explain.Machine.OverrideStatus
	return map[string]any{
		"policy_version":            d.PolicyVersion,
		"current_phase":             d.CurrentPhase,
		"promotion_target":          d.PromotionTarget,
		"phase_hold":                d.PhaseHold,
		"incident_required":         d.IncidentRequired,
		"decision_without_action":   d.DecisionWithoutAction,
		"promotion_during_hold":     d.PromotionDuringHold,
		"override_audit_violations": d.OverrideAuditViolations,
		"geo_readiness": map[string]any{
			"level":                     d.GeoReadiness.Level,
			"latest_warning_count":      d.GeoReadiness.LatestWarningCount,
			"sustained_increase_streak": d.GeoReadiness.SustainedIncreaseStreak,
			"incident_required":         d.GeoReadiness.IncidentRequired,
			"phase_hold":                d.GeoReadiness.PhaseHold,
			"reason_codes":              d.GeoReadiness.ReasonCodes,
		},
		"promotion": map[string]any{
			"from_phase":   d.Promotion.FromPhase,
			"to_phase":     d.Promotion.ToPhase,
			"promotable":   d.Promotion.Promotable,
			"reason_codes": d.Promotion.ReasonCodes,
		},
		"mandatory_actions": d.MandatoryActions,
		"decision_hash":     d.Provenance.DecisionHash,
		"evaluated_at":      d.Provenance.EvaluatedAt,
		"can_promote":       d.Explain.CanPromote,
		"reason_codes":      d.Explain.ReasonCodes,
		"human":             d.Explain.Human,
		"override_status": map[string]any{
			"present": override.Present,
			"valid":   override.Valid,
			"applied": override.Applied,
			"reason":  override.Reason,
		},
	}
}

func outcomeID(label types.OutcomeLabel, decisionHash string) string {
	seedMaterial := label.Label + "|" + label.LabeledAt + "|" + label.DecisionHash + "|" + decisionHash
	return "outcome-" + hex.EncodeToString(crypto.DigestBytes([]byte(seedMaterial)))[:16]
}

// DevSigner signs with an in-process key. Production deployments load a
// key file via the gateway config instead.
type DevSigner struct {
	ID   string
	Priv ed25519.PrivateKey
}

func (s DevSigner) KeyID() string {
	return s.ID
}

func (s DevSigner) SignEd25519(digest []byte) ([]byte, error) {
	return crypto.SignEd25519(s.Priv, digest)
}
