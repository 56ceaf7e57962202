package sqlstore

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/studioops/phasegate/internal/ledger"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := ledger.Migrate(store.DB(), ledger.DBSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	if err := ledger.Migrate(store.DB(), ledger.DBSQLite); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestPolicyVersionRoundTrip(t *testing.T) {
	store := openTestStore(t)

	rec := ledger.PolicyVersionRecord{
		PolicyHash:    "sha256:policy",
		PolicyVersion: "2026-08-01",
		PolicyJSON:    []byte(`{"policy_version":"2026-08-01"}`),
		CreatedAt:     "2026-08-15T12:00:00Z",
	}
	if err := store.PutPolicyVersion(rec); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Re-inserting the same hash is a no-op, not an error.
	if err := store.PutPolicyVersion(rec); err != nil {
		t.Fatalf("put again: %v", err)
	}

	got, ok := store.GetPolicyVersion("sha256:policy")
	if !ok {
		t.Fatalf("not found")
	}
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	if _, ok := store.GetPolicyVersion("sha256:absent"); ok {
		t.Fatalf("found a policy that was never stored")
	}
}

func TestDecisionAndReceiptRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if err := store.PutPolicyVersion(ledger.PolicyVersionRecord{
		PolicyHash:    "sha256:policy",
		PolicyVersion: "2026-08-01",
		PolicyJSON:    []byte(`{}`),
		CreatedAt:     "2026-08-15T12:00:00Z",
	}); err != nil {
		t.Fatalf("put policy: %v", err)
	}

	decision := ledger.DecisionRecord{
		DecisionHash:  "sha256:decision",
		PolicyHash:    "sha256:policy",
		PolicyVersion: "2026-08-01",
		CanPromote:    true,
		PhaseHold:     false,
		BodyJSON:      []byte(`{"can_promote":true}`),
		CreatedAt:     "2026-08-15T12:00:00Z",
	}
	if err := store.PutDecision(decision); err != nil {
		t.Fatalf("put decision: %v", err)
	}
	gotDecision, ok := store.GetDecision("sha256:decision")
	if !ok {
		t.Fatalf("decision not found")
	}
	if diff := cmp.Diff(decision, gotDecision); diff != "" {
		t.Fatalf("decision mismatch (-want +got):\n%s", diff)
	}

	receipt := ledger.ReceiptRecord{
		ReceiptID:    "sha256:receipt",
		DecisionHash: "sha256:decision",
		PolicyHash:   "sha256:policy",
		BodyJSON:     []byte(`{"schema":"phasegate.receipt.v0.1"}`),
		BodyDigest:   "sha256:receipt",
		KeyID:        "dev",
		Sig:          []byte{1, 2, 3},
		CreatedAt:    "2026-08-15T12:00:00Z",
	}
	if err := store.PutReceipt(receipt); err != nil {
		t.Fatalf("put receipt: %v", err)
	}
	gotReceipt, ok := store.GetReceipt("sha256:receipt")
	if !ok {
		t.Fatalf("receipt not found")
	}
	if diff := cmp.Diff(receipt, gotReceipt); diff != "" {
		t.Fatalf("receipt mismatch (-want +got):\n%s", diff)
	}
}

func TestOutcomeUpsertAndOrder(t *testing.T) {
	store := openTestStore(t)

	for _, rec := range []ledger.OutcomeRecord{
		{OutcomeID: "outcome-b", Label: "false_hold", CreatedAt: "2026-08-15T12:00:00Z"},
		{OutcomeID: "outcome-a", Label: "correct_hold", CreatedAt: "2026-08-15T12:00:00Z"},
	} {
		if err := store.PutOutcome(rec); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	// Upsert relabels in place.
	if err := store.PutOutcome(ledger.OutcomeRecord{
		OutcomeID: "outcome-b",
		Label:     "correct_hold",
		LabeledAt: "2026-08-15T12:00:00Z",
		CreatedAt: "2026-08-15T12:00:00Z",
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	outcomes, err := store.ListOutcomes()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].OutcomeID != "outcome-a" || outcomes[1].OutcomeID != "outcome-b" {
		t.Fatalf("unexpected order %+v", outcomes)
	}
	if outcomes[1].Label != "correct_hold" {
		t.Fatalf("expected relabel, got %q", outcomes[1].Label)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	store := openTestStore(t)

	sentinel := errors.New("boom")
	err := store.WithTx(func(tx ledger.Tx) error {
		if err := tx.PutPolicyVersion(ledger.PolicyVersionRecord{
			PolicyHash:    "sha256:tx",
			PolicyVersion: "2026-08-01",
			PolicyJSON:    []byte(`{}`),
			CreatedAt:     "2026-08-15T12:00:00Z",
		}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel, got %v", err)
	}
	if _, ok := store.GetPolicyVersion("sha256:tx"); ok {
		t.Fatalf("rollback must discard the write")
	}
}

func TestWithTxCommits(t *testing.T) {
	store := openTestStore(t)

	err := store.WithTx(func(tx ledger.Tx) error {
		if err := tx.PutPolicyVersion(ledger.PolicyVersionRecord{
			PolicyHash:    "sha256:tx",
			PolicyVersion: "2026-08-01",
			PolicyJSON:    []byte(`{}`),
			CreatedAt:     "2026-08-15T12:00:00Z",
		}); err != nil {
			return err
		}
		if _, ok := tx.GetPolicyVersion("sha256:tx"); !ok {
			t.Fatalf("write not visible inside tx")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	if _, ok := store.GetPolicyVersion("sha256:tx"); !ok {
		t.Fatalf("commit must persist the write")
	}
}
