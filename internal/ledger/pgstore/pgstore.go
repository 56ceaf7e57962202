// Package pgstore is the Postgres-backed ledger store.
package pgstore

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/studioops/phasegate/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func OpenPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) WithTx(fn func(ledger.Tx) error) error {
	tx, err := s.db.BeginTx(context.Background(), &sql.TxOptions{})
	if err != nil {
		return err
	}
	wrapped := &Tx{q: tx}
	if err := fn(wrapped); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type Tx struct {
	q querier
}

func (s *Store) PutPolicyVersion(rec ledger.PolicyVersionRecord) error {
	return putPolicyVersion(s.db, rec)
}

func (s *Store) GetPolicyVersion(policyHash string) (ledger.PolicyVersionRecord, bool) {
	return getPolicyVersion(s.db, policyHash)
}

func (s *Store) PutDecision(rec ledger.DecisionRecord) error {
	return putDecision(s.db, rec)
}

func (s *Store) GetDecision(decisionHash string) (ledger.DecisionRecord, bool) {
	return getDecision(s.db, decisionHash)
}

func (s *Store) PutReceipt(rec ledger.ReceiptRecord) error {
	return putReceipt(s.db, rec)
}

func (s *Store) GetReceipt(receiptID string) (ledger.ReceiptRecord, bool) {
	return getReceipt(s.db, receiptID)
}

func (s *Store) PutOutcome(rec ledger.OutcomeRecord) error {
	return putOutcome(s.db, rec)
}

func (s *Store) ListOutcomes() ([]ledger.OutcomeRecord, error) {
	return listOutcomes(s.db)
}

func (t *Tx) PutPolicyVersion(rec ledger.PolicyVersionRecord) error {
	return putPolicyVersion(t.q, rec)
}

func (t *Tx) GetPolicyVersion(policyHash string) (ledger.PolicyVersionRecord, bool) {
	return getPolicyVersion(t.q, policyHash)
}

func (t *Tx) PutDecision(rec ledger.DecisionRecord) error {
	return putDecision(t.q, rec)
}

func (t *Tx) GetDecision(decisionHash string) (ledger.DecisionRecord, bool) {
	return getDecision(t.q, decisionHash)
}

func (t *Tx) PutReceipt(rec ledger.ReceiptRecord) error {
	return putReceipt(t.q, rec)
}

func (t *Tx) GetReceipt(receiptID string) (ledger.ReceiptRecord, bool) {
	return getReceipt(t.q, receiptID)
}

func (t *Tx) PutOutcome(rec ledger.OutcomeRecord) error {
	return putOutcome(t.q, rec)
}

func (t *Tx) ListOutcomes() ([]ledger.OutcomeRecord, error) {
	return listOutcomes(t.q)
}

func putPolicyVersion(q querier, rec ledger.PolicyVersionRecord) error {
	_, err := q.Exec(`INSERT INTO policy_versions(policy_hash, policy_version, policy_json, created_at)
VALUES($1, $2, $3, $4)
ON CONFLICT(policy_hash) DO NOTHING`,
		rec.PolicyHash, rec.PolicyVersion, rec.PolicyJSON, rec.CreatedAt)
	return err
}

func getPolicyVersion(q querier, policyHash string) (ledger.PolicyVersionRecord, bool) {
	var rec ledger.PolicyVersionRecord
	err := q.QueryRow(`SELECT policy_hash, policy_version, policy_json, created_at
FROM policy_versions WHERE policy_hash = $1`, policyHash).
		Scan(&rec.PolicyHash, &rec.PolicyVersion, &rec.PolicyJSON, &rec.CreatedAt)
	if err != nil {
		return ledger.PolicyVersionRecord{}, false
	}
	return rec, true
}

func putDecision(q querier, rec ledger.DecisionRecord) error {
	_, err := q.Exec(`INSERT INTO decisions(decision_hash, policy_hash, policy_version, can_promote, phase_hold, body_json, created_at)
VALUES($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT(decision_hash) DO UPDATE SET body_json = excluded.body_json`,
		rec.DecisionHash, rec.PolicyHash, rec.PolicyVersion, rec.CanPromote, rec.PhaseHold, rec.BodyJSON, rec.CreatedAt)
	return err
}

func getDecision(q querier, decisionHash string) (ledger.DecisionRecord, bool) {
	var rec ledger.DecisionRecord
	err := q.QueryRow(`SELECT decision_hash, policy_hash, policy_version, can_promote, phase_hold, body_json, created_at
FROM decisions WHERE decision_hash = $1`, decisionHash).
		Scan(&rec.DecisionHash, &rec.PolicyHash, &rec.PolicyVersion, &rec.CanPromote, &rec.PhaseHold, &rec.BodyJSON, &rec.CreatedAt)
	if err != nil {
		return ledger.DecisionRecord{}, false
	}
	return rec, true
}

func putReceipt(q querier, rec ledger.ReceiptRecord) error {
	_, err := q.Exec(`INSERT INTO receipts(receipt_id, decision_hash, policy_hash, body_json, body_digest, key_id, sig, created_at)
VALUES($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT(receipt_id) DO NOTHING`,
		rec.ReceiptID, rec.DecisionHash, rec.PolicyHash, rec.BodyJSON, rec.BodyDigest, rec.KeyID, rec.Sig, rec.CreatedAt)
	return err
}

func getReceipt(q querier, receiptID string) (ledger.ReceiptRecord, bool) {
	var rec ledger.ReceiptRecord
	err := q.QueryRow(`SELECT receipt_id, decision_hash, policy_hash, body_json, body_digest, key_id, sig, created_at
FROM receipts WHERE receipt_id = $1`, receiptID).
		Scan(&rec.ReceiptID, &rec.DecisionHash, &rec.PolicyHash, &rec.BodyJSON, &rec.BodyDigest, &rec.KeyID, &rec.Sig, &rec.CreatedAt)
	if err != nil {
		return ledger.ReceiptRecord{}, false
	}
	return rec, true
}

func putOutcome(q querier, rec ledger.OutcomeRecord) error {
	_, err := q.Exec(`INSERT INTO outcomes(outcome_id, decision_hash, label, labeled_at, created_at)
VALUES($1, $2, $3, $4, $5)
ON CONFLICT(outcome_id) DO UPDATE SET label = excluded.label, labeled_at = excluded.labeled_at`,
		rec.OutcomeID, rec.DecisionHash, rec.Label, rec.LabeledAt, rec.CreatedAt)
	return err
}

func listOutcomes(q querier) ([]ledger.OutcomeRecord, error) {
	rows, err := q.Query(`SELECT outcome_id, decision_hash, label, labeled_at, created_at
FROM outcomes ORDER BY outcome_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.OutcomeRecord
	for rows.Next() {
		var rec ledger.OutcomeRecord
		if err := rows.Scan(&rec.OutcomeID, &rec.DecisionHash, &rec.Label, &rec.LabeledAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
