package ledger

import (
	"sort"
	"sync"
)

type InMemoryStore struct {
	mu sync.Mutex

	policies  map[string]PolicyVersionRecord
	decisions map[string]DecisionRecord
	receipts  map[string]ReceiptRecord
	outcomes  map[string]OutcomeRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		policies:  make(map[string]PolicyVersionRecord),
		decisions: make(map[string]DecisionRecord),
		receipts:  make(map[string]ReceiptRecord),
		outcomes:  make(map[string]OutcomeRecord),
	}
}

func (s *InMemoryStore) WithTx(fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn((*memTx)(s))
}

type memTx InMemoryStore

func (s *InMemoryStore) PutPolicyVersion(rec PolicyVersionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[rec.PolicyHash] = rec
	return nil
}

func (s *InMemoryStore) GetPolicyVersion(policyHash string) (PolicyVersionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.policies[policyHash]
	return rec, ok
}

func (s *InMemoryStore) PutDecision(rec DecisionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions[rec.DecisionHash] = rec
	return nil
}

func (s *InMemoryStore) GetDecision(decisionHash string) (DecisionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.decisions[decisionHash]
	return rec, ok
}

func (s *InMemoryStore) PutReceipt(rec ReceiptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts[rec.ReceiptID] = rec
	return nil
}

func (s *InMemoryStore) GetReceipt(receiptID string) (ReceiptRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.receipts[receiptID]
	return rec, ok
}

func (s *InMemoryStore) PutOutcome(rec OutcomeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes[rec.OutcomeID] = rec
	return nil
}

func (s *InMemoryStore) ListOutcomes() ([]OutcomeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedOutcomes(s.outcomes), nil
}

func sortedOutcomes(outcomes map[string]OutcomeRecord) []OutcomeRecord {
	out := make([]OutcomeRecord, 0, len(outcomes))
	for _, rec := range outcomes {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OutcomeID < out[j].OutcomeID })
	return out
}

func (t *memTx) PutPolicyVersion(rec PolicyVersionRecord) error {
	t.policies[rec.PolicyHash] = rec
	return nil
}

func (t *memTx) GetPolicyVersion(policyHash string) (PolicyVersionRecord, bool) {
	rec, ok := t.policies[policyHash]
	return rec, ok
}

func (t *memTx) PutDecision(rec DecisionRecord) error {
	t.decisions[rec.DecisionHash] = rec
	return nil
}

func (t *memTx) GetDecision(decisionHash string) (DecisionRecord, bool) {
	rec, ok := t.decisions[decisionHash]
	return rec, ok
}

func (t *memTx) PutReceipt(rec ReceiptRecord) error {
	t.receipts[rec.ReceiptID] = rec
	return nil
}

func (t *memTx) GetReceipt(receiptID string) (ReceiptRecord, bool) {
	rec, ok := t.receipts[receiptID]
	return rec, ok
}

func (t *memTx) PutOutcome(rec OutcomeRecord) error {
	t.outcomes[rec.OutcomeID] = rec
	return nil
}

func (t *memTx) ListOutcomes() ([]OutcomeRecord, error) {
	return sortedOutcomes(t.outcomes), nil
}
