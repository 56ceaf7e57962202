package ledger

// Store persists policy versions, decisions, signed receipts, and
// calibration outcome labels. Implementations: in-memory, SQLite
// (sqlstore), Postgres (pgstore).
type Store interface {
	WithTx(fn func(Tx) error) error

	PutPolicyVersion(rec PolicyVersionRecord) error
	GetPolicyVersion(policyHash string) (PolicyVersionRecord, bool)

	PutDecision(rec DecisionRecord) error
	GetDecision(decisionHash string) (DecisionRecord, bool)

	PutReceipt(rec ReceiptRecord) error
	GetReceipt(receiptID string) (ReceiptRecord, bool)

	PutOutcome(rec OutcomeRecord) error
	ListOutcomes() ([]OutcomeRecord, error)
}

type Tx interface {
	PutPolicyVersion(rec PolicyVersionRecord) error
	GetPolicyVersion(policyHash string) (PolicyVersionRecord, bool)

	PutDecision(rec DecisionRecord) error
	GetDecision(decisionHash string) (DecisionRecord, bool)

	PutReceipt(rec ReceiptRecord) error
	GetReceipt(receiptID string) (ReceiptRecord, bool)

	PutOutcome(rec OutcomeRecord) error
	ListOutcomes() ([]OutcomeRecord, error)
}

type PolicyVersionRecord struct {
	PolicyHash    string
	PolicyVersion string
	PolicyJSON    []byte
	CreatedAt     string
}

type DecisionRecord struct {
	DecisionHash  string
	PolicyHash    string
	PolicyVersion string
	CanPromote    bool
	PhaseHold     bool
	BodyJSON      []byte
	CreatedAt     string
}

type ReceiptRecord struct {
	ReceiptID    string
	DecisionHash string
	PolicyHash   string
	BodyJSON     []byte
	BodyDigest   string
	KeyID        string
	Sig          []byte
	CreatedAt    string
}

type OutcomeRecord struct {
	OutcomeID    string
	DecisionHash string
	Label        string
	LabeledAt    string
	CreatedAt    string
}
