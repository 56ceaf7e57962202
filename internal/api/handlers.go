package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/studioops/phasegate/internal/auth"
	"github.com/studioops/phasegate/internal/enforcement"
	"github.com/studioops/phasegate/internal/ledger"
	"github.com/studioops/phasegate/internal/policy"
	"github.com/studioops/phasegate/pkg/types"
)

type Handler struct {
	Auth    auth.Authenticator
	Service *EvaluateService
}

func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/evaluate", h.Evaluate)
	mux.HandleFunc("GET /v1/decisions/{hash}", h.Decision)
	mux.HandleFunc("GET /v1/verify/{receipt}", h.Verify)
	mux.HandleFunc("POST /v1/outcomes", h.RecordOutcomes)
	mux.HandleFunc("GET /v1/calibration", h.Calibration)
	return mux
}

func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if !h.ensureAuth(w, r) {
		return
	}
	if h.Service == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "evaluate service not configured"})
		return
	}

	var req types.EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	resp, err := h.Service.Evaluate(req, time.Now().UTC())
	if err != nil {
		// Policy inconsistency and ledger failures are server faults;
		// everything else is a malformed request.
		status := http.StatusBadRequest
		if errors.Is(err, policy.ErrPolicyConfig) || errors.Is(err, ErrLedger) {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	// A HOLD verdict is a valid terminal output, not a failure.
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Decision(w http.ResponseWriter, r *http.Request) {
	if !h.ensureAuth(w, r) {
		return
	}
	if h.Service == nil || h.Service.Store == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "ledger not configured"})
		return
	}

	hash := r.PathValue("hash")
	if hash == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing decision hash"})
		return
	}
	if !strings.HasPrefix(hash, "sha256:") {
		hash = "sha256:" + hash
	}

	rec, ok := h.Service.Store.GetDecision(hash)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "decision not found"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rec.BodyJSON)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	if !h.ensureAuth(w, r) {
		return
	}
	if h.Service == nil || h.Service.Store == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "ledger not configured"})
		return
	}

	receiptID := r.PathValue("receipt")
	if receiptID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing receipt_id"})
		return
	}
	if !strings.HasPrefix(receiptID, "sha256:") {
		receiptID = "sha256:" + receiptID
	}

	receipt, ok := h.Service.Store.GetReceipt(receiptID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "receipt not found"})
		return
	}

	if err := ledger.VerifyReceipt(receipt, h.Service.PublicKey); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"receipt_id": receiptID,
			"valid":      false,
			"error":      err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"receipt_id": receiptID,
		"valid":      true,
	})
}

func (h *Handler) RecordOutcomes(w http.ResponseWriter, r *http.Request) {
	if !h.ensureAuth(w, r) {
		return
	}
	if h.Service == nil || h.Service.Store == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "ledger not configured"})
		return
	}

	var payload struct {
		HistoricalOutcomes []types.OutcomeLabel `json:"historical_outcomes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	if _, err := enforcement.BuildCalibrationReport(payload.HistoricalOutcomes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	err := h.Service.Store.WithTx(func(tx ledger.Tx) error {
		for _, label := range payload.HistoricalOutcomes {
			rec := ledger.OutcomeRecord{
				OutcomeID:    outcomeID(label, ""),
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
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"recorded": len(payload.HistoricalOutcomes)})
}

func (h *Handler) Calibration(w http.ResponseWriter, r *http.Request) {
	if !h.ensureAuth(w, r) {
		return
	}
	if h.Service == nil || h.Service.Store == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "ledger not configured"})
		return
	}

	records, err := h.Service.Store.ListOutcomes()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	outcomes := make([]types.OutcomeLabel, 0, len(records))
	for _, rec := range records {
		outcomes = append(outcomes, types.OutcomeLabel{
			Label:        rec.Label,
			LabeledAt:    rec.LabeledAt,
			DecisionHash: rec.DecisionHash,
		})
	}

	report, err := enforcement.BuildCalibrationReport(outcomes)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	governance := enforcement.LabelStaleness(outcomes, enforcement.DefaultMaxLabelAgeDays, time.Now().UTC())

	writeJSON(w, http.StatusOK, map[string]any{
		"calibration": report,
		"governance":  governance,
	})
}

func (h *Handler) ensureAuth(w http.ResponseWriter, r *http.Request) bool {
	if h.Auth == nil {
		return true
	}
	if _, err := h.Auth.Authenticate(r); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}
