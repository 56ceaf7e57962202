package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/studioops/phasegate/internal/audit"
	"github.com/studioops/phasegate/internal/enforcement"
	"github.com/studioops/phasegate/internal/policy"
	"github.com/studioops/phasegate/pkg/types"
)

const defaultPolicyPath = "config/phase_policy.json"

var (
	evaluatePolicyPath string
	evaluateAt         string
	evaluateCompact    bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <request.json>",
	Short: "Evaluate a KPI snapshot and print the combined decision JSON",
	Long: "Evaluate reads an evaluation-request JSON file and prints the decision\n" +
		"with the operational-enforcement and calibration-governance reports.\n" +
		"A HOLD verdict exits 0; only malformed input or an inconsistent policy\n" +
		"document exits non-zero.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// #nosec G304 -- operator-provided request path.
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var req types.EvaluationRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return fmt.Errorf("parse evaluation request: %w", err)
		}

		loaded, err := policy.Load(policyPath())
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if evaluateAt != "" {
			pinned, ok := policy.ParseInstant(evaluateAt)
			if !ok {
				return fmt.Errorf("invalid --at timestamp: %q", evaluateAt)
			}
			now = pinned
		}

		engine := policy.NewEngine(loaded)
		decision, err := engine.Evaluate(req.PhaseEvaluationInput, req.HistoricalOutcomes, now)
		if err != nil {
			return err
		}

		enf := enforcement.EvaluateClosure(decision, req.ExecutedActions, req.ActionArtifacts, req.ObservedOperations)
		gov := enforcement.LabelStaleness(req.HistoricalOutcomes, enforcement.DefaultMaxLabelAgeDays, now)
		grade := audit.Evaluate(enf, gov)

		resp := types.CombinedResponse{
			Decision:               decision,
			OperationalEnforcement: &enf,
			CalibrationGovernance:  &gov,
			AuditGrade:             grade.Grade,
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		if !evaluateCompact {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(resp)
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluatePolicyPath, "policy", "", "path to the policy document (default $PHASEGATE_POLICY_PATH or "+defaultPolicyPath+")")
	evaluateCmd.Flags().StringVar(&evaluateAt, "at", "", "pin the evaluation timestamp for reproducible hashes")
	evaluateCmd.Flags().BoolVar(&evaluateCompact, "compact", false, "print compact JSON")
}

func policyPath() string {
	if evaluatePolicyPath != "" {
		return evaluatePolicyPath
	}
	if fromEnv := os.Getenv("PHASEGATE_POLICY_PATH"); fromEnv != "" {
		return fromEnv
	}
	return defaultPolicyPath
}
