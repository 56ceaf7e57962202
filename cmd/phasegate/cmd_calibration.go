package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studioops/phasegate/internal/enforcement"
	"github.com/studioops/phasegate/pkg/types"
)

var calibrationCmd = &cobra.Command{
	Use:   "calibration <outcomes.json>",
	Short: "Compute false-hold/false-promote rates from labeled outcomes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// #nosec G304 -- operator-provided outcomes path.
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var payload struct {
			HistoricalOutcomes []types.OutcomeLabel `json:"historical_outcomes"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse labeled outcomes: %w", err)
		}

		report, err := enforcement.BuildCalibrationReport(payload.HistoricalOutcomes)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}
