package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "phasegate",
	Short: "Deterministic promotion gating for the content pipeline",
	Long: "Phasegate evaluates weekly KPI series and governance signals against\n" +
		"a versioned policy document and produces an auditable PROMOTE/HOLD decision.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(calibrationCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
