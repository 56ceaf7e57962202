package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studioops/phasegate/internal/policy"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Policy document helpers",
}

var policyLintCmd = &cobra.Command{
	Use:   "lint <policy.json>",
	Short: "Validate a policy document and print its version and hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := policy.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok policy_version=%s policy_hash=%s\n",
			loaded.Document.PolicyVersion, loaded.Hash)
		return nil
	},
}

func init() {
	policyCmd.AddCommand(policyLintCmd)
}
