package main

import (
	"github.com/spf13/cobra"

	"github.com/eshaffer321/receipt-inbox/internal/cli"
)

func inboxCmd() *cobra.Command {
	var (
		tenant string
		apply  bool
	)

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "List unmatched receipts with their match decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp("inbox")
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			out := cmd.OutOrStdout()
			if apply {
				result, err := app.Receipts.ApplyAutoMatches(cmd.Context(), tenant)
				if err != nil {
					return err
				}
				cli.PrintApplyResult(out, result)
				return nil
			}

			pending, err := app.Receipts.ListPending(cmd.Context(), tenant)
			if err != nil {
				return err
			}
			cli.PrintInbox(out, pending)

			stats, err := app.Receipts.Stats(cmd.Context(), tenant)
			if err != nil {
				return err
			}
			cli.PrintStats(out, stats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tenant, "tenant", "t", "default", "tenant to list")
	cmd.Flags().BoolVar(&apply, "apply", false, "commit every auto-match decision")
	return cmd
}
