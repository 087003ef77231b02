package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/receipt-inbox/internal/cli"
)

func matchCmd() *cobra.Command {
	var (
		tenant string
		nowStr string
	)

	cmd := &cobra.Command{
		Use:   "match <filename>",
		Short: "Show how a filename would be matched, without storing anything",
		Example: `  receiptd match --tenant household "12-28 Shell Auto-Fuel \$40.00.jpg"
  receiptd match --tenant household --now 2026-01-05 "12-28 Shell.jpg"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if nowStr != "" {
				parsed, err := time.Parse("2006-01-02", nowStr)
				if err != nil {
					return fmt.Errorf("--now must be YYYY-MM-DD: %w", err)
				}
				now = parsed
			}

			app, err := openApp("match")
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			eval, err := app.Receipts.EvaluateFilename(cmd.Context(), tenant, args[0], now)
			if err != nil {
				return err
			}
			cli.PrintEvaluation(cmd.OutOrStdout(), eval)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tenant, "tenant", "t", "default", "tenant whose transactions are searched")
	cmd.Flags().StringVar(&nowStr, "now", "", "reference date for year inference (YYYY-MM-DD, default today)")
	return cmd
}
