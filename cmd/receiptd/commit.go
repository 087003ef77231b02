package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eshaffer321/receipt-inbox/internal/cli"
	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/storage"
)

func commitCmd() *cobra.Command {
	var tenant string

	cmd := &cobra.Command{
		Use:   "commit <receipt-id> <transaction-id>",
		Short: "Attach a receipt to a transaction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp("commit")
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			result, err := app.Receipts.Commit(cmd.Context(), tenant, args[0], args[1])
			if errors.Is(err, storage.ErrConcurrentMatchConflict) {
				return fmt.Errorf("already matched; run `receiptd inbox` to refresh candidates: %w", err)
			}
			if err != nil {
				return err
			}
			cli.PrintCommit(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tenant, "tenant", "t", "default", "tenant owning the receipt")
	return cmd
}
