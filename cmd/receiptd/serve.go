package main

import (
	"github.com/spf13/cobra"

	"github.com/eshaffer321/receipt-inbox/internal/cli"
)

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return cli.RunServe(cmd.Context(), cfg, cli.ServeFlags{
				Port:    port,
				Verbose: verbose,
			})
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from config)")
	return cmd
}
