// Command receiptd serves and inspects the receipt inbox.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eshaffer321/receipt-inbox/internal/cli"
	"github.com/eshaffer321/receipt-inbox/internal/infrastructure/config"
)

var (
	cfgFile string
	dbPath  string
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "receiptd",
		Short: "Match uploaded receipts to recorded transactions",
		Long: `receiptd reads receipt filenames such as
"2024-01-15 Costco Food-Groceries $25.00 (snacks).pdf", finds the transactions they
most likely belong to, and attaches them automatically when exactly one
transaction is a confident match.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file (falls back to environment variables)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(matchCmd())
	rootCmd.AddCommand(inboxCmd())
	rootCmd.AddCommand(commitCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file or environment and applies global flags.
// A .env file in the working directory fills in unset environment variables.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.LoadOrEnv_WithPath(cfgFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Storage.DatabasePath = dbPath
	}
	return cfg, nil
}

// openApp loads configuration and opens the store for a one-shot command.
func openApp(system string) (*cli.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cli.NewApp(cfg, verbose, system)
}
