package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/takak2166/limitless2md/internal/logger"
)

// NewRootCommand creates the top-level Cobra command hosting the sync and
// version subcommands.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "limitless2md",
		Short: "Sync Limitless lifelogs into per-day markdown files.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A .env file is optional; settings may come straight from
			// the environment
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load .env: %w", err)
			}

			level := os.Getenv("LOG_LEVEL")
			if level == "" {
				level = "info"
			}
			if err := logger.Init(level); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newSyncCommand(),
		newVersionCommand(),
	)

	return cmd
}

// Execute runs the root command under the given context
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// Main is a helper used by cmd/limitless2md/main.go to keep wiring
// contained in one package.
func Main(ctx context.Context) {
	if err := Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
