// Command placelog analyzes places from the terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"placelog/internal/adapters/observability"
	"placelog/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg shared.Config
	root := &cobra.Command{
		Use:           "placelog",
		Short:         "Look up a place, read its reviews in your language and share the result",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := shared.Load()
			if err != nil {
				return err
			}
			cfg = c
			// logs go to stderr so stdout stays clean for the report
			log.Logger = observability.NewLoggerTo(os.Stderr, cfg.AppEnv, cfg.LogLevel)
			return nil
		},
	}
	root.AddCommand(newAnalyzeCmd(&cfg), newHistoryCmd(&cfg))
	return root
}
