// Command ledgerctl is the operator tool for the ledger: schema migration,
// reconciliation, integrity hold release, price quotes and test tokens.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mexared-ledger/config"
	"mexared-ledger/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
)

type cliState struct {
	cfg *config.Config
	log zerolog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "ledgerctl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	state := &cliState{}
	cmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Operator tool for the MexaRed ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.load(cmd)
		},
	}

	cmd.PersistentFlags().String(flagConfig, "", "config file (default ./config.yaml, env MXL_*)")
	cmd.PersistentFlags().String(flagLogLevel, "warn", "log level for diagnostics on stderr")

	cmd.AddCommand(
		newMigrateCommand(state),
		newReconcileCommand(state),
		newClearHoldCommand(state),
		newQuoteCommand(state),
		newTokenCommand(state),
	)
	return cmd
}

func (s *cliState) load(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return err
	}
	level, err := cmd.Flags().GetString(flagLogLevel)
	if err != nil {
		return err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.log = logger.NewWithWriter(level, cmd.ErrOrStderr())
	return nil
}
