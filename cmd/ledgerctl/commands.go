package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"mexared-ledger/internal/adapter/storage/postgres"
	"mexared-ledger/internal/app"
	"mexared-ledger/internal/core/domain"
	"mexared-ledger/migrations"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newMigrateCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, state.cfg.Database, state.log)
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := postgres.Migrate(ctx, pool, migrations.FS, state.log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}
}

func newReconcileCommand(state *cliState) *cobra.Command {
	var walletFlag string
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild balances from the ledger and freeze wallets that disagree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, err := app.OpenStorage(ctx, state.cfg, false, state.log)
			if err != nil {
				return err
			}
			defer st.Close()
			recon := app.NewReconciliationService(st, nil, state.log)

			if walletFlag != "" {
				walletID, err := uuid.Parse(walletFlag)
				if err != nil {
					return fmt.Errorf("invalid wallet id: %w", err)
				}
				balance, err := recon.ReconstructBalance(ctx, walletID)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"wallet_id": walletID,
					"balance":   balance,
					"display":   balance.String(),
					"status":    "consistent",
				})
			}

			report, err := recon.ReconcileAll(ctx)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if report.Violations > 0 {
				return fmt.Errorf("%d wallet(s) failed reconciliation and were frozen", report.Violations)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&walletFlag, "wallet", "", "check a single wallet id")
	return cmd
}

func newClearHoldCommand(state *cliState) *cobra.Command {
	var operatorFlag, note string
	cmd := &cobra.Command{
		Use:   "clear-hold <wallet-id>",
		Short: "Release an integrity hold once the wallet reconciles again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			walletID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid wallet id: %w", err)
			}
			operatorID, err := uuid.Parse(operatorFlag)
			if err != nil {
				return fmt.Errorf("invalid operator id: %w", err)
			}

			ctx := cmd.Context()
			st, err := app.OpenStorage(ctx, state.cfg, false, state.log)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := app.NewReconciliationService(st, nil, state.log).ClearIntegrityHold(ctx, walletID, operatorID, note); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "integrity hold cleared on wallet %s\n", walletID)
			return nil
		},
	}
	cmd.Flags().StringVar(&operatorFlag, "operator", "", "admin actor id releasing the hold")
	cmd.Flags().StringVar(&note, "note", "", "resolution note recorded on the incident")
	_ = cmd.MarkFlagRequired("operator")
	_ = cmd.MarkFlagRequired("note")
	return cmd
}

func newQuoteCommand(state *cliState) *cobra.Command {
	var offerFlag, distributorFlag, actorFlag string
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Show the price an actor pays for an offer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := parseIDs(map[string]string{"offer": offerFlag, "distributor": distributorFlag, "actor": actorFlag})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := app.OpenStorage(ctx, state.cfg, false, state.log)
			if err != nil {
				return err
			}
			defer st.Close()

			margins, err := app.NewMarginService(state.cfg, st, nil, state.log)
			if err != nil {
				return err
			}
			q, err := margins.Quote(ctx, ids["offer"], ids["distributor"], ids["actor"])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), q)
		},
	}
	cmd.Flags().StringVar(&offerFlag, "offer", "", "offer id")
	cmd.Flags().StringVar(&distributorFlag, "distributor", "", "distributor id owning the margin")
	cmd.Flags().StringVar(&actorFlag, "actor", "", "actor asking for the price")
	return cmd
}

func newTokenCommand(state *cliState) *cobra.Command {
	var actorFlag, roleFlag string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for an actor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if state.cfg.JWT.Secret == "" {
				return errors.New("jwt.secret is required (MXL_JWT_SECRET)")
			}
			actorID, err := uuid.Parse(actorFlag)
			if err != nil {
				return fmt.Errorf("invalid actor id: %w", err)
			}

			token, expiresAt, err := app.NewTokenService(state.cfg).Generate(actorID, domain.Role(roleFlag))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"token":      token,
				"expires_at": expiresAt,
			})
		},
	}
	cmd.Flags().StringVar(&actorFlag, "actor", "", "actor id")
	cmd.Flags().StringVar(&roleFlag, "role", "", "ADMIN, DISTRIBUIDOR, VENDEDOR or CLIENTE")
	_ = cmd.MarkFlagRequired("actor")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func parseIDs(raw map[string]string) (map[string]uuid.UUID, error) {
	ids := make(map[string]uuid.UUID, len(raw))
	for name, v := range raw {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s id %q", name, v)
		}
		ids[name] = id
	}
	return ids, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
