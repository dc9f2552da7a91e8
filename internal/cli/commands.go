package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mwork/points-api/internal/domain/points"
)

// ─── transaction ────────────────────────────────────────────────────────────

func newTransactionCmd(a *app) *cobra.Command {
	var (
		payer     string
		amount    int
		timestamp string
	)

	cmd := &cobra.Command{
		Use:   "transaction",
		Short: "Record a payer transaction",
		Long: `Record points earned from a payer. Negative points record a correction.
The timestamp is RFC 3339 and defaults to now.`,
		Example: `  pointsctl transaction --payer DANNON --points 300 --timestamp 2020-10-31T10:00:00Z
  pointsctl transaction --payer DANNON --points=-200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ts := time.Now().UTC()
			if timestamp != "" {
				parsed, err := time.Parse(time.RFC3339, timestamp)
				if err != nil {
					return fmt.Errorf("invalid --timestamp %q: %w", timestamp, err)
				}
				ts = parsed
			}

			tx := points.Transaction{Payer: payer, Points: amount, Timestamp: ts}
			if err := a.client.AddTransaction(cmd.Context(), tx); err != nil {
				return err
			}

			log.Debug().Str("payer", payer).Int("points", amount).Time("timestamp", ts).Msg("transaction recorded")
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d points from %s\n", amount, payer)
			return err
		},
	}

	cmd.Flags().StringVarP(&payer, "payer", "p", "", "Payer name")
	cmd.Flags().IntVarP(&amount, "points", "n", 0, "Points earned (negative for a correction)")
	cmd.Flags().StringVarP(&timestamp, "timestamp", "t", "", "RFC 3339 timestamp (default now)")
	_ = cmd.MarkFlagRequired("payer")
	_ = cmd.MarkFlagRequired("points")

	return cmd
}

// ─── spend ──────────────────────────────────────────────────────────────────

func newSpendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "spend POINTS",
		Short: "Spend points, oldest first",
		Long:  `Spend points across payers, oldest transaction first, and print the deduction per payer.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("points must be a whole number, got %q", args[0])
			}

			deltas, err := a.client.Spend(cmd.Context(), amount)
			switch {
			case errors.Is(err, points.ErrInsufficientPoints):
				return errors.New(points.MsgInsufficientPoints)
			case errors.Is(err, points.ErrInvalidAmount):
				return errors.New(points.MsgInvalidAmount)
			case err != nil:
				return err
			}

			return writeJSON(cmd.OutOrStdout(), deltas)
		},
	}
}

// ─── balances ───────────────────────────────────────────────────────────────

func newBalancesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show points per payer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			balances, err := a.client.Balances(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), balances)
		},
	}
}

// ─── transactions ───────────────────────────────────────────────────────────

func newTransactionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transactions",
		Short: "List recorded transactions with their remaining points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.client.Transactions(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), entries)
		},
	}
}
