package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tierrun/tier-go/tier"
)

var (
	reserveN         int
	reserveNoOverage bool
	reserveNow       string
)

// reserveCmd represents the reserve command
var reserveCmd = &cobra.Command{
	Use:   "reserve <org> <feature> [feature...]",
	Short: "Reserve units of one or more features",
	Long: `Reserve N units of each feature for an organization and report how many
were covered by the plan.

With --no-overage, a reservation that lands entirely beyond the plan limit is
reported as an error. Tier still records the usage.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runReserve,
}

func init() {
	reserveCmd.Flags().IntVarP(&reserveN, "count", "n", 1, "number of units to reserve")
	reserveCmd.Flags().BoolVar(&reserveNoOverage, "no-overage", false, "fail when the request is entirely overage")
	reserveCmd.Flags().StringVar(&reserveNow, "now", "", "record the reservation at this time (default now)")
}

// reserveLine is the printed form of a batch outcome
type reserveLine struct {
	Feature string                  `json:"feature"`
	N       int                     `json:"n"`
	Result  *tier.ReservationResult `json:"result,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

func runReserve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	org, features := args[0], args[1:]

	opts := []tier.ReserveOption{
		tier.WithAllowOverage(!reserveNoOverage),
		tier.WithNow(tier.ParseTimestamp(reserveNow)),
	}

	if len(features) == 1 {
		result, err := client.Reserve(ctx, org, features[0], reserveN, opts...)
		if err != nil {
			return fmt.Errorf("reserve %s: %w", features[0], err)
		}
		if result.HasOverage() {
			logger.Warn().
				Str("feature", features[0]).
				Int("overage", result.Overage).
				Msg("Reservation exceeded the plan limit")
		}
		return printResult(cmd.OutOrStdout(), result, cfg.Output.Format)
	}

	reqs := make([]tier.ReserveRequest, len(features))
	for i, f := range features {
		reqs[i] = tier.ReserveRequest{Feature: f, N: reserveN}
	}

	outcomes, err := client.ReserveAll(ctx, org, reqs, opts...)
	if err != nil {
		return err
	}

	lines := make([]reserveLine, len(outcomes))
	var failed int
	for i, o := range outcomes {
		lines[i] = reserveLine{Feature: o.Feature, N: o.N, Result: o.Result}
		if o.Err != nil {
			failed++
			lines[i].Error = o.Err.Error()
			logger.Error().Err(o.Err).Str("feature", o.Feature).Msg("Reservation failed")
		}
	}

	if err := printResult(cmd.OutOrStdout(), lines, cfg.Output.Format); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d reservations failed", failed, len(outcomes))
	}
	return nil
}
