package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tierrun/tier-go/tier"
)

var (
	schedulePlan        string
	scheduleEffective   string
	scheduleScheduledAt string
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule <org>",
	Short: "Show or change the plan schedule of an organization",
	Long: `Show the current plan schedule of an organization.

With --plan, a new phase is submitted instead. --effective and --scheduled-at
accept RFC 3339 timestamps, plain dates or unix seconds; anything else means now.`,
	Args: cobra.ExactArgs(1),
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&schedulePlan, "plan", "", "plan to subscribe the organization to")
	scheduleCmd.Flags().StringVar(&scheduleEffective, "effective", "", "when the plan takes effect (default now)")
	scheduleCmd.Flags().StringVar(&scheduleScheduledAt, "scheduled-at", "", "when the change is scheduled (default now)")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	org := args[0]

	var s *tier.Schedule
	if schedulePlan != "" {
		s = &tier.Schedule{
			Plan:        schedulePlan,
			Effective:   tier.ParseTimestamp(scheduleEffective),
			ScheduledAt: tier.ParseTimestamp(scheduleScheduledAt),
		}
		logger.Info().Str("org", org).Str("plan", schedulePlan).Msg("Scheduling plan")
	} else if scheduleEffective != "" || scheduleScheduledAt != "" {
		return fmt.Errorf("--effective and --scheduled-at require --plan")
	}

	result, err := client.Schedule(ctx, org, s)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", org, err)
	}
	return printResult(cmd.OutOrStdout(), result, cfg.Output.Format)
}
