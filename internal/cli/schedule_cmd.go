package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/domain"
)

func newScheduleCmd(s *session) *cobra.Command {
	var (
		from string
		days int
	)

	cmd := &cobra.Command{
		Use:     "schedule",
		Aliases: []string{"ls"},
		Short:   "Show scheduled instances",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := s.App()
			if err := requireService(a.Schedule != nil, "schedule"); err != nil {
				return err
			}
			if err := validateOptionalDate(from); err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}

			loc := a.location()
			start := a.now().In(loc)
			start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
			if from != "" {
				start, _ = time.ParseInLocation(domain.DateLayout, from, loc)
			}
			end := start.AddDate(0, 0, days)

			list, err := a.Schedule.ListInstances(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSchedule(list, loc))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&days, "days", 7, "number of days to show")
	return cmd
}

func newDoneCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "done INSTANCE_ID",
		Short: "Mark a scheduled instance completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := s.App()
			if err := requireService(a.Schedule != nil, "schedule"); err != nil {
				return err
			}
			if err := a.Schedule.Complete(cmd.Context(), args[0], a.now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s completed\n",
				formatter.StyleGreen.Render("✔"), formatter.TruncID(args[0]))
			return nil
		},
	}
}
