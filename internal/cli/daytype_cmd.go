package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/cli/formatter"
)

func newDayTypeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daytype",
		Aliases: []string{"dt"},
		Short:   "Manage day types, their time blocks and date assignments",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return requireService(s.App().DayTypes != nil, "day types")
		},
	}

	cmd.AddCommand(
		newDayTypeCreateCmd(s),
		newDayTypeAddBlockCmd(s),
		newDayTypeAssignCmd(s),
		newDayTypeShowCmd(s),
		newDayTypeListCmd(s),
	)
	return cmd
}

func newDayTypeCreateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty day type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := s.App().DayTypes.CreateDayType(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created day type %s %s\n",
				formatter.Bold(view.Name), formatter.TruncID(view.ID))
			return nil
		},
	}
}

func newDayTypeAddBlockCmd(s *session) *cobra.Command {
	var req app.AddTimeBlockRequest

	cmd := &cobra.Command{
		Use:   "add-block DAYTYPE",
		Short: "Add a time block to a day type",
		Long: `Add a time block to a day type.

Times are local HH:MM; an end before the start wraps past midnight.
When run in a terminal without --label, --start or --end, a form asks
for the missing fields.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := s.App()
			req.DayTypeName = args[0]

			if req.Label == "" || req.StartLocal == "" || req.EndLocal == "" {
				if !a.interactive() {
					return fmt.Errorf("--label, --start and --end are required")
				}
				if err := timeBlockForm(&req).RunWithContext(cmd.Context()); err != nil {
					return err
				}
			}

			view, err := a.DayTypes.AddTimeBlock(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBlockCreated(req.DayTypeName, view))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Label, "label", "", "block label")
	f.StringVar(&req.StartLocal, "start", "", "local start time (HH:MM)")
	f.StringVar(&req.EndLocal, "end", "", "local end time (HH:MM)")
	f.StringVar(&req.BlockType, "type", "FOCUS", "block type (FOCUS|PRACTICE|BREAK)")
	f.StringVar(&req.Energy, "energy", "MEDIUM", "energy available (NO|LOW|MEDIUM|HIGH|ULTRA|EXTREME)")
	f.StringVar(&req.Location, "location", "", "location tag")
	f.StringVar(&req.Days, "days", "", "weekday filter, e.g. mon,tue,wed (blank for every day)")

	return cmd
}

func newDayTypeAssignCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "assign DATE DAYTYPE",
		Short: "Use a day type for a calendar date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.App().DayTypes.AssignDate(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now uses %s\n", args[0], formatter.Bold(args[1]))
			return nil
		},
	}
}

func newDayTypeShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show the composed 24h layout of a day type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := s.App().DayTypes.Compose(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDayType(view))
			return nil
		},
	}
}

func newDayTypeListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List day types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := s.App().DayTypes.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDayTypeList(list))
			return nil
		},
	}
}
