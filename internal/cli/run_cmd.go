package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempo/internal/app"
	"github.com/alexanderramin/tempo/internal/cli/formatter"
)

func newRunCmd(s *session) *cobra.Command {
	var (
		days   int
		debug  bool
		dryRun bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Place active work into the coming days",
		Long: `Run the scheduler from today forward.

Items are weighted, sorted heaviest first and placed into the composed
segments of each day. With --days 0 the run is computed but nothing is
written; otherwise open instances in the window are replaced.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := s.App()
			if err := requireService(a.Scheduler != nil, "scheduler"); err != nil {
				return err
			}

			req := app.NewRunSchedulerRequest(days)
			req.Debug = debug
			req.DryRun = dryRun
			now := a.now()
			req.Now = &now

			resp, err := a.Scheduler.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			fmt.Fprint(out, formatter.FormatRun(resp, a.location()))
			if resp.Debug != nil && resp.Debug.Fatal != "" {
				return fmt.Errorf("scheduler run aborted: %s", resp.Debug.Fatal)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "days to write through (0 computes without writing)")
	cmd.Flags().BoolVar(&debug, "debug", false, "include the placement trace")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute without writing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw response as JSON")

	return cmd
}
