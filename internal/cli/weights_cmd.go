package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
)

func newWeightsCmd(s *session) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Show how active goals, projects, tasks and habits are weighted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := s.App()
			if err := requireService(a.Weights != nil, "weights"); err != nil {
				return err
			}
			rows, err := a.Weights.Weights(cmd.Context(), a.now())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeights(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	return cmd
}
