package cli

import (
	"github.com/spf13/cobra"
)

func newServeCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and the MCP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := s.App()
			if err := requireService(a.Serve != nil, "serve"); err != nil {
				return err
			}
			return a.Serve(cmd.Context(), s.v.GetString("addr"))
		},
	}

	cmd.Flags().String("addr", "", "listen address (default from config, env TEMPO_ADDR)")
	bindFlags(s.v, cmd.Flags(), "addr")
	return cmd
}
