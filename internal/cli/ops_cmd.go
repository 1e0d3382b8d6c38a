package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
	"github.com/alexanderramin/tempo/internal/ops"
)

func newOpsCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "Apply or export day type operations",
	}
	cmd.AddCommand(newOpsApplyCmd(s), newOpsExportCmd(s))
	return cmd
}

func newOpsApplyCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "apply FILE",
		Short: "Apply a YAML or JSON ops batch atomically (\"-\" reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := s.App()
			if err := requireService(a.Ops != nil, "ops"); err != nil {
				return err
			}

			var r io.Reader
			if args[0] == "-" {
				r = cmd.InOrStdin()
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening ops file: %w", err)
				}
				defer f.Close()
				r = f
			}

			batch, err := ops.Decode(r)
			if err != nil {
				return err
			}
			res, err := a.Ops.Apply(cmd.Context(), batch)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatApplyResult(res))
			return nil
		},
	}
}

func newOpsExportCmd(s *session) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [DAYTYPE]",
		Short: "Print the ops that rebuild one or all day types",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := s.App()
			if err := requireService(a.Ops != nil, "ops"); err != nil {
				return err
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			list, err := a.Ops.Export(cmd.Context(), name)
			if err != nil {
				return err
			}
			return ops.Encode(cmd.OutOrStdout(), list, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml|json)")
	return cmd
}
