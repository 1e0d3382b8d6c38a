package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/tempo/internal/cli/formatter"
)

func newImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import goals, habits and day types from a YAML or JSON snapshot",
		Long: `Import a snapshot file in one transaction.

The snapshot must be self-contained: references resolve only against
entities declared in the same file. Nothing is written when any entry
fails validation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := s.App()
			if err := requireService(a.Import != nil, "import"); err != nil {
				return err
			}
			res, err := a.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImportResult(res))
			return nil
		},
	}
}
