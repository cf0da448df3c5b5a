package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/balkashynov/daybook/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export todos, tasks, sessions and categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			doc, err := export.Build(cmd.Context(), a.stores, a.now())
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return export.Write(cmd.OutOrStdout(), doc, format)
			}

			f, err := a.fs.OpenFile(output, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := export.Write(f, doc, format); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			printf(cmd.ErrOrStderr(), "📦 Exported %d todos and %d tasks to %s\n", len(doc.Todos), len(doc.Tasks), output)
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "json", "output format: json|yaml")
	cmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	return cmd
}
