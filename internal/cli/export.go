package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the catalog as pretty-printed JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closer, err := rootOpts.newService()
			if err != nil {
				return err
			}
			defer closer()

			if _, err := svc.Reload(cmd.Context()); err != nil {
				return err
			}
			data, err := svc.Export()
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if len(args) == 1 {
				if err := os.WriteFile(args[0], data, 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", args[0])
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	return cmd
}
