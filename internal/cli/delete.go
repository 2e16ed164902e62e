package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <number>",
		Short: "Delete a review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("number must be an integer: %q", args[0])
			}

			svc, closer, err := rootOpts.newService()
			if err != nil {
				return err
			}
			defer closer()

			items, err := svc.Reload(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := findByNumber(items, number)
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), rec.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted No.%d %q\n", rec.Order, rec.Title)
			return nil
		},
	}
	return cmd
}
