package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewMoveCommand creates the move command, the drag-and-drop equivalent:
// it swaps the display positions of exactly two reviews. It always works
// on the full, order-sorted catalog; there is no filtered view to move
// inside of, which is the precondition the swap relies on.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <number> <target-number>",
		Short: "Swap the positions of two reviews",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("number must be an integer: %q", args[0])
			}
			b, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("number must be an integer: %q", args[1])
			}
			if a == b {
				return nil
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
			recA, err := findByNumber(items, a)
			if err != nil {
				return err
			}
			recB, err := findByNumber(items, b)
			if err != nil {
				return err
			}
			if err := svc.SwapOrders(cmd.Context(), recA.ID, recB.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "swapped No.%d and No.%d\n", a, b)
			return nil
		},
	}
	return cmd
}
