package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/t-sasaki1124/book-review-portal/internal/review"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Mode string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import reviews from a JSON array",
		Long: `Import reviews from a JSON array. Each element is sanitized on its own;
elements without a title are dropped without aborting the batch.

  append    adds the batch after the existing reviews (default)
  overwrite replaces the whole catalog with the batch, renumbered 1..N`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", string(review.ImportAppend), "merge strategy (append|overwrite)")

	return cmd
}

func runImport(cmd *cobra.Command, opts *ImportOptions, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	svc, closer, err := opts.newService()
	if err != nil {
		return err
	}
	defer closer()

	if _, err := svc.Reload(cmd.Context()); err != nil {
		return err
	}

	count, err := svc.Import(cmd.Context(), data, review.ImportMode(opts.Mode))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d reviews (%s)\n", count, opts.Mode)
	return nil
}
