package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/t-sasaki1124/book-review-portal/internal/view"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Search string
	Tag    string
	Rating int
	Sort   string
	Desc   bool
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the catalog, filtered and sorted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "keyword over title/author/tags/notes")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "exact tag filter")
	cmd.Flags().IntVar(&opts.Rating, "rating", 0, "exact rating filter (1-5)")
	cmd.Flags().StringVar(&opts.Sort, "sort", view.SortOrder, "sort key (order|rating|title|author)")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "sort descending")

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions) error {
	svc, closer, err := opts.newService()
	if err != nil {
		return err
	}
	defer closer()

	items, err := svc.Reload(cmd.Context())
	if err != nil {
		return err
	}

	projected := view.Project(items, view.Query{
		Keyword: opts.Search,
		Tag:     opts.Tag,
		Rating:  opts.Rating,
		Sort:    opts.Sort,
		Desc:    opts.Desc,
	})

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NO.\tRATING\tTITLE\tAUTHOR\tTAGS")
	for _, item := range projected {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			item.Order, stars(item.Rating), item.Title, item.Author, tagList(item.Tags))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d reviews\n", len(projected), len(items))
	return nil
}

func stars(rating int) string {
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func tagList(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "#" + strings.Join(tags, " #")
}
