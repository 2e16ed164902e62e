package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// EditOptions holds flags for the edit command. Only flags the caller set
// replace the stored field; everything else is kept as-is.
type EditOptions struct {
	*RootOptions
	Title        string
	Author       string
	Rating       int
	Tags         string
	Selection    []string
	Impressions  []string
	AffiliateURL string
	StoreURL     string
	CoverImage   string
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <number>",
		Short: "Edit a review in place; its position never changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "book title")
	cmd.Flags().StringVar(&opts.Author, "author", "", "author")
	cmd.Flags().IntVar(&opts.Rating, "rating", 0, "rating 1-5")
	cmd.Flags().StringVar(&opts.Tags, "tags", "", "comma- or space-separated tags, leading # allowed")
	cmd.Flags().StringArrayVar(&opts.Selection, "selection", nil, "why this book was picked (replaces all)")
	cmd.Flags().StringArrayVar(&opts.Impressions, "impression", nil, "impression note (replaces all)")
	cmd.Flags().StringVar(&opts.AffiliateURL, "affiliate-url", "", "affiliate link")
	cmd.Flags().StringVar(&opts.StoreURL, "store-url", "", "alternate store link")
	cmd.Flags().StringVar(&opts.CoverImage, "cover", "", "cover image data URL, empty clears")

	return cmd
}

func runEdit(cmd *cobra.Command, opts *EditOptions, arg string) error {
	number, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("number must be an integer: %q", arg)
	}

	svc, closer, err := opts.newService()
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

	flags := cmd.Flags()
	if flags.Changed("title") {
		rec.Title = opts.Title
	}
	if flags.Changed("author") {
		rec.Author = opts.Author
	}
	if flags.Changed("rating") {
		rec.Rating = opts.Rating
	}
	if flags.Changed("tags") {
		rec.Tags = parseTags(opts.Tags)
	}
	if flags.Changed("selection") {
		rec.Notes.SelectionBackground = opts.Selection
	}
	if flags.Changed("impression") {
		rec.Notes.Impressions = opts.Impressions
	}
	if flags.Changed("affiliate-url") {
		rec.AffiliateURL = opts.AffiliateURL
	}
	if flags.Changed("store-url") {
		rec.AlternateStoreURL = opts.StoreURL
	}
	if flags.Changed("cover") {
		rec.CoverImage = opts.CoverImage
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	stored, err := svc.Update(cmd.Context(), rec.ID, payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated No.%d %q\n", stored.Order, stored.Title)
	return nil
}
