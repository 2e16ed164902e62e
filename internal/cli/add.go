package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
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

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new review at the end of the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "book title (required)")
	cmd.Flags().StringVar(&opts.Author, "author", "", "author")
	cmd.Flags().IntVar(&opts.Rating, "rating", 3, "rating 1-5")
	cmd.Flags().StringVar(&opts.Tags, "tags", "", "comma- or space-separated tags, leading # allowed")
	cmd.Flags().StringArrayVar(&opts.Selection, "selection", nil, "why this book was picked (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Impressions, "impression", nil, "impression note (repeatable)")
	cmd.Flags().StringVar(&opts.AffiliateURL, "affiliate-url", "", "affiliate link")
	cmd.Flags().StringVar(&opts.StoreURL, "store-url", "", "alternate store link")
	cmd.Flags().StringVar(&opts.CoverImage, "cover", "", "cover image data URL")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func runAdd(cmd *cobra.Command, opts *AddOptions) error {
	svc, closer, err := opts.newService()
	if err != nil {
		return err
	}
	defer closer()

	if _, err := svc.Reload(cmd.Context()); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"title":             opts.Title,
		"author":            opts.Author,
		"rating":            opts.Rating,
		"tags":              parseTags(opts.Tags),
		"affiliateUrl":      opts.AffiliateURL,
		"alternateStoreUrl": opts.StoreURL,
		"coverImage":        opts.CoverImage,
		"notes": map[string]any{
			"selectionBackground": opts.Selection,
			"impressions":         opts.Impressions,
		},
	})
	if err != nil {
		return err
	}

	stored, err := svc.Create(cmd.Context(), payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %q as No.%d\n", stored.Title, stored.Order)
	return nil
}

// parseTags splits on commas and spaces and strips a leading #, the same
// loose syntax the edit dialog accepted.
func parseTags(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' '
	})
	tags := []string{}
	for _, f := range fields {
		tag := strings.TrimPrefix(strings.TrimSpace(f), "#")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
