// Package cli is the portal front end: it drives the review engine the way
// the browser client does, one serialized mutation at a time, each followed
// by a reload of the canonical collection.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/t-sasaki1124/book-review-portal/internal/auth"
	"github.com/t-sasaki1124/book-review-portal/internal/platform/recordapi"
	"github.com/t-sasaki1124/book-review-portal/internal/review"
	"github.com/t-sasaki1124/book-review-portal/internal/store"
)

// RootOptions holds the backend selection shared by all commands. The
// backend is chosen once per invocation; no command branches on it again.
type RootOptions struct {
	Backend   string // remote | local | sample
	BaseURL   string
	Owner     string
	TokenFile string
	Database  string
}

// ValidBackends defines the allowed backing-store variants.
var ValidBackends = []string{"remote", "local", "sample"}

// NewRootCommand creates the root command for the portal CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "portal",
		Short: "Personal book review catalog",
		Long:  "Manage a personal catalog of book reviews against a remote record store, a local database, or a read-only sample set.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidBackend(opts.Backend) {
				return fmt.Errorf("invalid backend %q: must be one of %v", opts.Backend, ValidBackends)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", envOr("PORTAL_BACKEND", "local"), "backing store (remote|local|sample)")
	cmd.PersistentFlags().StringVar(&opts.BaseURL, "base-url", os.Getenv("PORTAL_API_URL"), "record API base URL (remote backend)")
	cmd.PersistentFlags().StringVar(&opts.Owner, "user", os.Getenv("PORTAL_USER"), "owner id (remote backend)")
	cmd.PersistentFlags().StringVar(&opts.TokenFile, "token-file", os.Getenv("PORTAL_TOKEN_FILE"), "file holding the bearer token, re-read per request")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", envOr("PORTAL_DB", "portal.db"), "path to the local database (local backend)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewMoveCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// newService builds the engine for the selected backend. The returned
// closer releases the local database when one was opened.
func (o *RootOptions) newService() (*review.Service, func(), error) {
	noop := func() {}
	switch o.Backend {
	case "remote":
		if o.BaseURL == "" {
			return nil, nil, fmt.Errorf("remote backend requires --base-url")
		}
		if o.Owner == "" {
			return nil, nil, fmt.Errorf("remote backend requires --user")
		}
		var tokens auth.TokenSource = auth.StaticToken("")
		if o.TokenFile != "" {
			tokens = auth.FileTokenSource{Path: o.TokenFile}
		}
		client := recordapi.NewClient(o.BaseURL, tokens, 5, recordapi.DefaultMaxAttempts)
		return review.NewService(store.NewRemote(client, o.Owner), o.Owner), noop, nil
	case "local":
		local, err := store.NewLocal(o.Database)
		if err != nil {
			return nil, nil, err
		}
		return review.NewService(local, ""), func() { _ = local.Close() }, nil
	case "sample":
		sample, err := store.NewSample()
		if err != nil {
			return nil, nil, err
		}
		return review.NewService(sample, ""), noop, nil
	default:
		return nil, nil, fmt.Errorf("invalid backend %q", o.Backend)
	}
}

func isValidBackend(backend string) bool {
	for _, b := range ValidBackends {
		if b == backend {
			return true
		}
	}
	return false
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// findByNumber resolves the record number shown in list output. Records
// are addressed by their display position, the same handle the original
// card UI used.
func findByNumber(items []review.Review, number int) (review.Review, error) {
	for _, item := range items {
		if item.Order == number {
			return item, nil
		}
	}
	return review.Review{}, fmt.Errorf("no review with number %d", number)
}
