package auth

import (
	"context"
	"os"
	"strings"
)

// TokenSource supplies the bearer credential for record-store calls. The
// client consults it immediately before every request, never caching the
// result, so a credential refreshed mid-session takes effect on the next
// call. An empty token means "no credential": the request goes out without
// an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed credential.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// FileTokenSource re-reads a token file on every call. External tooling can
// rotate the file and the running session picks the new credential up
// transparently. A missing file is an absent credential, not an error.
type FileTokenSource struct {
	Path string
}

func (f FileTokenSource) Token(context.Context) (string, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
