// Package recordapi is the HTTP client for the backing record store. The
// store throttles aggressively under load, so every call runs behind a rate
// limiter and retries throttling responses with exponential backoff and
// jitter. Anything that is not throttling fails immediately.
package recordapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/t-sasaki1124/book-review-portal/internal/auth"
	"github.com/t-sasaki1124/book-review-portal/internal/review"
)

const (
	// DefaultMaxAttempts bounds a single logical request. The last
	// throttling response within the budget surfaces as the error.
	DefaultMaxAttempts = 8

	// Backoff before retry n is baseDelay*n plus uniform jitter in
	// [0, jitterCeiling).
	defaultBaseDelay     = 500 * time.Millisecond
	defaultJitterCeiling = 250 * time.Millisecond
)

// APIError is a non-success response from the record store, carrying the
// HTTP status and the raw response body.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("record api: status %d: %s", e.Status, e.Body)
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	tokens      auth.TokenSource
	limiter     *rate.Limiter
	maxAttempts int

	baseDelay     time.Duration
	jitterCeiling time.Duration
	sleep         func(context.Context, time.Duration) error
	jitter        func(time.Duration) time.Duration
}

func NewClient(baseURL string, tokens auth.TokenSource, rps float64, maxAttempts int) *Client {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:       strings.TrimRight(baseURL, "/"),
		tokens:        tokens,
		limiter:       rate.NewLimiter(rate.Limit(rps), 1),
		maxAttempts:   maxAttempts,
		baseDelay:     defaultBaseDelay,
		jitterCeiling: defaultJitterCeiling,
		sleep:         sleepContext,
		jitter: func(ceiling time.Duration) time.Duration {
			return time.Duration(rand.Int63n(int64(ceiling)))
		},
	}
}

// ListItems fetches the complete owner-scoped collection. Elements come
// back raw; sanitization is the caller's job.
func (c *Client) ListItems(ctx context.Context, owner string) ([]json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/items", owner, nil)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode item list: %w", err)
	}
	return items, nil
}

// GetItem fetches one record. The store answers null for records that do
// not exist or belong to someone else; both map to review.ErrNotFound.
func (c *Client) GetItem(ctx context.Context, owner, id string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, "/items/"+url.PathEscape(id), owner, nil)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, review.ErrNotFound
	}
	return body, nil
}

// PutItem upserts a record and returns the stored shape, including the id
// the store assigned to a new record.
func (c *Client) PutItem(ctx context.Context, owner string, rec review.Review) (review.Review, error) {
	method, path := http.MethodPost, "/items"
	if rec.ID != "" {
		method, path = http.MethodPut, "/items/"+url.PathEscape(rec.ID)
	}
	body, err := c.do(ctx, method, path, owner, rec)
	if err != nil {
		return review.Review{}, err
	}
	var stored review.Review
	if err := json.Unmarshal(body, &stored); err != nil {
		return review.Review{}, fmt.Errorf("decode stored item: %w", err)
	}
	return stored, nil
}

// DeleteItem removes a record. The store reports success as a body flag,
// false meaning not-found or not-yours.
func (c *Client) DeleteItem(ctx context.Context, owner, id string) (bool, error) {
	body, err := c.do(ctx, http.MethodDelete, "/items/"+url.PathEscape(id), owner, nil)
	if err != nil {
		return false, err
	}
	var result struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return false, fmt.Errorf("decode delete result: %w", err)
	}
	return result.Success, nil
}

// do performs one logical request as a bounded retry loop. Throttling is
// HTTP 429, HTTP 503, or HTTP 500 whose body names a throughput condition;
// everything else non-2xx returns immediately. The Authorization header is
// fetched fresh from the token source on every attempt.
func (c *Client) do(ctx context.Context, method, path, owner string, payload any) (json.RawMessage, error) {
	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}

	target := c.baseURL + path + "?userId=" + url.QueryEscape(owner)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1)*c.baseDelay + c.jitter(c.jitterCeiling)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var bodyReader io.Reader
		if reqBody != nil {
			bodyReader = bytes.NewReader(reqBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
		if err != nil {
			return nil, err
		}
		if reqBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch credential: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return parseBody(respBody), nil
		}

		apiErr := &APIError{Status: resp.StatusCode, Body: string(respBody)}
		if !isThrottled(resp.StatusCode, respBody) {
			return nil, apiErr
		}
		lastErr = apiErr
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", c.maxAttempts, lastErr)
}

// parseBody maps empty and null bodies to an explicit no-content value
// instead of tripping over JSON parsing downstream.
func parseBody(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return json.RawMessage(trimmed)
}

var throttleMarkers = []string{"throughput", "throttl", "rate limit"}

func isThrottled(status int, body []byte) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return true
	case http.StatusInternalServerError:
		text := strings.ToLower(string(body))
		for _, marker := range throttleMarkers {
			if strings.Contains(text, marker) {
				return true
			}
		}
	}
	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
