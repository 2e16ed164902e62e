package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-sasaki1124/book-review-portal/internal/auth"
	"github.com/t-sasaki1124/book-review-portal/internal/httpx"
	"github.com/t-sasaki1124/book-review-portal/internal/platform/recordapi"
	"github.com/t-sasaki1124/book-review-portal/internal/review"
	"github.com/t-sasaki1124/book-review-portal/internal/server"
)

const testSecret = "e2e-secret"

// startRecordAPI runs the real record API on an in-process listener: auth
// and per-client rate limiting in front of the handler, backed by the
// in-memory repository.
func startRecordAPI(t *testing.T, rps float64, burst int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	server.NewHandler(server.NewMemoryRepo()).Routes(mux)

	var h http.Handler = mux
	h = httpx.NewRateLimitMiddleware(rps, burst).Middleware(h)
	h = httpx.AuthMiddleware(testSecret)(h)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func newRemoteService(t *testing.T, baseURL, owner string) *review.Service {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, owner, time.Hour)
	require.NoError(t, err)
	client := recordapi.NewClient(baseURL, auth.StaticToken(token), 1000, recordapi.DefaultMaxAttempts)
	return review.NewService(NewRemote(client, owner), owner)
}

func TestRemoteEndToEnd(t *testing.T) {
	srv := startRecordAPI(t, 1000, 100)
	ctx := context.Background()
	svc := newRemoteService(t, srv.URL, "alice")

	items, err := svc.Reload(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	created, err := svc.Create(ctx, []byte(`{"title":"Snow Country","author":"川端康成","rating":5,"tags":["古典"]}`))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, created.Order)

	second, err := svc.Create(ctx, []byte(`{"title":"Kokoro"}`))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order)

	_, err = svc.Update(ctx, created.ID, []byte(`{"title":"Snow Country","rating":4}`))
	require.NoError(t, err)

	require.NoError(t, svc.SwapOrders(ctx, created.ID, second.ID))
	byTitle := map[string]int{}
	for _, rec := range svc.Items() {
		byTitle[rec.Title] = rec.Order
	}
	assert.Equal(t, map[string]int{"Snow Country": 2, "Kokoro": 1}, byTitle)

	require.NoError(t, svc.Delete(ctx, second.ID))
	require.Len(t, svc.Items(), 1)
	assert.Equal(t, 4, svc.Items()[0].Rating)
}

func TestRemoteOwnerIsolation(t *testing.T) {
	srv := startRecordAPI(t, 1000, 100)
	ctx := context.Background()

	alice := newRemoteService(t, srv.URL, "alice")
	bob := newRemoteService(t, srv.URL, "bob")

	created, err := alice.Create(ctx, []byte(`{"title":"Alice's book"}`))
	require.NoError(t, err)

	items, err := bob.Reload(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "bob never sees alice's records")

	// a foreign delete reports not-found and leaves the record alone
	err = bob.Delete(ctx, created.ID)
	assert.Error(t, err)

	items, err = alice.Reload(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

// The client's backoff loop rides out the server's own 429 responses; a
// burst that trips the limiter still completes once the retries spread out.
func TestRemoteRidesOutServerThrottling(t *testing.T) {
	srv := startRecordAPI(t, 50, 1)
	ctx := context.Background()
	svc := newRemoteService(t, srv.URL, "alice")

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, []byte(`{"title":"Burst"}`))
		require.NoError(t, err)
	}
	assert.Len(t, svc.Items(), 5)
}

func TestRemoteDeleteNotFound(t *testing.T) {
	srv := startRecordAPI(t, 1000, 100)
	svc := newRemoteService(t, srv.URL, "alice")

	err := svc.Delete(context.Background(), "never-existed")
	assert.ErrorIs(t, err, review.ErrNotFound)
}
