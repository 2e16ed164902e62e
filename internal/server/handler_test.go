package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-sasaki1124/book-review-portal/internal/httpx"
	"github.com/t-sasaki1124/book-review-portal/internal/review"
)

func newTestMux(repo Repository) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(repo).Routes(mux)
	return mux
}

func seedRepo(t *testing.T, repo Repository, recs ...review.Review) {
	t.Helper()
	for _, rec := range recs {
		require.NoError(t, repo.Put(context.Background(), rec))
	}
}

func TestListItems(t *testing.T) {
	repo := NewMemoryRepo()
	seedRepo(t, repo,
		review.Review{ID: "a", Owner: "alice", Title: "Mine", Order: 1},
		review.Review{ID: "b", Owner: "bob", Title: "His", Order: 1},
	)
	mux := newTestMux(repo)

	t.Run("returns only the owner's records", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?userId=alice", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var items []review.Review
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, "a", items[0].ID)
	})

	t.Run("unknown owner gets an empty array, not null", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?userId=nobody", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})

	t.Run("missing owner is a 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "userId_required")
	})

	t.Run("authenticated subject overrides the query parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items?userId=bob", nil)
		req = req.WithContext(httpx.ContextWithOwner(req.Context(), "alice"))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var items []review.Review
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, "a", items[0].ID)
	})
}

func TestGetItem(t *testing.T) {
	repo := NewMemoryRepo()
	seedRepo(t, repo, review.Review{ID: "a", Owner: "alice", Title: "Mine", Order: 1})
	mux := newTestMux(repo)

	t.Run("own record comes back", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/a?userId=alice", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var got review.Review
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Mine", got.Title)
	})

	t.Run("foreign record reads as null", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/a?userId=bob", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
	})

	t.Run("missing record reads as null", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/zzz?userId=alice", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
	})
}

func TestCreateItem(t *testing.T) {
	repo := NewMemoryRepo()
	mux := newTestMux(repo)

	t.Run("assigns id and stamps owner", func(t *testing.T) {
		body := strings.NewReader(`{"title":"New","order":1,"owner":"mallory"}`)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items?userId=alice", body))
		require.Equal(t, http.StatusOK, rec.Code)

		var got review.Review
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, "alice", got.Owner, "claimed owner in the payload is ignored")

		stored, err := repo.Get(context.Background(), got.ID)
		require.NoError(t, err)
		assert.Equal(t, "New", stored.Title)
	})

	t.Run("malformed payload is normalized, not rejected", func(t *testing.T) {
		body := strings.NewReader(`{"title": 42, "rating": "nonsense", "tags": "oops"}`)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items?userId=alice", body))
		require.Equal(t, http.StatusOK, rec.Code)

		var got review.Review
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "42", got.Title)
		assert.Equal(t, 3, got.Rating)
		assert.Equal(t, []string{}, got.Tags)
	})
}

func TestUpdateItem(t *testing.T) {
	repo := NewMemoryRepo()
	seedRepo(t, repo, review.Review{ID: "a", Owner: "alice", Title: "Old", Order: 2})
	mux := newTestMux(repo)

	body := strings.NewReader(`{"id":"spoofed","title":"Updated","order":2}`)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/items/a?userId=alice", body))
	require.Equal(t, http.StatusOK, rec.Code)

	var got review.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "a", got.ID, "path id wins over a payload id")
	assert.Equal(t, "Updated", got.Title)
}

func TestDeleteItem(t *testing.T) {
	repo := NewMemoryRepo()
	seedRepo(t, repo,
		review.Review{ID: "a", Owner: "alice", Title: "Mine", Order: 1},
		review.Review{ID: "b", Owner: "bob", Title: "His", Order: 1},
	)
	mux := newTestMux(repo)

	deleteReq := func(path string) map[string]bool {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var result map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		return result
	}

	t.Run("own record deletes with success true", func(t *testing.T) {
		assert.Equal(t, map[string]bool{"success": true}, deleteReq("/items/a?userId=alice"))
		_, err := repo.Get(context.Background(), "a")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("foreign record reports success false and survives", func(t *testing.T) {
		assert.Equal(t, map[string]bool{"success": false}, deleteReq("/items/b?userId=alice"))
		_, err := repo.Get(context.Background(), "b")
		assert.NoError(t, err)
	})

	t.Run("missing record reports success false", func(t *testing.T) {
		assert.Equal(t, map[string]bool{"success": false}, deleteReq("/items/zzz?userId=alice"))
	})
}
