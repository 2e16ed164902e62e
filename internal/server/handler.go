package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/t-sasaki1124/book-review-portal/internal/httpx"
	"github.com/t-sasaki1124/book-review-portal/internal/review"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes registers the record API on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /items", h.List)
	mux.HandleFunc("POST /items", h.Create)
	mux.HandleFunc("GET /items/{id}", h.Get)
	mux.HandleFunc("PUT /items/{id}", h.Update)
	mux.HandleFunc("DELETE /items/{id}", h.Delete)
}

// owner resolves the requesting owner: the authenticated subject when the
// auth middleware set one, else the userId query parameter.
func owner(r *http.Request) string {
	if o := httpx.OwnerFrom(r); o != "" {
		return o
	}
	return r.URL.Query().Get("userId")
}

// List handles GET /items: the complete owner-scoped collection, as a
// plain JSON array.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	o := owner(r)
	if o == "" {
		httpx.Error(w, http.StatusBadRequest, "userId_required")
		return
	}
	items, err := h.repo.List(r.Context(), o)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "could not load items: "+err.Error())
		return
	}
	if items == nil {
		items = []review.Review{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

// Get handles GET /items/{id}. A record that does not exist, or exists
// under another owner, is answered with literal null, never a hint that
// something is there.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	o := owner(r)
	if o == "" {
		httpx.Error(w, http.StatusBadRequest, "userId_required")
		return
	}
	rec, err := h.repo.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrNotFound) || (err == nil && rec.Owner != o) {
		httpx.JSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "could not load item: "+err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

// Create handles POST /items: normalize the payload, assign a fresh id,
// stamp the owner, store.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, "")
}

// Update handles PUT /items/{id}: an upsert keyed by the path id.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, r.PathValue("id"))
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request, id string) {
	o := owner(r)
	if o == "" {
		httpx.Error(w, http.StatusBadRequest, "userId_required")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "could not read body: "+err.Error())
		return
	}
	rec := review.Coerce(json.RawMessage(body), 0)
	if id != "" {
		rec.ID = id
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.Owner = o
	if err := h.repo.Put(r.Context(), rec); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "could not save item: "+err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /items/{id}. Success is a body flag; a missing or
// foreign record reports {"success": false} rather than an error.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	o := owner(r)
	if o == "" {
		httpx.Error(w, http.StatusBadRequest, "userId_required")
		return
	}
	rec, err := h.repo.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, ErrNotFound) || (err == nil && rec.Owner != o) {
		httpx.JSON(w, http.StatusOK, map[string]bool{"success": false})
		return
	}
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "could not delete item: "+err.Error())
		return
	}
	if err := h.repo.Delete(r.Context(), rec.ID); err != nil {
		httpx.Error(w, http.StatusInternalServerError, "could not delete item: "+err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
