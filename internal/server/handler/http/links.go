package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nanolink/nanolink/internal/models"
	"github.com/nanolink/nanolink/internal/storage"
)

// LinkService defines the interface for link operations required by the
// HTTP handlers.
type LinkService interface {
	// Shorten creates a mapping for the request.
	Shorten(ctx context.Context, req models.ShortenRequest) (*models.ShortenResponse, error)
	// Resolve returns the mapping behind a short code.
	Resolve(ctx context.Context, code string) (*models.LinkActivity, error)
	// Click registers one click and returns the updated mapping.
	Click(ctx context.Context, code string) (*models.LinkActivity, error)
	// UserActivity returns the user's mappings in server order.
	UserActivity(ctx context.Context, userID string) ([]models.LinkActivity, error)
	// Delete removes the mapping with the given record id.
	Delete(ctx context.Context, id string) error
}

// LinkHandler handles HTTP requests for link management and redirects.
type LinkHandler struct {
	// LinkService performs the underlying link operations.
	LinkService LinkService
}

// Shorten handles link creation requests.
func (h *LinkHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	var req models.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &models.APIError{Message: "invalid request", StatusCode: http.StatusBadRequest})
		return
	}

	resp, err := h.LinkService.Shorten(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Activity returns the activity list of the user named in the userId
// query parameter.
func (h *LinkHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, &models.APIError{Message: "userId is required", StatusCode: http.StatusBadRequest})
		return
	}

	list, err := h.LinkService.UserActivity(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// DeleteActivity deletes an activity record by id. Success has an empty
// body.
func (h *LinkHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.LinkService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, &models.APIError{Message: "Link not found", StatusCode: http.StatusNotFound})
			return
		}
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ResolveCode returns the record behind a short code, or 404 when the
// code is unknown or expired.
func (h *LinkHandler) ResolveCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	link, err := h.LinkService.Resolve(r.Context(), code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, &models.APIError{Message: "Link not found", StatusCode: http.StatusNotFound})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// TrackClick registers one click on a short code. The response body is
// empty either way; click accounting is best-effort for callers.
func (h *LinkHandler) TrackClick(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if _, err := h.LinkService.Click(r.Context(), code); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, &models.APIError{Message: "Link not found", StatusCode: http.StatusNotFound})
			return
		}
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Redirect serves GET /{code}: counts the click and answers 302 to the
// destination, or 302 to /welcome when the code does not resolve.
func (h *LinkHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	link, err := h.LinkService.Click(r.Context(), code)
	if err != nil {
		http.Redirect(w, r, "/welcome", http.StatusFound)
		return
	}
	http.Redirect(w, r, link.LongUrl, http.StatusFound)
}
