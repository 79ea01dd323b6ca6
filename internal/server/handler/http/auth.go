// Package http provides the HTTP handlers of the development server:
// authentication, link management and redirecting.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nanolink/nanolink/internal/models"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a new account and returns its session.
	Register(ctx context.Context, creds models.Credentials) (*models.Session, error)
	// Login checks credentials and returns the session.
	Login(ctx context.Context, creds models.Credentials) (*models.Session, error)
}

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// Register handles user registration requests. It expects a JSON body
// with username and password and responds with the new session.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, &models.APIError{Message: "invalid request", StatusCode: http.StatusBadRequest})
		return
	}

	sess, err := h.AuthService.Register(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Login handles login requests. Failure bodies carry the full error
// shape, including errorType and suggestion where applicable.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, &models.APIError{Message: "invalid request", StatusCode: http.StatusBadRequest})
		return
	}

	sess, err := h.AuthService.Login(r.Context(), creds)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err as a JSON error body. Unexpected errors become
// an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		apiErr = &models.APIError{Message: "internal error", StatusCode: http.StatusInternalServerError}
	}
	writeJSON(w, apiErr.StatusCode, apiErr)
}
