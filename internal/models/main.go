// Package models defines the core data structures shared by the client
// and the development server: sessions, link activity records and the
// request/response shapes of the API boundary.
package models

import (
	"fmt"
	"net/url"
	"time"
)

// Session identifies the signed-in user. At most one session is live per
// process; it is owned by the client session store and handed to other
// components by read-only value.
type Session struct {
	// ID is the opaque server-issued user identifier.
	ID string `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
}

// Status is the client-computed ACTIVE/EXPIRED classification of a link.
type Status string

const (
	// StatusActive marks a link that still resolves.
	StatusActive Status = "ACTIVE"
	// StatusExpired marks a link that is past its expiry date or was
	// deactivated server-side.
	StatusExpired Status = "EXPIRED"
)

// LinkActivity is one entry of a user's link activity list.
type LinkActivity struct {
	// ID is the stable identity of the record.
	ID string `json:"id"`
	// ShortCode is the human-facing compact identifier of the link.
	ShortCode string `json:"shortCode"`
	// LongUrl is the destination the short code resolves to.
	LongUrl string `json:"longUrl"`
	// Clicks is the server-side click counter. The client never
	// increments it locally.
	Clicks int64 `json:"clicks"`
	// ExpiryDate is the moment the link stops resolving.
	ExpiryDate time.Time `json:"expiryDate"`
	// IsActive is the server-side active flag.
	IsActive bool `json:"isActive"`
	// UserID is the opaque identifier of the owning user, if any.
	UserID string `json:"userId,omitempty"`
}

// Status derives the effective status of the record at the given moment.
// A record with IsActive=false is EXPIRED regardless of its expiry date;
// the client never independently marks a record active.
func (l LinkActivity) Status(now time.Time) Status {
	if now.After(l.ExpiryDate) {
		return StatusExpired
	}
	if l.IsActive {
		return StatusActive
	}
	return StatusExpired
}

// ShortenRequest is the payload for creating a short link.
type ShortenRequest struct {
	LongUrl    string `json:"longUrl"`
	CustomCode string `json:"customCode,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	UserID     string `json:"userId"`
}

// ShortenResponse is the server's answer to a successful shorten call.
type ShortenResponse struct {
	ShortUrl     string `json:"shortUrl"`
	ShortCode    string `json:"shortCode"`
	QRCodeBase64 string `json:"qrCodeBase64"`
	Clicks       int64  `json:"clicks"`
}

// Credentials is the payload for login and register calls.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is a registered account as stored by the server.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// Password is the stored password.
	Password string `json:"-"`
}

// Session converts the stored user into the session shape handed to the
// client on successful login or registration.
func (u User) Session() Session {
	return Session{ID: u.ID, Username: u.Username}
}

// APIError is the error body the server attaches to non-2xx responses.
// Auth failures may carry a machine-readable type and a disambiguation
// hint beyond the message; the whole body is propagated unmodified.
type APIError struct {
	Message    string `json:"message"`
	ErrorType  string `json:"errorType,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	// StatusCode is the HTTP status the body arrived with.
	StatusCode int `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server error: status %d", e.StatusCode)
}

// QRCodeURL builds the external image-service URL that renders a QR code
// for the given destination. QR image generation is delegated entirely to
// that service; the client only constructs the URL.
func QRCodeURL(data string, size int) string {
	return fmt.Sprintf("https://api.qrserver.com/v1/create-qr-code/?size=%dx%d&data=%s",
		size, size, url.QueryEscape(data))
}
