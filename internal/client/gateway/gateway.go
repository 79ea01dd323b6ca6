// Package gateway is a uniform request/response wrapper around the
// backend API. It owns JSON encoding, error-body decoding and nothing
// else; all navigation, persistence and merge decisions live in the
// components consuming it.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/nanolink/nanolink/internal/models"
)

// ErrNotFound reports that the requested entity does not exist or is no
// longer served.
var ErrNotFound = errors.New("not found")

// Gateway issues typed requests against the backend API.
type Gateway struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

// New constructs a Gateway. baseURL is the API root without a trailing
// slash, e.g. "http://localhost:8080/api".
func New(client *http.Client, baseURL string, log *zap.Logger) *Gateway {
	return &Gateway{client: client, baseURL: baseURL, log: log}
}

// Shorten creates a new short link. Server-side validation failures are
// returned as *models.APIError with the server's message verbatim.
func (g *Gateway) Shorten(ctx context.Context, req models.ShortenRequest) (*models.ShortenResponse, error) {
	var out models.ShortenResponse
	if err := g.doJSON(ctx, http.MethodPost, "/shorten", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activity fetches the full activity list for the given user. Ordering
// is server-determined and preserved as received.
func (g *Gateway) Activity(ctx context.Context, userID string) ([]models.LinkActivity, error) {
	var out []models.LinkActivity
	path := "/activity?userId=" + url.QueryEscape(userID)
	if err := g.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteActivity deletes the activity record with the given id.
func (g *Gateway) DeleteActivity(ctx context.Context, id string) error {
	return g.doJSON(ctx, http.MethodDelete, "/activity/"+url.PathEscape(id), nil, nil)
}

// Resolve looks up the record behind a short code. A 404 is reported as
// ErrNotFound.
func (g *Gateway) Resolve(ctx context.Context, code string) (*models.LinkActivity, error) {
	var out models.LinkActivity
	if err := g.doJSON(ctx, http.MethodGet, "/url/"+url.PathEscape(code), nil, &out); err != nil {
		var apiErr *models.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// TrackClick registers one click on the short code. The response body is
// empty; callers treat this as best-effort.
func (g *Gateway) TrackClick(ctx context.Context, code string) error {
	return g.doJSON(ctx, http.MethodPost, "/click/"+url.PathEscape(code), nil, nil)
}

// Login authenticates the user. On failure the entire error body,
// including any errorType and suggestion fields, is propagated to the
// caller unmodified.
func (g *Gateway) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	var out models.Session
	if err := g.doJSON(ctx, http.MethodPost, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account and returns its session.
func (g *Gateway) Register(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	var out models.Session
	if err := g.doJSON(ctx, http.MethodPost, "/auth/register", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON issues one request and decodes the response into out when out
// is non-nil. Non-2xx responses are decoded into *models.APIError.
func (g *Gateway) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return g.decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into *models.APIError, keeping
// the server's body intact when it is parseable.
func (g *Gateway) decodeError(resp *http.Response) error {
	apiErr := &models.APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
		g.log.Debug("unparseable error body", zap.Int("status", resp.StatusCode), zap.Error(err))
	}
	return apiErr
}
