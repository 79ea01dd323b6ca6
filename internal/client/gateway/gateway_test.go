package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nanolink/nanolink/internal/models"
)

// roundTripperFunc lets a plain function stand in for an http.Client
// transport.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *http.Client {
	return &http.Client{Transport: fn, Timeout: time.Second}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestActivity_Success(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodGet {
			t.Errorf("method = %s; want GET", req.Method)
		}
		if req.URL.String() != "http://example.com/api/activity?userId=u1" {
			t.Errorf("unexpected URL: %s", req.URL)
		}
		return jsonResponse(http.StatusOK,
			`[{"id":"a","shortCode":"abc12","longUrl":"https://example.com","clicks":3,"expiryDate":"2027-01-01T00:00:00Z","isActive":true}]`), nil
	})

	gw := New(client, "http://example.com/api", zap.NewNop())
	list, err := gw.Activity(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != "a" || list[0].Clicks != 3 {
		t.Errorf("list = %+v", list)
	}
}

func TestActivity_NetworkError(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	})

	gw := New(client, "http://example.com/api", zap.NewNop())
	_, err := gw.Activity(context.Background(), "u1")
	if err == nil || !strings.Contains(err.Error(), "request failed") {
		t.Errorf("expected network failure, got %v", err)
	}
}

func TestActivity_InvalidJSON(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "not-json"), nil
	})

	gw := New(client, "http://example.com/api", zap.NewNop())
	_, err := gw.Activity(context.Background(), "u1")
	if err == nil || !strings.Contains(err.Error(), "invalid response") {
		t.Errorf("expected decode error, got %v", err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"message":"Link not found"}`), nil
	})

	gw := New(client, "http://example.com/api", zap.NewNop())
	_, err := gw.Resolve(context.Background(), "dead")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v; want ErrNotFound", err)
	}
}

func TestResolve_Success(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/url/abc123" {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{"id":"a","shortCode":"abc123","longUrl":"https://example.com","isActive":true}`), nil
	})

	gw := New(client, "http://example.com/api", zap.NewNop())
	rec, err := gw.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.LongUrl != "https://example.com" {
		t.Errorf("rec = %+v", rec)
	}
}

func TestTrackClick(t *testing.T) {
	var path, method string
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		path = req.URL.Path
		method = req.Method
		return jsonResponse(http.StatusOK, ""), nil
	})

	gw := New(client, "http://example.com/api", zap.NewNop())
	if err := gw.TrackClick(context.Background(), "abc123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != http.MethodPost || path != "/api/click/abc123" {
		t.Errorf("request = %s %s; want POST /api/click/abc123", method, path)
	}
}

func TestLogin_ErrorBodyPropagatedUnmodified(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound,
			`{"message":"Wrong Username","errorType":"USER_NOT_FOUND","suggestion":"Please register first"}`), nil
	})

	gw := New(client, "http://example.com/api", zap.NewNop())
	_, err := gw.Login(context.Background(), models.Credentials{Username: "ghost", Password: "pw"})

	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v; want *models.APIError", err)
	}
	if apiErr.Message != "Wrong Username" || apiErr.ErrorType != "USER_NOT_FOUND" ||
		apiErr.Suggestion != "Please register first" || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("error body mangled: %+v", apiErr)
	}
}

func TestShorten_SendsPayloadAndDecodes(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/shorten" {
			t.Errorf("unexpected path: %s", req.URL.Path)
		}
		if ct := req.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		var payload models.ShortenRequest
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request failed: %v", err)
		}
		if payload.LongUrl != "https://example.com" || payload.UserID != "u1" {
			t.Errorf("unexpected payload: %+v", payload)
		}
		return jsonResponse(http.StatusOK,
			`{"shortUrl":"http://nano.link/abc12","shortCode":"abc12","qrCodeBase64":"qr","clicks":0}`), nil
	})

	gw := New(client, "http://example.com/api", zap.NewNop())
	resp, err := gw.Shorten(context.Background(), models.ShortenRequest{LongUrl: "https://example.com", UserID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ShortCode != "abc12" || resp.ShortUrl != "http://nano.link/abc12" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestShorten_ServerMessageVerbatim(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"message":"The link already exist"}`), nil
	})

	gw := New(client, "http://example.com/api", zap.NewNop())
	_, err := gw.Shorten(context.Background(), models.ShortenRequest{LongUrl: "https://example.com", UserID: "u1"})
	if err == nil || err.Error() != "The link already exist" {
		t.Errorf("err = %v; want server message verbatim", err)
	}
}

func TestDeleteActivity(t *testing.T) {
	var method, path string
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		method = req.Method
		path = req.URL.Path
		return jsonResponse(http.StatusOK, ""), nil
	})

	gw := New(client, "http://example.com/api", zap.NewNop())
	if err := gw.DeleteActivity(context.Background(), "rec-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if method != http.MethodDelete || path != "/api/activity/rec-1" {
		t.Errorf("request = %s %s; want DELETE /api/activity/rec-1", method, path)
	}
}
