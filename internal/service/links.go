package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/nanolink/nanolink/internal/models"
	"github.com/nanolink/nanolink/internal/storage"
)

const (
	codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 5

	// defaultTTL applies when a shorten request carries no expiry date.
	defaultTTL = 7 * 24 * time.Hour
)

// LinkRepository defines the persistence operations required by the
// LinkService.
type LinkRepository interface {
	// CreateLink stores a new mapping and assigns its id.
	CreateLink(ctx context.Context, link models.LinkActivity) (*models.LinkActivity, error)
	// LinkByCode fetches a mapping by short code.
	LinkByCode(ctx context.Context, code string) (*models.LinkActivity, error)
	// LinksByUser returns all mappings owned by the user.
	LinksByUser(ctx context.Context, userID string) ([]models.LinkActivity, error)
	// DeleteLink removes a mapping by record id.
	DeleteLink(ctx context.Context, id string) error
	// IncrementClicks bumps the click counter of a mapping.
	IncrementClicks(ctx context.Context, code string) error
}

// LinkService implements short-link management against a LinkRepository.
type LinkService struct {
	repo LinkRepository
	// linkBase is the public base address short URLs are built on.
	linkBase string
}

// NewLinkService constructs a LinkService. linkBase is used to assemble
// the shareable short URL returned by Shorten.
func NewLinkService(repo LinkRepository, linkBase string) *LinkService {
	return &LinkService{repo: repo, linkBase: linkBase}
}

// Shorten creates a mapping for the request. A custom code that is
// still live is rejected; an expired or deactivated one is reclaimed.
// Without an expiry date the link lives for seven days.
func (s *LinkService) Shorten(ctx context.Context, req models.ShortenRequest) (*models.ShortenResponse, error) {
	target, err := url.Parse(req.LongUrl)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, &models.APIError{
			Message:    "A valid http(s) URL is required",
			StatusCode: http.StatusBadRequest,
		}
	}

	expiry := time.Now().Add(defaultTTL)
	if req.ExpiryDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiryDate)
		if err != nil {
			return nil, &models.APIError{
				Message:    "Invalid expiry date",
				StatusCode: http.StatusBadRequest,
			}
		}
		expiry = parsed
	}

	code := req.CustomCode
	if code == "" {
		code = generateCode()
	} else if existing, err := s.repo.LinkByCode(ctx, code); err == nil {
		if existing.Status(time.Now()) == models.StatusActive {
			return nil, &models.APIError{
				Message:    "The link already exist",
				StatusCode: http.StatusBadRequest,
			}
		}
		// Expired or deactivated mapping: reclaim the code.
		if err := s.repo.DeleteLink(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("reclaim code %q: %w", code, err)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	link := models.LinkActivity{
		ShortCode:  code,
		LongUrl:    req.LongUrl,
		UserID:     req.UserID,
		Clicks:     0,
		ExpiryDate: expiry,
		IsActive:   true,
	}

	created, err := s.repo.CreateLink(ctx, link)
	for errors.Is(err, storage.ErrConflict) && req.CustomCode == "" {
		// Generated code collided; roll a new one.
		link.ShortCode = generateCode()
		created, err = s.repo.CreateLink(ctx, link)
	}
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, &models.APIError{
				Message:    "The link already exist",
				StatusCode: http.StatusBadRequest,
			}
		}
		return nil, err
	}

	return &models.ShortenResponse{
		ShortUrl:     s.linkBase + "/" + created.ShortCode,
		ShortCode:    created.ShortCode,
		QRCodeBase64: models.QRCodeURL(created.LongUrl, 150),
		Clicks:       created.Clicks,
	}, nil
}

// Resolve returns the mapping behind a short code, treating expired
// mappings as absent.
func (s *LinkService) Resolve(ctx context.Context, code string) (*models.LinkActivity, error) {
	link, err := s.repo.LinkByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if time.Now().After(link.ExpiryDate) {
		return nil, storage.ErrNotFound
	}
	return link, nil
}

// Click registers one click and returns the updated mapping. Expired or
// deactivated mappings do not count clicks and resolve as absent.
func (s *LinkService) Click(ctx context.Context, code string) (*models.LinkActivity, error) {
	link, err := s.repo.LinkByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if link.Status(time.Now()) != models.StatusActive {
		return nil, storage.ErrNotFound
	}
	if err := s.repo.IncrementClicks(ctx, code); err != nil {
		return nil, err
	}
	link.Clicks++
	return link, nil
}

// UserActivity returns the user's mappings in server order.
func (s *LinkService) UserActivity(ctx context.Context, userID string) ([]models.LinkActivity, error) {
	return s.repo.LinksByUser(ctx, userID)
}

// Delete removes the mapping with the given record id.
func (s *LinkService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteLink(ctx, id)
}

func generateCode() string {
	buf := make([]byte, codeLength)
	for i := range buf {
		buf[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(buf)
}
