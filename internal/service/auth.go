// Package service provides business-logic services for authentication
// and link management, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/nanolink/nanolink/internal/models"
	"github.com/nanolink/nanolink/internal/storage"
)

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// CreateUser creates a new user record with the given credentials.
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	// UserByUsername fetches a user by login name.
	UserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService implements registration and login against an
// AuthRepository.
type AuthService struct {
	repo AuthRepository
}

// NewAuthService constructs an AuthService using the provided repository.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Register creates a new account and returns its session. A taken
// username yields an *models.APIError with a verbatim user message.
func (s *AuthService) Register(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, &models.APIError{
			Message:    "Username and password are required",
			StatusCode: http.StatusBadRequest,
		}
	}

	user, err := s.repo.CreateUser(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, &models.APIError{
				Message:    "Username already exists",
				StatusCode: http.StatusBadRequest,
			}
		}
		return nil, err
	}
	sess := user.Session()
	return &sess, nil
}

// Login checks credentials and returns the session. Unknown users and
// wrong passwords are distinguished deliberately, including a
// registration suggestion for the former.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, &models.APIError{
			Message:    "Username and password required",
			StatusCode: http.StatusBadRequest,
		}
	}

	user, err := s.repo.UserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &models.APIError{
				Message:    "Wrong Username",
				ErrorType:  "USER_NOT_FOUND",
				Suggestion: "Please register first",
				StatusCode: http.StatusNotFound,
			}
		}
		return nil, err
	}
	if user.Password != creds.Password {
		return nil, &models.APIError{
			Message:    "Wrong Password",
			ErrorType:  "WRONG_PASSWORD",
			StatusCode: http.StatusUnauthorized,
		}
	}
	sess := user.Session()
	return &sess, nil
}
