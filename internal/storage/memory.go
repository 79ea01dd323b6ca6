// Package storage provides the in-memory persistence backing the
// development server: users and link mappings, indexed by id and by
// short code.
package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nanolink/nanolink/internal/models"
)

// Sentinel errors returned by the store.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// MemoryStore keeps all server state in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	users  map[string]models.User         // keyed by username
	links  map[string]models.LinkActivity // keyed by record id
	byCode map[string]string              // short code -> record id
	order  []string                       // record ids in creation order
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]models.User),
		links:  make(map[string]models.LinkActivity),
		byCode: make(map[string]string),
	}
}

// CreateUser stores a new user. Returns ErrConflict if the username is
// taken.
func (m *MemoryStore) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[username]; exists {
		return nil, ErrConflict
	}
	user := models.User{ID: uuid.NewString(), Username: username, Password: password}
	m.users[username] = user
	return &user, nil
}

// UserByUsername fetches a user by login name.
func (m *MemoryStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.users[username]
	if !exists {
		return nil, ErrNotFound
	}
	return &user, nil
}

// CreateLink stores a new mapping, assigning its id. Returns ErrConflict
// if the short code is already taken.
func (m *MemoryStore) CreateLink(ctx context.Context, link models.LinkActivity) (*models.LinkActivity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byCode[link.ShortCode]; exists {
		return nil, ErrConflict
	}
	link.ID = uuid.NewString()
	m.links[link.ID] = link
	m.byCode[link.ShortCode] = link.ID
	m.order = append(m.order, link.ID)
	return &link, nil
}

// LinkByCode fetches a mapping by short code.
func (m *MemoryStore) LinkByCode(ctx context.Context, code string) (*models.LinkActivity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id, exists := m.byCode[code]
	if !exists {
		return nil, ErrNotFound
	}
	link := m.links[id]
	return &link, nil
}

// LinksByUser returns all mappings owned by userID in creation order.
func (m *MemoryStore) LinksByUser(ctx context.Context, userID string) ([]models.LinkActivity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.LinkActivity, 0)
	for _, id := range m.order {
		if link, ok := m.links[id]; ok && link.UserID == userID {
			out = append(out, link)
		}
	}
	return out, nil
}

// DeleteLink removes a mapping by record id.
func (m *MemoryStore) DeleteLink(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	link, exists := m.links[id]
	if !exists {
		return ErrNotFound
	}
	delete(m.links, id)
	delete(m.byCode, link.ShortCode)
	for i, ordered := range m.order {
		if ordered == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// IncrementClicks bumps the click counter of a mapping by short code.
func (m *MemoryStore) IncrementClicks(ctx context.Context, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id, exists := m.byCode[code]
	if !exists {
		return ErrNotFound
	}
	link := m.links[id]
	link.Clicks++
	m.links[id] = link
	return nil
}

// DeactivateExpired marks every active mapping whose expiry has passed
// as inactive and returns how many were touched.
func (m *MemoryStore) DeactivateExpired(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	touched := 0
	for id, link := range m.links {
		if link.IsActive && now.After(link.ExpiryDate) {
			link.IsActive = false
			m.links[id] = link
			touched++
		}
	}
	return touched, nil
}
