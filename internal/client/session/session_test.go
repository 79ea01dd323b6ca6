package session

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/nanolink/nanolink/internal/models"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return NewStore(path, zap.NewNop()), path
}

func TestRestore_NoFile(t *testing.T) {
	store, _ := newTestStore(t)
	store.Restore()
	if store.Current() != nil {
		t.Errorf("expected no session, got %+v", store.Current())
	}
}

func TestLoginPersistsAcrossRestart(t *testing.T) {
	store, path := newTestStore(t)
	store.Login(models.Session{ID: "u1", Username: "alice"})

	// A fresh store over the same file plays the role of a restarted process.
	restarted := NewStore(path, zap.NewNop())
	restarted.Restore()
	sess := restarted.Current()
	if sess == nil || sess.ID != "u1" || sess.Username != "alice" {
		t.Fatalf("restored session = %+v; want u1/alice", sess)
	}
}

func TestLogoutPersistsAcrossRestart(t *testing.T) {
	store, path := newTestStore(t)
	store.Login(models.Session{ID: "u1", Username: "alice"})
	store.Logout()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected session file removed, stat err = %v", err)
	}

	restarted := NewStore(path, zap.NewNop())
	restarted.Restore()
	if restarted.Current() != nil {
		t.Errorf("expected no session after logout, got %+v", restarted.Current())
	}
}

func TestLastLoginWins(t *testing.T) {
	store, path := newTestStore(t)
	store.Login(models.Session{ID: "u1", Username: "alice"})
	store.Login(models.Session{ID: "u2", Username: "bob"})

	restarted := NewStore(path, zap.NewNop())
	restarted.Restore()
	sess := restarted.Current()
	if sess == nil || sess.ID != "u2" {
		t.Fatalf("restored session = %+v; want the last login", sess)
	}
}

func TestRestore_CorruptFilePurged(t *testing.T) {
	store, path := newTestStore(t)
	if err := os.WriteFile(path, []byte("not-json{"), 0o600); err != nil {
		t.Fatal(err)
	}

	store.Restore()
	if store.Current() != nil {
		t.Errorf("expected corrupt state to degrade to no session, got %+v", store.Current())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected corrupt file purged, stat err = %v", err)
	}
}

func TestRestore_MissingIDTreatedAsCorrupt(t *testing.T) {
	store, path := newTestStore(t)
	if err := os.WriteFile(path, []byte(`{"username":"ghost"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	store.Restore()
	if store.Current() != nil {
		t.Errorf("expected session without id to be rejected, got %+v", store.Current())
	}
}

func TestSubscribersNotifiedSynchronously(t *testing.T) {
	store, _ := newTestStore(t)

	var got []*models.Session
	store.Subscribe(func(sess *models.Session) {
		got = append(got, sess)
	})

	store.Login(models.Session{ID: "u1", Username: "alice"})
	if len(got) != 1 || got[0] == nil || got[0].ID != "u1" {
		t.Fatalf("after login notifications = %+v; want one with u1", got)
	}

	store.Logout()
	if len(got) != 2 || got[1] != nil {
		t.Fatalf("after logout notifications = %+v; want trailing nil", got)
	}
}

func TestListenerMayReadStore(t *testing.T) {
	store, _ := newTestStore(t)

	var seen *models.Session
	store.Subscribe(func(*models.Session) {
		// Reading back during notification must not deadlock.
		seen = store.Current()
	})

	store.Login(models.Session{ID: "u1", Username: "alice"})
	if seen == nil || seen.ID != "u1" {
		t.Fatalf("listener read %+v; want the new session", seen)
	}
}
