package logger

import "testing"

func TestNewIsUsableBeforeInit(t *testing.T) {
	l := New()
	if l.Log == nil {
		t.Fatal("expected a non-nil logger before Init")
	}
	// Must not panic.
	l.Log.Info("noop")
}

func TestInit(t *testing.T) {
	l := New()
	if err := l.Init("debug"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if l.Log == nil {
		t.Fatal("expected a logger after Init")
	}
}

func TestInit_BadLevel(t *testing.T) {
	l := New()
	if err := l.Init("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
