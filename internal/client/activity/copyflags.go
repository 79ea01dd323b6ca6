package activity

import (
	"sync"
	"time"
)

// CopyField names the copied value of a record.
type CopyField string

const (
	// CopyFieldShort marks the short link as copied.
	CopyFieldShort CopyField = "short"
	// CopyFieldLong marks the destination URL as copied.
	CopyFieldLong CopyField = "long"
)

type copyKey struct {
	id    string
	field CopyField
}

// CopyTracker holds transient copy acknowledgments keyed by record id
// and field. Flags expire on their own after a fixed duration and are
// never persisted.
type CopyTracker struct {
	mu     sync.Mutex
	ttl    time.Duration
	timers map[copyKey]*time.Timer
}

// NewCopyTracker constructs a tracker whose flags expire after ttl.
func NewCopyTracker(ttl time.Duration) *CopyTracker {
	return &CopyTracker{ttl: ttl, timers: make(map[copyKey]*time.Timer)}
}

// Mark sets the flag for (id, field), restarting its expiry if already
// set.
func (t *CopyTracker) Mark(id string, field CopyField) {
	key := copyKey{id: id, field: field}

	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[key]; ok {
		timer.Stop()
	}
	t.timers[key] = time.AfterFunc(t.ttl, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.timers, key)
	})
}

// Copied reports whether the flag for (id, field) is still set.
func (t *CopyTracker) Copied(id string, field CopyField) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.timers[copyKey{id: id, field: field}]
	return ok
}
