// Package activity maintains the client-visible list of the current
// user's links, kept approximately fresh by periodic repolling of the
// server, with immediate optimistic removal on user-initiated delete.
package activity

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nanolink/nanolink/internal/models"
)

// Gateway is the subset of the HTTP gateway the synchronizer consumes.
type Gateway interface {
	Activity(ctx context.Context, userID string) ([]models.LinkActivity, error)
	DeleteActivity(ctx context.Context, id string) error
}

// Synchronizer owns the in-memory activity list for one user at a time.
// Each successful poll replaces the whole list with server truth; local
// divergence introduced by optimistic deletes is reconciled at the next
// poll boundary at worst.
type Synchronizer struct {
	gw       Gateway
	interval time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	records []models.LinkActivity
	cancel  context.CancelFunc
	// gen fences off poll responses that arrive after the loop they
	// belong to was torn down.
	gen uint64
}

// New constructs a Synchronizer polling every interval once a session
// is published to it.
func New(gw Gateway, interval time.Duration, log *zap.Logger) *Synchronizer {
	return &Synchronizer{gw: gw, interval: interval, log: log}
}

// SetSession is a session.Listener. A nil session tears the poll loop
// down and clears the list; a non-nil session restarts the loop from
// scratch against the new identity, fetching immediately and then every
// interval.
func (s *Synchronizer) SetSession(sess *models.Session) {
	s.mu.Lock()
	s.stopLocked()
	s.records = nil
	if sess == nil {
		s.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	gen := s.gen
	userID := sess.ID
	s.mu.Unlock()

	go s.run(ctx, userID, gen)
}

// Stop tears the poll loop down. No poll is issued afterwards, and any
// poll whose response arrives later is discarded.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	s.stopLocked()
	s.mu.Unlock()
}

func (s *Synchronizer) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

// Records returns a copy of the current list, in server order.
func (s *Synchronizer) Records() []models.LinkActivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LinkActivity, len(s.records))
	copy(out, s.records)
	return out
}

// Delete removes the record from the local list immediately, then issues
// the delete request. A failed request is logged and not rolled back;
// the record reappears on a later poll only if the server still reports
// it.
func (s *Synchronizer) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	kept := s.records[:0]
	for _, rec := range s.records {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	s.records = kept
	s.mu.Unlock()

	if err := s.gw.DeleteActivity(ctx, id); err != nil {
		s.log.Warn("delete request failed, awaiting next poll",
			zap.String("id", id), zap.Error(err))
	}
}

func (s *Synchronizer) run(ctx context.Context, userID string, gen uint64) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.poll(ctx, userID, gen)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll(ctx, userID, gen)
		}
	}
}

// poll fetches the full list and replaces local state with it. A failed
// poll leaves the previous list in place and is retried at the next
// scheduled tick.
func (s *Synchronizer) poll(ctx context.Context, userID string, gen uint64) {
	list, err := s.gw.Activity(ctx, userID)
	if err != nil {
		s.log.Debug("activity poll failed", zap.String("userId", userID), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// The loop was torn down while this response was in flight.
		return
	}
	s.records = list
}
