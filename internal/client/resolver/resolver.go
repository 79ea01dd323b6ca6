// Package resolver turns an incoming short code into a navigation
// decision: either a full navigation to the destination URL or a
// terminal user-facing error. Redirects are public; the resolver has no
// dependency on the session.
package resolver

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nanolink/nanolink/internal/models"
)

// User-facing messages. The resolver deliberately does not distinguish a
// network failure from absence, so backend topology never leaks to the
// end user.
const (
	MsgInvalidConfiguration = "Invalid Link Configuration"
	MsgNotFoundOrExpired    = "Link Not Found or Expired"
)

// State is a terminal state of one resolution attempt.
type State string

const (
	// StateNoop means no code was supplied and nothing was done.
	StateNoop State = "noop"
	// StateRedirecting means the destination was resolved and
	// navigation was handed off.
	StateRedirecting State = "redirecting"
	// StateError means the attempt ended with a visible message.
	StateError State = "error"
)

// Result is the outcome of a resolution attempt.
type Result struct {
	State State
	// Destination is the navigation target when State is StateRedirecting.
	Destination string
	// Message is the user-facing error when State is StateError.
	Message string
}

// Gateway is the subset of the HTTP gateway the resolver consumes.
type Gateway interface {
	Resolve(ctx context.Context, code string) (*models.LinkActivity, error)
	TrackClick(ctx context.Context, code string) error
}

// NavigateFunc performs the full navigation to the destination URL.
type NavigateFunc func(url string)

// Resolver resolves exactly one short code per instance. The guard is a
// hard invariant, not an optimization: a second lookup could double-count
// a click.
type Resolver struct {
	gw       Gateway
	navigate NavigateFunc
	log      *zap.Logger

	once   sync.Once
	result Result
}

// New constructs a Resolver for a single resolution attempt.
func New(gw Gateway, navigate NavigateFunc, log *zap.Logger) *Resolver {
	return &Resolver{gw: gw, navigate: navigate, log: log}
}

// Resolve runs the resolution state machine for code. Repeat calls on
// the same instance do no further work and return the first outcome.
// There are no retries; a failed lookup is terminal for this attempt.
func (r *Resolver) Resolve(ctx context.Context, code string) Result {
	r.once.Do(func() {
		r.result = r.run(ctx, code)
	})
	return r.result
}

func (r *Resolver) run(ctx context.Context, code string) Result {
	if code == "" {
		return Result{State: StateNoop}
	}

	rec, err := r.gw.Resolve(ctx, code)
	if err != nil {
		r.log.Info("lookup failed", zap.String("code", code), zap.Error(err))
		return Result{State: StateError, Message: MsgNotFoundOrExpired}
	}
	if rec == nil || rec.LongUrl == "" {
		return Result{State: StateError, Message: MsgInvalidConfiguration}
	}

	// Click accounting is best-effort: registration is initiated before
	// navigation, but its failure never blocks or reverses the redirect.
	if err := r.gw.TrackClick(ctx, code); err != nil {
		r.log.Info("click registration failed", zap.String("code", code), zap.Error(err))
	}

	r.navigate(rec.LongUrl)
	return Result{State: StateRedirecting, Destination: rec.LongUrl}
}
