package gate

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/codebookhq/codebook/internal/domain"
)

// Decision is the resolved outcome of one admin check.
type Decision int

const (
	// Denied covers both "not admin" and "verification failed"; the
	// gate fails closed and never reports an ambiguous state.
	Denied Decision = iota
	// DeniedNoSession is a Denied with no credentials at all, so the
	// caller redirects to login rather than home.
	DeniedNoSession
	Allowed
)

// SessionReader yields the current session for a browser.
type SessionReader interface {
	Get(browserID string) domain.Session
}

// Verifier fetches the authoritative profile for the session.
type Verifier interface {
	GetUser(ctx context.Context, browserID string) (domain.User, error)
}

// Gate guards the back office. The decision is recomputed on every
// check: nothing is cached beyond the session's own role/name hint.
type Gate struct {
	store    SessionReader
	verifier Verifier
	group    singleflight.Group
}

func New(store SessionReader, verifier Verifier) *Gate {
	return &Gate{store: store, verifier: verifier}
}

// Check resolves whether the browser's session may use admin views.
//
// No token resolves to DeniedNoSession immediately, with zero network
// calls. A cached admin role resolves to Allowed, also without the
// network. Otherwise exactly one verifying profile fetch decides;
// concurrent checks for the same browser share that single call. Any
// verification failure resolves to Denied.
func (g *Gate) Check(ctx context.Context, browserID string) Decision {
	sess := g.store.Get(browserID)
	if sess.Token == "" {
		return DeniedNoSession
	}
	if sess.AdminCached() {
		return Allowed
	}

	v, err, _ := g.group.Do(browserID, func() (interface{}, error) {
		user, err := g.verifier.GetUser(ctx, browserID)
		if err != nil {
			return nil, err
		}
		return user.IsAdmin(), nil
	})
	if err != nil {
		zap.S().Warnf("admin check failed for %s: %s", browserID, err)
		return Denied
	}
	if allowed, _ := v.(bool); allowed {
		return Allowed
	}
	return Denied
}
