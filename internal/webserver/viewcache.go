package webserver

import (
	"sync"
	"time"

	"github.com/codebookhq/codebook/internal/domain"
)

// ProductViewCache tracks the product each browser is currently
// looking at. Detail fetches for rapidly changing ids can complete out
// of order, so every fetch takes a generation token and only the
// newest generation may publish its result: a stale in-flight response
// for a previous id can never overwrite the current view.
type ProductViewCache struct {
	mu      sync.Mutex
	gen     map[string]uint64
	current map[string]domain.Product
	seen    map[string]time.Time
}

func NewProductViewCache() *ProductViewCache {
	return &ProductViewCache{
		gen:     make(map[string]uint64),
		current: make(map[string]domain.Product),
		seen:    make(map[string]time.Time),
	}
}

// Begin starts a view fetch for the browser and returns its token.
func (v *ProductViewCache) Begin(browserID string) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen[browserID]++
	v.seen[browserID] = time.Now()
	return v.gen[browserID]
}

// Complete publishes a fetched product if token is still the newest
// generation for the browser. Stale completions are dropped.
func (v *ProductViewCache) Complete(browserID string, token uint64, p domain.Product) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.gen[browserID] {
		return false
	}
	v.current[browserID] = p
	return true
}

// Current returns the browser's last published view.
func (v *ProductViewCache) Current(browserID string) (domain.Product, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.current[browserID]
	if ok {
		v.seen[browserID] = time.Now()
	}
	return p, ok
}

// Drop discards view state for swept browsers.
func (v *ProductViewCache) Drop(browserIDs ...string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, id := range browserIDs {
		v.drop(id)
	}
}

// Sweep discards view state untouched beyond maxIdle. Cookie-less
// clients take a fresh browser id on every request, so entries with no
// backing session or cart must age out on their own.
func (v *ProductViewCache) Sweep(maxIdle time.Duration) {
	cutoff := time.Now().Add(-maxIdle)
	v.mu.Lock()
	defer v.mu.Unlock()
	for id, last := range v.seen {
		if last.Before(cutoff) {
			v.drop(id)
		}
	}
}

func (v *ProductViewCache) drop(browserID string) {
	delete(v.gen, browserID)
	delete(v.current, browserID)
	delete(v.seen, browserID)
}
