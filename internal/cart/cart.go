package cart

import (
	"sync"
	"time"

	"github.com/codebookhq/codebook/internal/domain"
)

// Cart is one browser's in-progress selection. Items keep insertion
// order; each product appears at most once and the total is always
// recomputed from the items so the two can never drift.
type Cart struct {
	mu    sync.Mutex
	items []domain.CartItem
}

func New() *Cart {
	return &Cart{}
}

// Add appends the product if its id is not already present. A second
// add of the same product is a no-op, not a quantity bump.
func (c *Cart) Add(item domain.CartItem) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.ProductID == item.ProductID {
			return false
		}
	}
	c.items = append(c.items, item)
	return true
}

// Remove deletes the item with the given product id, preserving the
// order of the rest. Absent id is a no-op.
func (c *Cart) Remove(productID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it.ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns a snapshot copy in insertion order.
func (c *Cart) Items() []domain.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]domain.CartItem, len(c.items))
	copy(snapshot, c.items)
	return snapshot
}

// Total is the sum of item prices, recomputed on every read.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, it := range c.items {
		total += it.Price
	}
	return total
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear empties the cart. Called exactly once after a successful
// order; failed orders leave the cart for a retry.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Manager owns the per-browser carts. Carts are volatile: lost on
// restart and dropped together with swept sessions.
type Manager struct {
	mu    sync.Mutex
	carts map[string]*Cart
	seen  map[string]time.Time
}

func NewManager() *Manager {
	return &Manager{
		carts: make(map[string]*Cart),
		seen:  make(map[string]time.Time),
	}
}

// Get returns the cart for a browser, creating it on first use.
func (m *Manager) Get(browserID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[browserID]
	if !ok {
		c = New()
		m.carts[browserID] = c
	}
	m.seen[browserID] = time.Now()
	return c
}

// Drop discards the carts of the given browsers.
func (m *Manager) Drop(browserIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range browserIDs {
		delete(m.carts, id)
		delete(m.seen, id)
	}
}

// SweepIdle drops carts untouched beyond maxIdle and returns their
// browser ids. Browsers that never authenticate still get a cart on
// first use, so the session sweep alone cannot reclaim them.
func (m *Manager) SweepIdle(maxIdle time.Duration) []string {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	var stale []string
	for id, last := range m.seen {
		if last.Before(cutoff) {
			stale = append(stale, id)
			delete(m.carts, id)
			delete(m.seen, id)
		}
	}
	return stale
}

// Size reports how many carts are live, for the dashboard.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.carts)
}
