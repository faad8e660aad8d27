package cache

import (
	"fmt"
	"time"

	"praktijk/internal/signals"
)

// SignalCache memoizes reimbursement signal evaluations per tenant and day.
// Signals only change when the tenant's bookkeeping changes, so a short TTL
// combined with explicit invalidation on writes keeps them fresh enough.
type SignalCache struct {
	inner *LRUCache[[]signals.Signal]
}

// NewSignalCache creates a cache sized for maxTenants concurrent tenants.
func NewSignalCache(maxTenants int, ttl time.Duration) *SignalCache {
	return &SignalCache{inner: NewLRUCache[[]signals.Signal](maxTenants, ttl)}
}

func signalKey(tenantID int64, day time.Time) string {
	return fmt.Sprintf("%d:%s", tenantID, day.Format("2006-01-02"))
}

// Get returns the cached signals for the tenant on the given day.
func (c *SignalCache) Get(tenantID int64, day time.Time) ([]signals.Signal, bool) {
	return c.inner.Get(signalKey(tenantID, day))
}

// Set stores the signals for the tenant on the given day.
func (c *SignalCache) Set(tenantID int64, day time.Time, s []signals.Signal) {
	c.inner.Set(signalKey(tenantID, day), s)
}

// Invalidate drops the tenant's cached signals for the given day. Call it
// after any write that can change session counts.
func (c *SignalCache) Invalidate(tenantID int64, day time.Time) {
	c.inner.Delete(signalKey(tenantID, day))
}

// CleanExpired removes expired entries, satisfying the manager's Cleaner.
func (c *SignalCache) CleanExpired() int {
	return c.inner.CleanExpired()
}
