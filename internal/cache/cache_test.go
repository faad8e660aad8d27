package cache

import (
	"testing"
	"time"

	"praktijk/internal/signals"
)

func TestLRUCache_GetSet(t *testing.T) {
	c := NewLRUCache[string](2, time.Minute)

	c.Set("a", "alpha")
	if v, ok := c.Get("a"); !ok || v != "alpha" {
		t.Errorf("Get(a) = %q, %v, want alpha, true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // touch a so b becomes the eviction candidate
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted as least recently used")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should survive eviction")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestLRUCache_TTLExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Error("expired entry should miss")
	}
}

func TestLRUCache_CleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("c", 3)

	if removed := c.CleanExpired(); removed != 2 {
		t.Errorf("CleanExpired() = %d, want 2", removed)
	}
	if c.Size() != 1 {
		t.Errorf("Size() after cleanup = %d, want 1", c.Size())
	}
}

func TestSignalCache(t *testing.T) {
	c := NewSignalCache(10, time.Minute)

	day := time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)
	sigs := []signals.Signal{{ClientID: 1, Message: "test"}}

	if _, ok := c.Get(1, day); ok {
		t.Error("empty cache should miss")
	}

	c.Set(1, day, sigs)

	got, ok := c.Get(1, day)
	if !ok || len(got) != 1 || got[0].ClientID != 1 {
		t.Errorf("Get() = %v, %v, want cached signals", got, ok)
	}

	// Same day, other tenant misses.
	if _, ok := c.Get(2, day); ok {
		t.Error("other tenant should miss")
	}

	// Time component must not affect the key.
	if _, ok := c.Get(1, day.Add(3*time.Hour)); !ok {
		t.Error("same day at another hour should hit")
	}

	c.Invalidate(1, day)
	if _, ok := c.Get(1, day); ok {
		t.Error("invalidated entry should miss")
	}
}

func TestManagerCleanup(t *testing.T) {
	m := NewManager()
	c := NewLRUCache[int](10, time.Millisecond)
	m.Register(c)

	c.Set("a", 1)
	m.StartCleanup(5 * time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	m.Stop()

	if c.Size() != 0 {
		t.Errorf("Size() after managed cleanup = %d, want 0", c.Size())
	}
}
