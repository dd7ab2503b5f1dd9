package cache

import (
	"testing"
	"time"
)

func TestLRUCacheExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](4, time.Minute).WithClock(func() time.Time { return now })

	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected hit, got %v %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Fatalf("expired entry should be removed on read")
	}
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[string](2, time.Hour)
	c.Set("a", "A")
	c.Set("b", "B")
	c.Get("a")
	c.Set("c", "C")

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to survive")
	}
	c.Delete("a")
	if c.Size() != 1 {
		t.Fatalf("expected 1 item, got %d", c.Size())
	}
}

func TestLRUCacheCleanExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](10, time.Second).WithClock(func() time.Time { return now })
	c.Set("x", 1)
	c.Set("y", 2)
	now = now.Add(time.Minute)
	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("expected 2 cleaned, got %d", n)
	}
}

func TestNewReturnsNopForZeroTTL(t *testing.T) {
	c := New[int](10, 0)
	c.Set("a", 1)
	if _, ok := c.Get("a"); ok || c.Size() != 0 {
		t.Fatalf("nop cache must not store values")
	}
	if _, ok := New[int](10, time.Second).(*LRUCache[int]); !ok {
		t.Fatalf("expected LRU cache for positive ttl")
	}
}

func TestLRUCacheStats(t *testing.T) {
	c := NewLRUCache[int](1, time.Hour)
	c.Get("a")
	c.Set("a", 1)
	c.Get("a")
	c.Set("b", 2)

	want := Stats{Hits: 1, Misses: 1, Evicted: 1}
	if got := c.Stats(); got != want {
		t.Fatalf("Stats() = %+v, want %+v", got, want)
	}
}
