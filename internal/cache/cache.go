// Package cache holds small in-process caches used by remote backends.
package cache

import "time"

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Size returns the current number of items in the cache
	Size() int

	Stats() Stats
}

// Nop is a Cache that never stores anything; it disables caching when the
// configured TTL is zero.
type Nop[T any] struct{}

func (Nop[T]) Get(string) (T, bool) {
	var zero T
	return zero, false
}

func (Nop[T]) Set(string, T) {}
func (Nop[T]) Delete(string) {}
func (Nop[T]) Size() int { return 0 }
func (Nop[T]) Stats() Stats { return Stats{} }

// New returns an LRU cache, or a Nop cache when ttl is not positive.
func New[T any](maxSize int, ttl time.Duration) Cache[T] {
	if ttl <= 0 || maxSize <= 0 {
		return Nop[T]{}
	}
	return NewLRUCache[T](maxSize, ttl)
}
