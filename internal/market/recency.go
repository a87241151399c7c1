package market

import "sync"

// recencyLimit bounds the most-recently-accessed key list.
const recencyLimit = 4

// RecencyCache is a keyed snapshot that additionally tracks the most
// recently accessed keys. The recency list holds each key at most once and
// never affects which records exist.
type RecencyCache[T any] struct {
	mu     sync.Mutex
	inner  map[string]T
	recent []string
}

func NewRecencyCache[T any]() *RecencyCache[T] {
	return &RecencyCache[T]{inner: make(map[string]T)}
}

// Get returns the record for key. When recordAccess is set and the key
// exists, the key moves to the most-recent end of the recency list, evicting
// the oldest entry past the limit.
func (c *RecencyCache[T]) Get(key string, recordAccess bool) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.inner[key]
	if !ok {
		var zero T
		return zero, false
	}
	if recordAccess {
		c.touch(key)
	}
	return v, true
}

func (c *RecencyCache[T]) touch(key string) {
	for i, k := range c.recent {
		if k == key {
			c.recent = append(c.recent[:i], c.recent[i+1:]...)
			break
		}
	}
	c.recent = append(c.recent, key)
	if len(c.recent) > recencyLimit {
		c.recent = c.recent[1:]
	}
}

// Recent returns the tracked keys, most recently accessed first.
func (c *RecencyCache[T]) Recent() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.recent))
	for i := len(c.recent) - 1; i >= 0; i-- {
		out = append(out, c.recent[i])
	}
	return out
}

// Replace swaps the whole record map. The recency list is left alone; stale
// keys simply stop resolving until accessed data reappears.
func (c *RecencyCache[T]) Replace(records map[string]T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inner = records
}

func (c *RecencyCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inner)
}

// snapshot is a plain keyed map replaced wholesale on each refresh.
type snapshot[T any] struct {
	mu sync.RWMutex
	m  map[string]T
}

func newSnapshot[T any]() *snapshot[T] {
	return &snapshot[T]{m: make(map[string]T)}
}

func (s *snapshot[T]) get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *snapshot[T]) replace(m map[string]T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = m
}

func (s *snapshot[T]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
