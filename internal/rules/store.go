package rules

import (
	"sort"
	"sync"
)

// Store is the in-memory strategy collection, keyed by name. The operator
// interface mutates it, the scheduler reads it. All values crossing the
// boundary are clones.
type Store struct {
	mu         sync.RWMutex
	strategies map[string]*Strategy
}

func NewStore() *Store {
	return &Store{strategies: make(map[string]*Strategy)}
}

// Names returns all strategy names in sorted order. The scheduler iterates
// this to give multiple simultaneously-executable strategies a stable
// precedence.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.strategies))
	for name := range s.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) Get(name string) (*Strategy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	strategy, ok := s.strategies[name]
	if !ok {
		return nil, false
	}
	return strategy.Clone(), true
}

func (s *Store) Upsert(strategy *Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategies[strategy.Name] = strategy.Clone()
}

func (s *Store) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.strategies[name]; !ok {
		return false
	}
	delete(s.strategies, name)
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.strategies)
}
