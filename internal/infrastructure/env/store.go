// Package env models process environment access as an explicit store with
// set-if-absent semantics, and loads mode-specific dotenv files into it.
package env

import (
	"os"
	"sync"
)

// Store abstracts the process-wide environment. File-provided values are
// applied through SetDefault, so pre-existing real environment values always
// win over them.
type Store interface {
	Lookup(key string) (string, bool)
	SetDefault(key, value string)
}

// OSStore is the real process environment.
type OSStore struct{}

func (OSStore) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

func (OSStore) SetDefault(key, value string) {
	if _, ok := os.LookupEnv(key); !ok {
		os.Setenv(key, value)
	}
}

// MapStore is an in-memory Store for tests.
type MapStore struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMapStore seeds an in-memory store; seeded values behave like
// pre-existing process environment.
func NewMapStore(seed map[string]string) *MapStore {
	m := make(map[string]string, len(seed))
	for k, v := range seed {
		m[k] = v
	}
	return &MapStore{m: m}
}

func (s *MapStore) Lookup(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *MapStore) SetDefault(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[key]; !ok {
		s.m[key] = value
	}
}
