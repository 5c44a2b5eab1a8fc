// Package state holds the console's shared state: the domain list published
// by the directory backend and the last application error it reported.
//
// The Store has a single writer path (the domain client) and any number of
// readers (rendered views, the API and live-update subscribers). Writes
// replace whole fields; readers always receive copies.
package state

import (
	"sync"
)

// Snapshot is an immutable copy of the store at one version.
type Snapshot struct {
	Domains  []Domain `json:"domains"`
	Error    string   `json:"error,omitempty"`
	HasError bool     `json:"-"`
	Version  uint64   `json:"version"`
}

// Store is the single shared state instance owned by the application root.
type Store struct {
	mu       sync.RWMutex
	domains  []Domain
	err      string
	hasErr   bool
	version  uint64
	nextSub  int
	watchers map[int]chan struct{}
}

// NewStore returns a store with no domains and no error.
func NewStore() *Store {
	return &Store{
		domains:  []Domain{},
		watchers: make(map[int]chan struct{}),
	}
}

// Domains returns a copy of the current domain list, in server order.
func (s *Store) Domains() []Domain {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDomains(s.domains)
}

// Error returns the last application error and whether one is set.
func (s *Store) Error() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err, s.hasErr
}

// Snapshot returns a consistent copy of the whole state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Domains:  cloneDomains(s.domains),
		Error:    s.err,
		HasError: s.hasErr,
		Version:  s.version,
	}
}

// SetDomains replaces the domain list wholesale. A nil slice is stored as an
// empty list.
func (s *Store) SetDomains(domains []Domain) {
	s.mu.Lock()
	s.domains = cloneDomains(domains)
	s.version++
	s.mu.Unlock()
	s.notify()
}

// SetError records an application-reported error. The domain list is left
// untouched so the last good value stays visible.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.hasErr = true
	s.version++
	s.mu.Unlock()
	s.notify()
}

// Subscribe returns a channel that receives a signal after every mutation.
// Signals coalesce: a slow reader sees at most one pending notification.
// The returned func unsubscribes and closes the channel.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.watchers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
