package catalog

import (
	"sync"

	"totalwar-mod-launcher/loadorder"
)

// Store is the single owner of a game's catalog and load order. Writers
// (rescans, toggles, category edits) hold the lock exclusively; readers get
// a consistent view or a detached copy.
type Store struct {
	mu        sync.RWMutex
	cfg       *GameConfig
	loadOrder *loadorder.LoadOrder
}

func NewStore(cfg *GameConfig, lo *loadorder.LoadOrder) *Store {
	if lo == nil {
		lo = loadorder.New()
	}
	return &Store{cfg: cfg, loadOrder: lo}
}

// View runs fn with read access. fn must not keep references past return.
func (s *Store) View(fn func(cfg *GameConfig, lo *loadorder.LoadOrder) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.cfg, s.loadOrder)
}

// Update runs fn with exclusive access.
func (s *Store) Update(fn func(cfg *GameConfig, lo *loadorder.LoadOrder) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.cfg, s.loadOrder)
}

// Snapshot returns deep copies that can be read without holding the lock.
func (s *Store) Snapshot() (*GameConfig, *loadorder.LoadOrder) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone(), s.loadOrder.Clone()
}
