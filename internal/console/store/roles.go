package store

import (
	"context"
	"sync"

	"github.com/dkovalev/mediapi-hub-go/internal/console/transport"
)

// RolesStore caches the fixed role list served by the backend.
type RolesStore struct {
	mu      sync.Mutex
	client  *transport.Client
	items   []Role
	loading bool
	err     error
}

// NewRolesStore creates a store over the given client.
func NewRolesStore(client *transport.Client) *RolesStore {
	return &RolesStore{client: client}
}

// All returns the cached roles.
func (s *RolesStore) All() []Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Role(nil), s.items...)
}

// Loading reports whether a fetch is in flight.
func (s *RolesStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch error.
func (s *RolesStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// GetAll refreshes the cache from the backend.
func (s *RolesStore) GetAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var list struct {
		Data []Role `json:"data"`
	}
	err := s.client.Get(ctx, "/v1/roles", &list)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = err
	if err != nil {
		return err
	}
	s.items = list.Data
	return nil
}
