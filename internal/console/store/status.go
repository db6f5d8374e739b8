package store

import (
	"context"
	"sync"

	"github.com/dkovalev/mediapi-hub-go/internal/console/transport"
)

// FleetStatus is the aggregated device status summary.
type FleetStatus struct {
	Total   int64 `json:"total"`
	Online  int64 `json:"online"`
	Offline int64 `json:"offline"`
}

// StatusStore caches the fleet status summary.
type StatusStore struct {
	mu      sync.Mutex
	client  *transport.Client
	status  FleetStatus
	loading bool
	err     error
}

// NewStatusStore creates a store over the given client.
func NewStatusStore(client *transport.Client) *StatusStore {
	return &StatusStore{client: client}
}

// Current returns the cached summary.
func (s *StatusStore) Current() FleetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Loading reports whether a fetch is in flight.
func (s *StatusStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch error.
func (s *StatusStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// GetAll refreshes the summary from the backend.
func (s *StatusStore) GetAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var status FleetStatus
	err := s.client.Get(ctx, "/v1/status", &status)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.err = err
	if err != nil {
		return err
	}
	s.status = status
	return nil
}
