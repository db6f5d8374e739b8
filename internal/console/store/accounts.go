package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkovalev/mediapi-hub-go/internal/console/transport"
)

// AccountsStore caches the account collection.
type AccountsStore struct {
	mu      sync.Mutex
	client  *transport.Client
	items   []Account
	loading bool
	err     error
}

// NewAccountsStore creates a store over the given client.
func NewAccountsStore(client *transport.Client) *AccountsStore {
	return &AccountsStore{client: client}
}

// All returns the cached accounts.
func (s *AccountsStore) All() []Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Account(nil), s.items...)
}

// Get returns the cached account with the given ID, or nil.
func (s *AccountsStore) Get(id int64) *Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			account := s.items[i]
			return &account
		}
	}
	return nil
}

// Loading reports whether a fetch is in flight.
func (s *AccountsStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch error.
func (s *AccountsStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// GetAll refreshes the cache from the backend.
func (s *AccountsStore) GetAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var list struct {
		Data []Account `json:"data"`
	}
	err := s.client.Get(ctx, "/v1/accounts", &list)

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

// Create adds an account and reloads the collection.
func (s *AccountsStore) Create(ctx context.Context, name string) error {
	body := map[string]any{"name": name}
	if err := s.client.Post(ctx, "/v1/accounts", body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// Update renames an account and reloads the collection.
func (s *AccountsStore) Update(ctx context.Context, id int64, name string) error {
	body := map[string]any{"name": name}
	if err := s.client.Put(ctx, fmt.Sprintf("/v1/accounts/%d", id), body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// Delete removes an account and reloads the collection.
func (s *AccountsStore) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/v1/accounts/%d", id)); err != nil {
		return err
	}
	return s.GetAll(ctx)
}
