package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkovalev/mediapi-hub-go/internal/console/transport"
)

// UsersStore caches the console user collection.
type UsersStore struct {
	mu      sync.Mutex
	client  *transport.Client
	items   []User
	loading bool
	err     error
}

// NewUsersStore creates a store over the given client.
func NewUsersStore(client *transport.Client) *UsersStore {
	return &UsersStore{client: client}
}

// All returns the cached users.
func (s *UsersStore) All() []User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]User(nil), s.items...)
}

// Get returns the cached user with the given ID, or nil.
func (s *UsersStore) Get(id int64) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			user := s.items[i]
			return &user
		}
	}
	return nil
}

// Loading reports whether a fetch is in flight.
func (s *UsersStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch error.
func (s *UsersStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// GetAll refreshes the cache from the backend.
func (s *UsersStore) GetAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var list struct {
		Data []User `json:"data"`
	}
	err := s.client.Get(ctx, "/v1/users", &list)

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

// Create registers a user and reloads the collection.
func (s *UsersStore) Create(ctx context.Context, username, password, role string) error {
	body := map[string]any{"username": username, "password": password, "role": role}
	if err := s.client.Post(ctx, "/v1/users", body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// Update changes a user's role and optionally the password, then reloads.
func (s *UsersStore) Update(ctx context.Context, id int64, role, password string) error {
	body := map[string]any{"role": role}
	if password != "" {
		body["password"] = password
	}
	if err := s.client.Put(ctx, fmt.Sprintf("/v1/users/%d", id), body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// Delete removes a user and reloads the collection.
func (s *UsersStore) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/v1/users/%d", id)); err != nil {
		return err
	}
	return s.GetAll(ctx)
}
