package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkovalev/mediapi-hub-go/internal/console/transport"
)

// GroupsStore caches the device-group collection across all accounts.
type GroupsStore struct {
	mu      sync.Mutex
	client  *transport.Client
	items   []DeviceGroup
	loading bool
	err     error
}

// NewGroupsStore creates a store over the given client.
func NewGroupsStore(client *transport.Client) *GroupsStore {
	return &GroupsStore{client: client}
}

// All returns the cached groups.
func (s *GroupsStore) All() []DeviceGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DeviceGroup(nil), s.items...)
}

// Get returns the cached group with the given ID, or nil.
func (s *GroupsStore) Get(id int64) *DeviceGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			group := s.items[i]
			return &group
		}
	}
	return nil
}

// ForAccount returns the cached groups belonging to one account.
func (s *GroupsStore) ForAccount(accountID int64) []DeviceGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	groups := make([]DeviceGroup, 0)
	for _, group := range s.items {
		if group.AccountID == accountID {
			groups = append(groups, group)
		}
	}
	return groups
}

// Loading reports whether a fetch is in flight.
func (s *GroupsStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch error.
func (s *GroupsStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// GetAll refreshes the cache from the backend.
func (s *GroupsStore) GetAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var list struct {
		Data []DeviceGroup `json:"data"`
	}
	err := s.client.Get(ctx, "/v1/device-groups", &list)

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

// Create adds a group under an account and reloads the collection.
func (s *GroupsStore) Create(ctx context.Context, accountID int64, name string) error {
	body := map[string]any{"name": name, "account_id": accountID}
	if err := s.client.Post(ctx, "/v1/device-groups", body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// Update replaces a group's name and playlist assignments and reloads.
func (s *GroupsStore) Update(ctx context.Context, id int64, name string, playlists []PlaylistEntry) error {
	body := map[string]any{"name": name, "playlists": playlists}
	if err := s.client.Put(ctx, fmt.Sprintf("/v1/device-groups/%d", id), body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// Delete removes a group and reloads the collection.
func (s *GroupsStore) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/v1/device-groups/%d", id)); err != nil {
		return err
	}
	return s.GetAll(ctx)
}
