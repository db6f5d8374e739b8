package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkovalev/mediapi-hub-go/internal/console/transport"
)

// DevicesStore caches the device collection and drives assignment moves.
type DevicesStore struct {
	mu      sync.Mutex
	client  *transport.Client
	items   []Device
	loading bool
	err     error
}

// NewDevicesStore creates a store over the given client.
func NewDevicesStore(client *transport.Client) *DevicesStore {
	return &DevicesStore{client: client}
}

// All returns the cached devices.
func (s *DevicesStore) All() []Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Device(nil), s.items...)
}

// Get returns the cached device with the given ID, or nil.
func (s *DevicesStore) Get(id int64) *Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			device := s.items[i]
			return &device
		}
	}
	return nil
}

// Loading reports whether a fetch is in flight.
func (s *DevicesStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch error.
func (s *DevicesStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// GetAll refreshes the cache from the backend.
func (s *DevicesStore) GetAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var list struct {
		Data []Device `json:"data"`
	}
	err := s.client.Get(ctx, "/v1/devices", &list)

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

// Create registers a device and reloads the collection.
func (s *DevicesStore) Create(ctx context.Context, name string, accountID, groupID int64) error {
	body := map[string]any{"name": name}
	if accountID != 0 {
		body["account_id"] = accountID
	}
	if groupID != 0 {
		body["device_group_id"] = groupID
	}
	if err := s.client.Post(ctx, "/v1/devices", body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// Update renames a device and reloads the collection.
func (s *DevicesStore) Update(ctx context.Context, id int64, name string) error {
	body := map[string]any{"name": name}
	if err := s.client.Put(ctx, fmt.Sprintf("/v1/devices/%d", id), body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// Delete removes a device and reloads the collection.
func (s *DevicesStore) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/v1/devices/%d", id)); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// AssignToAccount moves a device under an account, dropping any group
// membership, then reloads.
func (s *DevicesStore) AssignToAccount(ctx context.Context, deviceID, accountID int64) error {
	body := map[string]any{"account_id": accountID}
	if err := s.client.Post(ctx, fmt.Sprintf("/v1/devices/%d/assign-account", deviceID), body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// AssignToGroup moves a device into a group of its current account, then
// reloads.
func (s *DevicesStore) AssignToGroup(ctx context.Context, deviceID, groupID int64) error {
	body := map[string]any{"device_group_id": groupID}
	if err := s.client.Post(ctx, fmt.Sprintf("/v1/devices/%d/assign-group", deviceID), body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// UnassignFromGroup moves a device back to its account's unassigned
// container, then reloads.
func (s *DevicesStore) UnassignFromGroup(ctx context.Context, deviceID int64) error {
	if err := s.client.Post(ctx, fmt.Sprintf("/v1/devices/%d/unassign-group", deviceID), nil, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// UnassignFromAccount detaches a device from its account entirely, then
// reloads.
func (s *DevicesStore) UnassignFromAccount(ctx context.Context, deviceID int64) error {
	if err := s.client.Post(ctx, fmt.Sprintf("/v1/devices/%d/unassign-account", deviceID), nil, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}
