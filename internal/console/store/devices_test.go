package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkovalev/mediapi-hub-go/internal/console/transport"
)

type fakeDeviceBackend struct {
	devices map[int64]Device
	nextID  int64
}

func (b *fakeDeviceBackend) deviceID(r *http.Request) int64 {
	var id int64
	fmt.Sscanf(r.PathValue("id"), "%d", &id)
	return id
}

func (b *fakeDeviceBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/devices", func(w http.ResponseWriter, r *http.Request) {
		data := make([]Device, 0, len(b.devices))
		for id := int64(1); id < b.nextID; id++ {
			if device, ok := b.devices[id]; ok {
				data = append(data, device)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
	})
	mux.HandleFunc("POST /v1/devices", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name      string `json:"name"`
			AccountID int64  `json:"account_id"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		device := Device{ID: b.nextID, Name: body.Name, AccountID: body.AccountID}
		b.devices[device.ID] = device
		b.nextID++
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(device)
	})
	mux.HandleFunc("POST /v1/devices/{id}/assign-account", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			AccountID int64 `json:"account_id"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		device := b.devices[b.deviceID(r)]
		device.AccountID = body.AccountID
		device.DeviceGroupID = 0
		b.devices[device.ID] = device
		json.NewEncoder(w).Encode(device)
	})
	mux.HandleFunc("POST /v1/devices/{id}/assign-group", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DeviceGroupID int64 `json:"device_group_id"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		device := b.devices[b.deviceID(r)]
		if device.AccountID == 0 {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"DEVICE_UNASSIGNED","message":"Device has no account"}}`))
			return
		}
		device.DeviceGroupID = body.DeviceGroupID
		b.devices[device.ID] = device
		json.NewEncoder(w).Encode(device)
	})
	mux.HandleFunc("POST /v1/devices/{id}/unassign-group", func(w http.ResponseWriter, r *http.Request) {
		device := b.devices[b.deviceID(r)]
		device.DeviceGroupID = 0
		b.devices[device.ID] = device
		json.NewEncoder(w).Encode(device)
	})
	mux.HandleFunc("POST /v1/devices/{id}/unassign-account", func(w http.ResponseWriter, r *http.Request) {
		device := b.devices[b.deviceID(r)]
		device.AccountID = 0
		device.DeviceGroupID = 0
		b.devices[device.ID] = device
		json.NewEncoder(w).Encode(device)
	})
	mux.HandleFunc("DELETE /v1/devices/{id}", func(w http.ResponseWriter, r *http.Request) {
		delete(b.devices, b.deviceID(r))
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func setupDevicesStore(t *testing.T) (*DevicesStore, *fakeDeviceBackend) {
	t.Helper()
	backend := &fakeDeviceBackend{devices: make(map[int64]Device), nextID: 1}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return NewDevicesStore(transport.NewClient(server.URL, nil)), backend
}

func TestDevicesStoreAssignToAccountClearsGroup(t *testing.T) {
	store, backend := setupDevicesStore(t)
	backend.devices[1] = Device{ID: 1, Name: "screen", AccountID: 1, DeviceGroupID: 3}
	backend.nextID = 2

	require.NoError(t, store.AssignToAccount(context.Background(), 1, 2))

	device := store.Get(1)
	require.NotNil(t, device)
	require.Equal(t, int64(2), device.AccountID)
	require.Zero(t, device.DeviceGroupID)
}

func TestDevicesStoreAssignToGroup(t *testing.T) {
	store, backend := setupDevicesStore(t)
	backend.devices[1] = Device{ID: 1, Name: "screen", AccountID: 1}
	backend.nextID = 2

	require.NoError(t, store.AssignToGroup(context.Background(), 1, 4))
	require.Equal(t, int64(4), store.Get(1).DeviceGroupID)
}

func TestDevicesStoreAssignToGroupWithoutAccountFails(t *testing.T) {
	store, backend := setupDevicesStore(t)
	backend.devices[1] = Device{ID: 1, Name: "screen"}
	backend.nextID = 2

	err := store.AssignToGroup(context.Background(), 1, 4)

	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.Status)
	require.Equal(t, "Device has no account", apiErr.Message)
}

func TestDevicesStoreUnassignOps(t *testing.T) {
	store, backend := setupDevicesStore(t)
	backend.devices[1] = Device{ID: 1, Name: "screen", AccountID: 2, DeviceGroupID: 3}
	backend.nextID = 2

	require.NoError(t, store.UnassignFromGroup(context.Background(), 1))
	device := store.Get(1)
	require.Equal(t, int64(2), device.AccountID)
	require.Zero(t, device.DeviceGroupID)

	require.NoError(t, store.UnassignFromAccount(context.Background(), 1))
	require.Zero(t, store.Get(1).AccountID)
}

func TestDevicesStoreCreateAndDelete(t *testing.T) {
	store, _ := setupDevicesStore(t)

	require.NoError(t, store.Create(context.Background(), "lobby", 0, 0))
	devices := store.All()
	require.Len(t, devices, 1)
	require.Zero(t, devices[0].AccountID)

	require.NoError(t, store.Delete(context.Background(), devices[0].ID))
	require.Empty(t, store.All())
}
