package devices

import "encoding/json"

// Device is a Media Pi player. AccountID 0 means globally unassigned;
// DeviceGroupID is meaningful only when AccountID is set.
type Device struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	AccountID     int64           `json:"account_id,omitempty"`
	DeviceGroupID int64           `json:"device_group_id,omitempty"`
	Status        json.RawMessage `json:"device_status,omitempty"`
	LastSeenAt    *string         `json:"last_seen_at,omitempty"`
	Online        bool            `json:"online"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// CreateDeviceInput contains the input for registering a device.
type CreateDeviceInput struct {
	Name          string `json:"name"`
	AccountID     int64  `json:"account_id,omitempty"`
	DeviceGroupID int64  `json:"device_group_id,omitempty"`
}

// UpdateDeviceInput contains the input for updating a device.
type UpdateDeviceInput struct {
	Name *string `json:"name,omitempty"`
}

func formatDevice(device *Device) map[string]any {
	formatted := map[string]any{
		"object":     "device",
		"id":         device.ID,
		"name":       device.Name,
		"online":     device.Online,
		"created_at": device.CreatedAt,
		"updated_at": device.UpdatedAt,
	}
	// Unassigned devices carry no account_id at all; the console treats
	// 0, null and absent identically.
	if device.AccountID != 0 {
		formatted["account_id"] = device.AccountID
	}
	if device.DeviceGroupID != 0 {
		formatted["device_group_id"] = device.DeviceGroupID
	}
	if len(device.Status) > 0 {
		formatted["device_status"] = device.Status
	}
	if device.LastSeenAt != nil {
		formatted["last_seen_at"] = *device.LastSeenAt
	}
	return formatted
}
