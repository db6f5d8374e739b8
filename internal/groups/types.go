package groups

// PlaylistEntry assigns a playlist to a device group.
// Play controls whether the playlist is actively played or just synced.
type PlaylistEntry struct {
	PlaylistID int64 `json:"playlist_id"`
	Play       bool  `json:"play"`
}

// DeviceGroup belongs to exactly one account and carries playlist assignments.
type DeviceGroup struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	AccountID int64           `json:"account_id"`
	Playlists []PlaylistEntry `json:"playlists"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// CreateGroupInput contains the input for creating a device group.
type CreateGroupInput struct {
	Name      string          `json:"name"`
	AccountID int64           `json:"account_id"`
	Playlists []PlaylistEntry `json:"playlists,omitempty"`
}

// UpdateGroupInput contains the input for updating a device group.
// A non-nil Playlists replaces the full assignment list.
type UpdateGroupInput struct {
	Name      *string          `json:"name,omitempty"`
	Playlists *[]PlaylistEntry `json:"playlists,omitempty"`
}

func formatGroup(group *DeviceGroup) map[string]any {
	return map[string]any{
		"object":     "device_group",
		"id":         group.ID,
		"name":       group.Name,
		"account_id": group.AccountID,
		"playlists":  group.Playlists,
		"created_at": group.CreatedAt,
		"updated_at": group.UpdatedAt,
	}
}
