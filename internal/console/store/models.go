// Package store holds the console-side entity caches. Each store owns the
// authoritative client copy of one collection, issues CRUD calls through the
// transport client and exposes loading/error flags for the views.
package store

import "encoding/json"

// Account is a top-level organizational unit.
type Account struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PlaylistEntry assigns a playlist to a device group.
type PlaylistEntry struct {
	PlaylistID int64 `json:"playlist_id"`
	Play       bool  `json:"play"`
}

// DeviceGroup belongs to exactly one account.
type DeviceGroup struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	AccountID int64           `json:"account_id"`
	Playlists []PlaylistEntry `json:"playlists,omitempty"`
}

// Device is a Media Pi player. AccountID 0 means globally unassigned;
// DeviceGroupID is meaningful only when AccountID is set. The backend may
// send 0 or omit either field; both decode to 0 here, so every falsy form
// normalizes to "unassigned".
type Device struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	AccountID     int64           `json:"account_id,omitempty"`
	DeviceGroupID int64           `json:"device_group_id,omitempty"`
	Online        bool            `json:"online,omitempty"`
	Status        json.RawMessage `json:"device_status,omitempty"`
}

// Playlist is an ordered collection of videos.
type Playlist struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	VideoIDs []int64 `json:"video_ids,omitempty"`
}

// Video is a single media item.
type Video struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	URI         string `json:"uri"`
	DurationSec *int64 `json:"duration_sec,omitempty"`
}

// User is a console operator.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Role is a named console role.
type Role struct {
	Name string `json:"name"`
}
