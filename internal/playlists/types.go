package playlists

// Playlist is an ordered collection of videos distributed to device groups.
type Playlist struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	VideoIDs  []int64 `json:"video_ids"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// CreatePlaylistInput contains the input for creating a playlist.
type CreatePlaylistInput struct {
	Name     string  `json:"name"`
	VideoIDs []int64 `json:"video_ids,omitempty"`
}

// UpdatePlaylistInput contains the input for updating a playlist.
// A non-nil VideoIDs replaces the full ordered list.
type UpdatePlaylistInput struct {
	Name     *string  `json:"name,omitempty"`
	VideoIDs *[]int64 `json:"video_ids,omitempty"`
}

func formatPlaylist(playlist *Playlist) map[string]any {
	return map[string]any{
		"object":     "playlist",
		"id":         playlist.ID,
		"name":       playlist.Name,
		"video_ids":  playlist.VideoIDs,
		"created_at": playlist.CreatedAt,
		"updated_at": playlist.UpdatedAt,
	}
}
