package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkovalev/mediapi-hub-go/internal/console/transport"
)

// PlaylistsStore caches the playlist collection.
type PlaylistsStore struct {
	mu      sync.Mutex
	client  *transport.Client
	items   []Playlist
	loading bool
	err     error
}

// NewPlaylistsStore creates a store over the given client.
func NewPlaylistsStore(client *transport.Client) *PlaylistsStore {
	return &PlaylistsStore{client: client}
}

// All returns the cached playlists.
func (s *PlaylistsStore) All() []Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Playlist(nil), s.items...)
}

// Get returns the cached playlist with the given ID, or nil.
func (s *PlaylistsStore) Get(id int64) *Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			playlist := s.items[i]
			return &playlist
		}
	}
	return nil
}

// Loading reports whether a fetch is in flight.
func (s *PlaylistsStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch error.
func (s *PlaylistsStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// GetAll refreshes the cache from the backend.
func (s *PlaylistsStore) GetAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var list struct {
		Data []Playlist `json:"data"`
	}
	err := s.client.Get(ctx, "/v1/playlists", &list)

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

// Create adds a playlist and reloads the collection.
func (s *PlaylistsStore) Create(ctx context.Context, name string, videoIDs []int64) error {
	body := map[string]any{"name": name, "video_ids": videoIDs}
	if err := s.client.Post(ctx, "/v1/playlists", body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// Update replaces a playlist's name and video ordering, then reloads.
func (s *PlaylistsStore) Update(ctx context.Context, id int64, name string, videoIDs []int64) error {
	body := map[string]any{"name": name, "video_ids": videoIDs}
	if err := s.client.Put(ctx, fmt.Sprintf("/v1/playlists/%d", id), body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// Delete removes a playlist and reloads the collection.
func (s *PlaylistsStore) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/v1/playlists/%d", id)); err != nil {
		return err
	}
	return s.GetAll(ctx)
}
