package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkovalev/mediapi-hub-go/internal/console/transport"
)

// VideosStore caches the video collection.
type VideosStore struct {
	mu      sync.Mutex
	client  *transport.Client
	items   []Video
	loading bool
	err     error
}

// NewVideosStore creates a store over the given client.
func NewVideosStore(client *transport.Client) *VideosStore {
	return &VideosStore{client: client}
}

// All returns the cached videos.
func (s *VideosStore) All() []Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Video(nil), s.items...)
}

// Get returns the cached video with the given ID, or nil.
func (s *VideosStore) Get(id int64) *Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			video := s.items[i]
			return &video
		}
	}
	return nil
}

// Loading reports whether a fetch is in flight.
func (s *VideosStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch error.
func (s *VideosStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// GetAll refreshes the cache from the backend.
func (s *VideosStore) GetAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var list struct {
		Data []Video `json:"data"`
	}
	err := s.client.Get(ctx, "/v1/videos", &list)

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

// Create registers a video and reloads the collection.
func (s *VideosStore) Create(ctx context.Context, name, uri string, durationSec *int64) error {
	body := map[string]any{"name": name, "uri": uri}
	if durationSec != nil {
		body["duration_sec"] = *durationSec
	}
	if err := s.client.Post(ctx, "/v1/videos", body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// Update replaces a video's fields and reloads the collection.
func (s *VideosStore) Update(ctx context.Context, id int64, name, uri string, durationSec *int64) error {
	body := map[string]any{"name": name, "uri": uri}
	if durationSec != nil {
		body["duration_sec"] = *durationSec
	}
	if err := s.client.Put(ctx, fmt.Sprintf("/v1/videos/%d", id), body, nil); err != nil {
		return err
	}
	return s.GetAll(ctx)
}

// Delete removes a video and reloads the collection.
func (s *VideosStore) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/v1/videos/%d", id)); err != nil {
		return err
	}
	return s.GetAll(ctx)
}
