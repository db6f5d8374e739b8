package playlists

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// DBPair matches db.DBPair for dependency injection.
type DBPair interface {
	Reader() *sql.DB
	Writer() *sql.DB
}

// Repository provides playlist persistence.
type Repository struct {
	reader *sql.DB
	writer *sql.DB
}

// NewRepository creates a playlist repository.
func NewRepository(dbPair DBPair) *Repository {
	return &Repository{reader: dbPair.Reader(), writer: dbPair.Writer()}
}

func scanPlaylist(row interface{ Scan(...any) error }) (*Playlist, error) {
	playlist := &Playlist{}
	var videosJSON string
	err := row.Scan(&playlist.ID, &playlist.Name, &videosJSON, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(videosJSON), &playlist.VideoIDs); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}
	if playlist.VideoIDs == nil {
		playlist.VideoIDs = []int64{}
	}
	return playlist, nil
}

// Create inserts a new playlist.
func (r *Repository) Create(input CreatePlaylistInput) (*Playlist, error) {
	videoIDs := input.VideoIDs
	if videoIDs == nil {
		videoIDs = []int64{}
	}
	videosJSON, err := json.Marshal(videoIDs)
	if err != nil {
		return nil, fmt.Errorf("encode videos: %w", err)
	}

	result, err := r.writer.Exec(
		"INSERT INTO playlists (name, videos_json) VALUES (?, ?)",
		input.Name, string(videosJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("insert playlist: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("playlist id: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves a playlist by ID. Returns nil when not found.
func (r *Repository) GetByID(id int64) (*Playlist, error) {
	row := r.reader.QueryRow(
		"SELECT id, name, videos_json, created_at, updated_at FROM playlists WHERE id = ?", id,
	)
	playlist, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan playlist: %w", err)
	}
	return playlist, nil
}

// List retrieves playlists ordered by ID.
func (r *Repository) List(limit, offset int) ([]Playlist, int, error) {
	var total int
	if err := r.reader.QueryRow("SELECT COUNT(*) FROM playlists").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count playlists: %w", err)
	}

	rows, err := r.reader.Query(
		"SELECT id, name, videos_json, created_at, updated_at FROM playlists ORDER BY id LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query playlists: %w", err)
	}
	defer rows.Close()

	result := make([]Playlist, 0)
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan playlist: %w", err)
		}
		result = append(result, *playlist)
	}
	return result, total, rows.Err()
}

// Update applies the provided fields. Returns nil when the playlist does not exist.
func (r *Repository) Update(id int64, input UpdatePlaylistInput) (*Playlist, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if input.Name != nil {
		if _, err := r.writer.Exec(
			"UPDATE playlists SET name = ?, updated_at = datetime('now') WHERE id = ?",
			*input.Name, id,
		); err != nil {
			return nil, fmt.Errorf("update playlist name: %w", err)
		}
	}
	if input.VideoIDs != nil {
		videosJSON, err := json.Marshal(*input.VideoIDs)
		if err != nil {
			return nil, fmt.Errorf("encode videos: %w", err)
		}
		if _, err := r.writer.Exec(
			"UPDATE playlists SET videos_json = ?, updated_at = datetime('now') WHERE id = ?",
			string(videosJSON), id,
		); err != nil {
			return nil, fmt.Errorf("update playlist videos: %w", err)
		}
	}
	return r.GetByID(id)
}

// Delete removes a playlist. Returns false when not found.
func (r *Repository) Delete(id int64) (bool, error) {
	result, err := r.writer.Exec("DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete playlist: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete playlist rows: %w", err)
	}
	return affected > 0, nil
}
