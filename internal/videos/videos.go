// Package videos stores video metadata; the media files themselves live on the
// distribution storage and are referenced by URI.
package videos

import (
	"database/sql"
	"errors"
	"fmt"
)

// Video is a single media item.
type Video struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	URI         string `json:"uri"`
	DurationSec *int64 `json:"duration_sec,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateVideoInput contains the input for registering a video.
type CreateVideoInput struct {
	Name        string `json:"name"`
	URI         string `json:"uri"`
	DurationSec *int64 `json:"duration_sec,omitempty"`
}

// UpdateVideoInput contains the input for updating a video.
type UpdateVideoInput struct {
	Name        *string `json:"name,omitempty"`
	URI         *string `json:"uri,omitempty"`
	DurationSec *int64  `json:"duration_sec,omitempty"`
}

// DBPair matches db.DBPair for dependency injection.
type DBPair interface {
	Reader() *sql.DB
	Writer() *sql.DB
}

// Repository provides video persistence.
type Repository struct {
	reader *sql.DB
	writer *sql.DB
}

// NewRepository creates a video repository.
func NewRepository(dbPair DBPair) *Repository {
	return &Repository{reader: dbPair.Reader(), writer: dbPair.Writer()}
}

func scanVideo(row interface{ Scan(...any) error }) (*Video, error) {
	video := &Video{}
	var duration sql.NullInt64
	err := row.Scan(&video.ID, &video.Name, &video.URI, &duration, &video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if duration.Valid {
		video.DurationSec = &duration.Int64
	}
	return video, nil
}

// Create registers a new video.
func (r *Repository) Create(input CreateVideoInput) (*Video, error) {
	result, err := r.writer.Exec(
		"INSERT INTO videos (name, uri, duration_sec) VALUES (?, ?, ?)",
		input.Name, input.URI, input.DurationSec,
	)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("video id: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves a video by ID. Returns nil when not found.
func (r *Repository) GetByID(id int64) (*Video, error) {
	row := r.reader.QueryRow(
		"SELECT id, name, uri, duration_sec, created_at, updated_at FROM videos WHERE id = ?", id,
	)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan video: %w", err)
	}
	return video, nil
}

// List retrieves videos ordered by ID.
func (r *Repository) List(limit, offset int) ([]Video, int, error) {
	var total int
	if err := r.reader.QueryRow("SELECT COUNT(*) FROM videos").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	rows, err := r.reader.Query(
		"SELECT id, name, uri, duration_sec, created_at, updated_at FROM videos ORDER BY id LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	result := make([]Video, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan video: %w", err)
		}
		result = append(result, *video)
	}
	return result, total, rows.Err()
}

// Update applies the provided fields. Returns nil when the video does not exist.
func (r *Repository) Update(id int64, input UpdateVideoInput) (*Video, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if input.Name != nil {
		if _, err := r.writer.Exec(
			"UPDATE videos SET name = ?, updated_at = datetime('now') WHERE id = ?", *input.Name, id,
		); err != nil {
			return nil, fmt.Errorf("update video name: %w", err)
		}
	}
	if input.URI != nil {
		if _, err := r.writer.Exec(
			"UPDATE videos SET uri = ?, updated_at = datetime('now') WHERE id = ?", *input.URI, id,
		); err != nil {
			return nil, fmt.Errorf("update video uri: %w", err)
		}
	}
	if input.DurationSec != nil {
		if _, err := r.writer.Exec(
			"UPDATE videos SET duration_sec = ?, updated_at = datetime('now') WHERE id = ?", *input.DurationSec, id,
		); err != nil {
			return nil, fmt.Errorf("update video duration: %w", err)
		}
	}
	return r.GetByID(id)
}

// Delete removes a video. Returns false when not found.
func (r *Repository) Delete(id int64) (bool, error) {
	result, err := r.writer.Exec("DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete video: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete video rows: %w", err)
	}
	return affected > 0, nil
}
