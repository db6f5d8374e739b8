package groups

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

// Repository provides device group persistence.
type Repository struct {
	reader *sql.DB
	writer *sql.DB
}

// NewRepository creates a device group repository.
func NewRepository(dbPair DBPair) *Repository {
	return &Repository{reader: dbPair.Reader(), writer: dbPair.Writer()}
}

const groupColumns = "id, name, account_id, playlists_json, created_at, updated_at"

func scanGroup(row interface{ Scan(...any) error }) (*DeviceGroup, error) {
	group := &DeviceGroup{}
	var playlistsJSON string
	err := row.Scan(&group.ID, &group.Name, &group.AccountID, &playlistsJSON, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(playlistsJSON), &group.Playlists); err != nil {
		return nil, fmt.Errorf("decode playlists: %w", err)
	}
	if group.Playlists == nil {
		group.Playlists = []PlaylistEntry{}
	}
	return group, nil
}

// Create inserts a new device group.
func (r *Repository) Create(input CreateGroupInput) (*DeviceGroup, error) {
	playlists := input.Playlists
	if playlists == nil {
		playlists = []PlaylistEntry{}
	}
	playlistsJSON, err := json.Marshal(playlists)
	if err != nil {
		return nil, fmt.Errorf("encode playlists: %w", err)
	}

	result, err := r.writer.Exec(
		"INSERT INTO device_groups (name, account_id, playlists_json) VALUES (?, ?, ?)",
		input.Name, input.AccountID, string(playlistsJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("group id: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves a device group by ID. Returns nil when not found.
func (r *Repository) GetByID(id int64) (*DeviceGroup, error) {
	row := r.reader.QueryRow("SELECT "+groupColumns+" FROM device_groups WHERE id = ?", id)
	group, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan group: %w", err)
	}
	return group, nil
}

// List retrieves device groups ordered by ID, optionally filtered by account.
// accountID <= 0 means no filter.
func (r *Repository) List(accountID int64, limit, offset int) ([]DeviceGroup, int, error) {
	where := ""
	countArgs := []any{}
	if accountID > 0 {
		where = " WHERE account_id = ?"
		countArgs = append(countArgs, accountID)
	}

	var total int
	if err := r.reader.QueryRow("SELECT COUNT(*) FROM device_groups"+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count groups: %w", err)
	}

	args := append(countArgs, limit, offset)
	rows, err := r.reader.Query(
		"SELECT "+groupColumns+" FROM device_groups"+where+" ORDER BY id LIMIT ? OFFSET ?", args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	result := make([]DeviceGroup, 0)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan group: %w", err)
		}
		result = append(result, *group)
	}
	return result, total, rows.Err()
}

// Update applies the provided fields. Returns nil when the group does not exist.
func (r *Repository) Update(id int64, input UpdateGroupInput) (*DeviceGroup, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if input.Name != nil {
		if _, err := r.writer.Exec(
			"UPDATE device_groups SET name = ?, updated_at = datetime('now') WHERE id = ?",
			*input.Name, id,
		); err != nil {
			return nil, fmt.Errorf("update group name: %w", err)
		}
	}
	if input.Playlists != nil {
		playlistsJSON, err := json.Marshal(*input.Playlists)
		if err != nil {
			return nil, fmt.Errorf("encode playlists: %w", err)
		}
		if _, err := r.writer.Exec(
			"UPDATE device_groups SET playlists_json = ?, updated_at = datetime('now') WHERE id = ?",
			string(playlistsJSON), id,
		); err != nil {
			return nil, fmt.Errorf("update group playlists: %w", err)
		}
	}
	return r.GetByID(id)
}

// Delete removes a device group. Devices in the group stay on the account with
// the group reference cleared by the foreign key action. Returns false when not found.
func (r *Repository) Delete(id int64) (bool, error) {
	result, err := r.writer.Exec("DELETE FROM device_groups WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete group: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete group rows: %w", err)
	}
	return affected > 0, nil
}
