package devices

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

// Repository provides device persistence.
type Repository struct {
	reader *sql.DB
	writer *sql.DB
}

// NewRepository creates a device repository.
func NewRepository(dbPair DBPair) *Repository {
	return &Repository{reader: dbPair.Reader(), writer: dbPair.Writer()}
}

const deviceColumns = "id, name, account_id, device_group_id, status_json, last_seen_at, online, created_at, updated_at"

func scanDevice(row interface{ Scan(...any) error }) (*Device, error) {
	device := &Device{}
	var accountID, groupID sql.NullInt64
	var statusJSON sql.NullString
	var lastSeen sql.NullString
	var online int
	err := row.Scan(&device.ID, &device.Name, &accountID, &groupID, &statusJSON, &lastSeen, &online, &device.CreatedAt, &device.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if accountID.Valid {
		device.AccountID = accountID.Int64
	}
	if groupID.Valid {
		device.DeviceGroupID = groupID.Int64
	}
	if statusJSON.Valid && statusJSON.String != "" {
		device.Status = json.RawMessage(statusJSON.String)
	}
	if lastSeen.Valid {
		device.LastSeenAt = &lastSeen.String
	}
	device.Online = online != 0
	return device, nil
}

// nullableID turns 0 into NULL so the unassigned states are canonical in storage.
func nullableID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}

// Create registers a new device.
func (r *Repository) Create(input CreateDeviceInput) (*Device, error) {
	result, err := r.writer.Exec(
		"INSERT INTO devices (name, account_id, device_group_id) VALUES (?, ?, ?)",
		input.Name, nullableID(input.AccountID), nullableID(input.DeviceGroupID),
	)
	if err != nil {
		return nil, fmt.Errorf("insert device: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("device id: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves a device by ID. Returns nil when not found.
func (r *Repository) GetByID(id int64) (*Device, error) {
	row := r.reader.QueryRow("SELECT "+deviceColumns+" FROM devices WHERE id = ?", id)
	device, err := scanDevice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan device: %w", err)
	}
	return device, nil
}

// ListFilter narrows List results.
type ListFilter struct {
	AccountID  int64 // >0 filters to one account
	Unassigned bool  // devices with no account
}

// List retrieves devices ordered by ID.
func (r *Repository) List(filter ListFilter, limit, offset int) ([]Device, int, error) {
	where := ""
	args := []any{}
	switch {
	case filter.Unassigned:
		where = " WHERE account_id IS NULL"
	case filter.AccountID > 0:
		where = " WHERE account_id = ?"
		args = append(args, filter.AccountID)
	}

	var total int
	if err := r.reader.QueryRow("SELECT COUNT(*) FROM devices"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count devices: %w", err)
	}

	queryArgs := append(args, limit, offset)
	rows, err := r.reader.Query(
		"SELECT "+deviceColumns+" FROM devices"+where+" ORDER BY id LIMIT ? OFFSET ?", queryArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query devices: %w", err)
	}
	defer rows.Close()

	result := make([]Device, 0)
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan device: %w", err)
		}
		result = append(result, *device)
	}
	return result, total, rows.Err()
}

// Update applies the provided fields. Returns nil when the device does not exist.
func (r *Repository) Update(id int64, input UpdateDeviceInput) (*Device, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if input.Name != nil {
		if _, err := r.writer.Exec(
			"UPDATE devices SET name = ?, updated_at = datetime('now') WHERE id = ?",
			*input.Name, id,
		); err != nil {
			return nil, fmt.Errorf("update device: %w", err)
		}
	}
	return r.GetByID(id)
}

// AssignAccount moves a device to an account, clearing any group membership.
func (r *Repository) AssignAccount(id, accountID int64) (*Device, error) {
	result, err := r.writer.Exec(
		"UPDATE devices SET account_id = ?, device_group_id = NULL, updated_at = datetime('now') WHERE id = ?",
		accountID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("assign account: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}
	return r.GetByID(id)
}

// AssignGroup moves a device into a device group.
func (r *Repository) AssignGroup(id, groupID int64) (*Device, error) {
	result, err := r.writer.Exec(
		"UPDATE devices SET device_group_id = ?, updated_at = datetime('now') WHERE id = ?",
		groupID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("assign group: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}
	return r.GetByID(id)
}

// UnassignGroup removes the device from its group; account membership stays.
func (r *Repository) UnassignGroup(id int64) (*Device, error) {
	result, err := r.writer.Exec(
		"UPDATE devices SET device_group_id = NULL, updated_at = datetime('now') WHERE id = ?", id,
	)
	if err != nil {
		return nil, fmt.Errorf("unassign group: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}
	return r.GetByID(id)
}

// UnassignAccount makes the device globally unassigned.
func (r *Repository) UnassignAccount(id int64) (*Device, error) {
	result, err := r.writer.Exec(
		"UPDATE devices SET account_id = NULL, device_group_id = NULL, updated_at = datetime('now') WHERE id = ?", id,
	)
	if err != nil {
		return nil, fmt.Errorf("unassign account: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}
	return r.GetByID(id)
}

// UpdateStatus records a status report from the device and stamps last_seen_at.
func (r *Repository) UpdateStatus(id int64, status json.RawMessage) (*Device, error) {
	result, err := r.writer.Exec(
		"UPDATE devices SET status_json = ?, online = 1, last_seen_at = datetime('now'), updated_at = datetime('now') WHERE id = ?",
		string(status), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, nil
	}
	return r.GetByID(id)
}

// MarkStaleOffline flips devices to offline when they have not reported within
// staleAfterSec seconds. Returns the devices that changed state.
func (r *Repository) MarkStaleOffline(staleAfterSec int) ([]Device, error) {
	rows, err := r.reader.Query(
		"SELECT "+deviceColumns+" FROM devices WHERE online = 1 AND (last_seen_at IS NULL OR last_seen_at < datetime('now', ?))",
		fmt.Sprintf("-%d seconds", staleAfterSec),
	)
	if err != nil {
		return nil, fmt.Errorf("query stale devices: %w", err)
	}
	defer rows.Close()

	stale := make([]Device, 0)
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stale device: %w", err)
		}
		stale = append(stale, *device)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range stale {
		if _, err := r.writer.Exec(
			"UPDATE devices SET online = 0, updated_at = datetime('now') WHERE id = ?", stale[i].ID,
		); err != nil {
			return nil, fmt.Errorf("mark offline: %w", err)
		}
		stale[i].Online = false
	}
	return stale, nil
}

// CountByState returns total and online device counts.
func (r *Repository) CountByState() (total, online int, err error) {
	if err := r.reader.QueryRow("SELECT COUNT(*), COALESCE(SUM(online), 0) FROM devices").Scan(&total, &online); err != nil {
		return 0, 0, fmt.Errorf("count devices: %w", err)
	}
	return total, online, nil
}

// Delete removes a device. Returns false when not found.
func (r *Repository) Delete(id int64) (bool, error) {
	result, err := r.writer.Exec("DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete device: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete device rows: %w", err)
	}
	return affected > 0, nil
}
