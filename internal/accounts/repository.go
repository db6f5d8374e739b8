package accounts

import (
	"database/sql"
	"errors"
	"fmt"
)

// DBPair matches db.DBPair for dependency injection.
type DBPair interface {
	Reader() *sql.DB
	Writer() *sql.DB
}

// Repository provides account persistence.
type Repository struct {
	reader *sql.DB
	writer *sql.DB
}

// NewRepository creates an account repository.
func NewRepository(dbPair DBPair) *Repository {
	return &Repository{reader: dbPair.Reader(), writer: dbPair.Writer()}
}

// Create inserts a new account.
func (r *Repository) Create(input CreateAccountInput) (*Account, error) {
	result, err := r.writer.Exec(
		"INSERT INTO accounts (name) VALUES (?)",
		input.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("account id: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves an account by ID. Returns nil when not found.
func (r *Repository) GetByID(id int64) (*Account, error) {
	row := r.reader.QueryRow(
		"SELECT id, name, created_at, updated_at FROM accounts WHERE id = ?", id,
	)
	account := &Account{}
	err := row.Scan(&account.ID, &account.Name, &account.CreatedAt, &account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return account, nil
}

// List retrieves accounts ordered by ID.
func (r *Repository) List(limit, offset int) ([]Account, int, error) {
	var total int
	if err := r.reader.QueryRow("SELECT COUNT(*) FROM accounts").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	rows, err := r.reader.Query(
		"SELECT id, name, created_at, updated_at FROM accounts ORDER BY id LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	result := make([]Account, 0)
	for rows.Next() {
		var account Account
		if err := rows.Scan(&account.ID, &account.Name, &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan account: %w", err)
		}
		result = append(result, account)
	}
	return result, total, rows.Err()
}

// Update applies the provided fields. Returns nil when the account does not exist.
func (r *Repository) Update(id int64, input UpdateAccountInput) (*Account, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if input.Name != nil {
		if _, err := r.writer.Exec(
			"UPDATE accounts SET name = ?, updated_at = datetime('now') WHERE id = ?",
			*input.Name, id,
		); err != nil {
			return nil, fmt.Errorf("update account: %w", err)
		}
	}
	return r.GetByID(id)
}

// Delete removes an account. Its groups are removed and its devices become
// globally unassigned via foreign key actions. Returns false when not found.
func (r *Repository) Delete(id int64) (bool, error) {
	result, err := r.writer.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete account rows: %w", err)
	}
	return affected > 0, nil
}
