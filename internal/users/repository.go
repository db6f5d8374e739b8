package users

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkovalev/mediapi-hub-go/internal/auth"
)

// User is a console operator. PasswordHash never leaves the package.
type User struct {
	ID           int64
	Username     string
	Role         auth.Role
	passwordHash string
	CreatedAt    string
	UpdatedAt    string
}

// CreateUserInput contains the input for creating a user.
type CreateUserInput struct {
	Username string    `json:"username"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role"`
}

// UpdateUserInput contains the input for updating a user.
type UpdateUserInput struct {
	Username *string    `json:"username,omitempty"`
	Password *string    `json:"password,omitempty"`
	Role     *auth.Role `json:"role,omitempty"`
}

// DBPair matches db.DBPair for dependency injection.
type DBPair interface {
	Reader() *sql.DB
	Writer() *sql.DB
}

// Repository provides user persistence and credential checks.
type Repository struct {
	reader *sql.DB
	writer *sql.DB
}

// NewRepository creates a user repository.
func NewRepository(dbPair DBPair) *Repository {
	return &Repository{reader: dbPair.Reader(), writer: dbPair.Writer()}
}

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	user := &User{}
	err := row.Scan(&user.ID, &user.Username, &user.passwordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

const userColumns = "id, username, password_hash, role, created_at, updated_at"

// Create inserts a new user with a bcrypt-hashed password.
func (r *Repository) Create(input CreateUserInput) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	result, err := r.writer.Exec(
		"INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)",
		input.Username, string(hash), input.Role,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}
	return r.GetByID(id)
}

// GetByID retrieves a user by ID. Returns nil when not found.
func (r *Repository) GetByID(id int64) (*User, error) {
	row := r.reader.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username. Returns nil when not found.
func (r *Repository) GetByUsername(username string) (*User, error) {
	row := r.reader.QueryRow("SELECT "+userColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

// List retrieves users ordered by ID.
func (r *Repository) List(limit, offset int) ([]User, int, error) {
	var total int
	if err := r.reader.QueryRow("SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.reader.Query("SELECT "+userColumns+" FROM users ORDER BY id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	result := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		result = append(result, *user)
	}
	return result, total, rows.Err()
}

// Update applies the provided fields. Returns nil when the user does not exist.
func (r *Repository) Update(id int64, input UpdateUserInput) (*User, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if input.Username != nil {
		if _, err := r.writer.Exec(
			"UPDATE users SET username = ?, updated_at = datetime('now') WHERE id = ?", *input.Username, id,
		); err != nil {
			return nil, fmt.Errorf("update username: %w", err)
		}
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if _, err := r.writer.Exec(
			"UPDATE users SET password_hash = ?, updated_at = datetime('now') WHERE id = ?", string(hash), id,
		); err != nil {
			return nil, fmt.Errorf("update password: %w", err)
		}
	}
	if input.Role != nil {
		if _, err := r.writer.Exec(
			"UPDATE users SET role = ?, updated_at = datetime('now') WHERE id = ?", *input.Role, id,
		); err != nil {
			return nil, fmt.Errorf("update role: %w", err)
		}
	}
	return r.GetByID(id)
}

// Delete removes a user. Returns false when not found.
func (r *Repository) Delete(id int64) (bool, error) {
	result, err := r.writer.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user rows: %w", err)
	}
	return affected > 0, nil
}

// Authenticate implements auth.CredentialStore.
func (r *Repository) Authenticate(username, password string) (*auth.UserRecord, error) {
	user, err := r.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(user.passwordHash), []byte(password)) != nil {
		return nil, nil
	}
	return &auth.UserRecord{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Bootstrap creates the initial administrator when the users table is empty.
// Skipped silently when no password is configured.
func (r *Repository) Bootstrap(username, password string) error {
	if password == "" {
		return nil
	}
	var count int
	if err := r.reader.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	if _, err := r.Create(CreateUserInput{
		Username: username,
		Password: password,
		Role:     auth.RoleAdministrator,
	}); err != nil {
		return err
	}
	log.Printf("bootstrap: created administrator %q", username)
	return nil
}
