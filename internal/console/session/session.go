// Package session persists the console's login state. The current user and
// token pair live in a single JSON file named after the storage key "user";
// a missing or unreadable file simply means logged out.
package session

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/dkovalev/mediapi-hub-go/internal/console/tree"
)

// User is the authenticated console operator with the issued token pair.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Session owns the persisted login state.
type Session struct {
	mu   sync.Mutex
	path string
	user *User
}

// New loads the session from the state directory. Any failure to read or
// parse the stored file yields a logged-out session.
func New(stateDir string) *Session {
	s := &Session{path: filepath.Join(stateDir, "user.json")}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("session: read %s: %v", s.path, err)
		}
		return s
	}
	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		log.Printf("session: corrupt state file %s: %v", s.path, err)
		return s
	}
	s.user = &user
	return s
}

// Current returns the logged-in user, or nil.
func (s *Session) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	copied := *s.user
	return &copied
}

// LoggedIn reports whether a user is present.
func (s *Session) LoggedIn() bool {
	return s.Current() != nil
}

// SetUser stores the user and persists it. A write failure keeps the
// in-memory state so the running session still works.
func (s *Session) SetUser(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	raw, err := json.Marshal(user)
	if err != nil {
		log.Printf("session: encode state: %v", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0600); err != nil {
		log.Printf("session: write %s: %v", s.path, err)
	}
}

// Clear logs out and removes the persisted file.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("session: remove %s: %v", s.path, err)
	}
}

// Token returns the current access token, or "" when logged out. Suitable as
// a transport.TokenSource.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.AccessToken
}

// RoleFlags derives the role booleans of the current user for capability
// checks. All false when logged out.
func (s *Session) RoleFlags() tree.RoleFlags {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return tree.RoleFlags{}
	}
	return tree.RoleFlags{
		Administrator: s.user.Role == "administrator",
		Manager:       s.user.Role == "manager",
		Engineer:      s.user.Role == "engineer",
	}
}
