package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkovalev/mediapi-hub-go/internal/console/tree"
)

func TestSessionStartsLoggedOut(t *testing.T) {
	session := New(t.TempDir())

	require.False(t, session.LoggedIn())
	require.Nil(t, session.Current())
	require.Empty(t, session.Token())
	require.Equal(t, tree.RoleFlags{}, session.RoleFlags())
}

func TestSessionPersistsUser(t *testing.T) {
	dir := t.TempDir()
	session := New(dir)

	session.SetUser(User{
		ID:          1,
		Username:    "admin",
		Role:        "administrator",
		AccessToken: "tok-a",
	})

	require.True(t, session.LoggedIn())
	require.Equal(t, "tok-a", session.Token())
	require.True(t, session.RoleFlags().Administrator)

	// A fresh session over the same directory picks up the stored user.
	restored := New(dir)
	current := restored.Current()
	require.NotNil(t, current)
	require.Equal(t, "admin", current.Username)
	require.Equal(t, "tok-a", restored.Token())
}

func TestSessionClear(t *testing.T) {
	dir := t.TempDir()
	session := New(dir)
	session.SetUser(User{ID: 1, Username: "admin", Role: "administrator"})

	session.Clear()

	require.False(t, session.LoggedIn())
	_, err := os.Stat(filepath.Join(dir, "user.json"))
	require.True(t, os.IsNotExist(err))

	require.False(t, New(dir).LoggedIn())
}

func TestSessionCorruptFileMeansLoggedOut(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte("{not json"), 0600))

	session := New(dir)

	require.False(t, session.LoggedIn())
	require.Empty(t, session.Token())
}

func TestSessionRoleFlags(t *testing.T) {
	session := New(t.TempDir())

	session.SetUser(User{ID: 2, Username: "ops", Role: "manager"})
	require.Equal(t, tree.RoleFlags{Manager: true}, session.RoleFlags())

	session.SetUser(User{ID: 3, Username: "field", Role: "engineer"})
	require.Equal(t, tree.RoleFlags{Engineer: true}, session.RoleFlags())
}
