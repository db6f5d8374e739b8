package db

import (
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DBPair {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	pair, err := Init(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { pair.Close() })

	return pair
}

func TestInitRejectsEmptyPath(t *testing.T) {
	_, err := Init("")
	require.Error(t, err)
}

func TestForeignKeysEnforced(t *testing.T) {
	pair := setupTestDB(t)

	_, err := pair.Writer().Exec("INSERT INTO device_groups (name, account_id) VALUES ('Hall', 999)")
	require.Error(t, err)
}

func TestForeignKeysSurviveConnectionRecycle(t *testing.T) {
	pair := setupTestDB(t)

	_, err := pair.Writer().Exec("INSERT INTO accounts (name) VALUES ('Retail')")
	require.NoError(t, err)
	_, err = pair.Writer().Exec("INSERT INTO device_groups (name, account_id) VALUES ('Hall', 1)")
	require.NoError(t, err)
	_, err = pair.Writer().Exec("INSERT INTO devices (name, account_id) VALUES ('screen', 1)")
	require.NoError(t, err)

	// Expire the pooled connection so the delete below runs on a freshly
	// opened one; enforcement must come from the connection string, not
	// from a one-shot pragma on the first connection.
	pair.Writer().SetConnMaxLifetime(time.Nanosecond)
	time.Sleep(time.Millisecond)

	_, err = pair.Writer().Exec("DELETE FROM accounts WHERE id = 1")
	require.NoError(t, err)

	var groupCount int
	require.NoError(t, pair.Reader().QueryRow("SELECT COUNT(*) FROM device_groups").Scan(&groupCount))
	require.Zero(t, groupCount, "account delete must cascade to its groups")

	var accountID any
	require.NoError(t, pair.Reader().QueryRow("SELECT account_id FROM devices WHERE id = 1").Scan(&accountID))
	require.Nil(t, accountID, "account delete must detach its devices")
}

func TestGroupDeleteDetachesDevicesAfterRecycle(t *testing.T) {
	pair := setupTestDB(t)

	_, err := pair.Writer().Exec("INSERT INTO accounts (name) VALUES ('Retail')")
	require.NoError(t, err)
	_, err = pair.Writer().Exec("INSERT INTO device_groups (name, account_id) VALUES ('Hall', 1)")
	require.NoError(t, err)
	_, err = pair.Writer().Exec("INSERT INTO devices (name, account_id, device_group_id) VALUES ('screen', 1, 1)")
	require.NoError(t, err)

	pair.Writer().SetConnMaxLifetime(time.Nanosecond)
	time.Sleep(time.Millisecond)

	_, err = pair.Writer().Exec("DELETE FROM device_groups WHERE id = 1")
	require.NoError(t, err)

	var accountID, groupID any
	require.NoError(t, pair.Reader().QueryRow(
		"SELECT account_id, device_group_id FROM devices WHERE id = 1").Scan(&accountID, &groupID))
	require.NotNil(t, accountID, "group delete keeps the account assignment")
	require.Nil(t, groupID, "group delete must unassign its devices")
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	pair, err := Init(dbPath)
	require.NoError(t, err)
	require.NoError(t, pair.Close())

	// A second Init over the same file must not fail re-adding columns.
	pair, err = Init(dbPath)
	require.NoError(t, err)
	require.NoError(t, pair.Close())
}
