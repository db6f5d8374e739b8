package devices

import (
	"encoding/json"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev/mediapi-hub-go/internal/accounts"
	"github.com/dkovalev/mediapi-hub-go/internal/db"
	"github.com/dkovalev/mediapi-hub-go/internal/groups"
)

func setupTestDB(t *testing.T) (*Repository, *db.DBPair) {
	t.Helper()
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	dbPair, err := db.Init(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { dbPair.Close() })

	return NewRepository(dbPair), dbPair
}

func seedAccount(t *testing.T, dbPair *db.DBPair, name string) int64 {
	t.Helper()
	account, err := accounts.NewRepository(dbPair).Create(accounts.CreateAccountInput{Name: name})
	require.NoError(t, err)
	return account.ID
}

func seedGroup(t *testing.T, dbPair *db.DBPair, accountID int64, name string) int64 {
	t.Helper()
	group, err := groups.NewRepository(dbPair).Create(groups.CreateGroupInput{Name: name, AccountID: accountID})
	require.NoError(t, err)
	return group.ID
}

func TestRepository_CreateUnassigned(t *testing.T) {
	repo, _ := setupTestDB(t)

	device, err := repo.Create(CreateDeviceInput{Name: "lobby-screen"})
	require.NoError(t, err)
	require.NotNil(t, device)
	require.Equal(t, "lobby-screen", device.Name)
	require.Zero(t, device.AccountID)
	require.Zero(t, device.DeviceGroupID)
	require.False(t, device.Online)
}

func TestRepository_GetByIDMissing(t *testing.T) {
	repo, _ := setupTestDB(t)

	device, err := repo.GetByID(42)
	require.NoError(t, err)
	require.Nil(t, device)
}

func TestRepository_AssignAccountClearsGroup(t *testing.T) {
	repo, dbPair := setupTestDB(t)
	accountID := seedAccount(t, dbPair, "Retail")
	groupID := seedGroup(t, dbPair, accountID, "Hall")
	otherAccountID := seedAccount(t, dbPair, "Wholesale")

	device, err := repo.Create(CreateDeviceInput{Name: "screen", AccountID: accountID, DeviceGroupID: groupID})
	require.NoError(t, err)
	require.Equal(t, groupID, device.DeviceGroupID)

	moved, err := repo.AssignAccount(device.ID, otherAccountID)
	require.NoError(t, err)
	require.NotNil(t, moved)
	require.Equal(t, otherAccountID, moved.AccountID)
	require.Zero(t, moved.DeviceGroupID)
}

func TestRepository_AssignAccountMissingDevice(t *testing.T) {
	repo, dbPair := setupTestDB(t)
	accountID := seedAccount(t, dbPair, "Retail")

	device, err := repo.AssignAccount(99, accountID)
	require.NoError(t, err)
	require.Nil(t, device)
}

func TestRepository_UnassignGroupKeepsAccount(t *testing.T) {
	repo, dbPair := setupTestDB(t)
	accountID := seedAccount(t, dbPair, "Retail")
	groupID := seedGroup(t, dbPair, accountID, "Hall")

	device, err := repo.Create(CreateDeviceInput{Name: "screen", AccountID: accountID, DeviceGroupID: groupID})
	require.NoError(t, err)

	updated, err := repo.UnassignGroup(device.ID)
	require.NoError(t, err)
	require.Equal(t, accountID, updated.AccountID)
	require.Zero(t, updated.DeviceGroupID)
}

func TestRepository_UnassignAccountClearsBoth(t *testing.T) {
	repo, dbPair := setupTestDB(t)
	accountID := seedAccount(t, dbPair, "Retail")
	groupID := seedGroup(t, dbPair, accountID, "Hall")

	device, err := repo.Create(CreateDeviceInput{Name: "screen", AccountID: accountID, DeviceGroupID: groupID})
	require.NoError(t, err)

	updated, err := repo.UnassignAccount(device.ID)
	require.NoError(t, err)
	require.Zero(t, updated.AccountID)
	require.Zero(t, updated.DeviceGroupID)
}

func TestRepository_ListFilters(t *testing.T) {
	repo, dbPair := setupTestDB(t)
	accountID := seedAccount(t, dbPair, "Retail")

	_, err := repo.Create(CreateDeviceInput{Name: "free-1"})
	require.NoError(t, err)
	_, err = repo.Create(CreateDeviceInput{Name: "owned", AccountID: accountID})
	require.NoError(t, err)
	_, err = repo.Create(CreateDeviceInput{Name: "free-2"})
	require.NoError(t, err)

	all, total, err := repo.List(ListFilter{}, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, all, 3)

	unassigned, total, err := repo.List(ListFilter{Unassigned: true}, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, "free-1", unassigned[0].Name)
	require.Equal(t, "free-2", unassigned[1].Name)

	owned, total, err := repo.List(ListFilter{AccountID: accountID}, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "owned", owned[0].Name)
}

func TestRepository_UpdateStatusMarksOnline(t *testing.T) {
	repo, _ := setupTestDB(t)

	device, err := repo.Create(CreateDeviceInput{Name: "screen"})
	require.NoError(t, err)

	status := json.RawMessage(`{"temp_c":52,"player":"idle"}`)
	updated, err := repo.UpdateStatus(device.ID, status)
	require.NoError(t, err)
	require.True(t, updated.Online)
	require.NotNil(t, updated.LastSeenAt)
	require.JSONEq(t, string(status), string(updated.Status))
}

func TestRepository_MarkStaleOffline(t *testing.T) {
	repo, dbPair := setupTestDB(t)

	device, err := repo.Create(CreateDeviceInput{Name: "screen"})
	require.NoError(t, err)
	_, err = repo.UpdateStatus(device.ID, json.RawMessage(`{}`))
	require.NoError(t, err)

	// A fresh report is within any reasonable window.
	stale, err := repo.MarkStaleOffline(3600)
	require.NoError(t, err)
	require.Empty(t, stale)

	// Age the report artificially, then sweep.
	_, err = dbPair.Writer().Exec(
		"UPDATE devices SET last_seen_at = datetime('now', '-2 hours') WHERE id = ?", device.ID,
	)
	require.NoError(t, err)

	stale, err = repo.MarkStaleOffline(3600)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	require.Equal(t, device.ID, stale[0].ID)
	require.False(t, stale[0].Online)

	current, err := repo.GetByID(device.ID)
	require.NoError(t, err)
	require.False(t, current.Online)

	total, online, err := repo.CountByState()
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Zero(t, online)
}

func TestRepository_DeletedAccountDetachesDevices(t *testing.T) {
	repo, dbPair := setupTestDB(t)
	accountID := seedAccount(t, dbPair, "Retail")

	device, err := repo.Create(CreateDeviceInput{Name: "screen", AccountID: accountID})
	require.NoError(t, err)

	deleted, err := accounts.NewRepository(dbPair).Delete(accountID)
	require.NoError(t, err)
	require.True(t, deleted)

	// ON DELETE SET NULL: the device survives, globally unassigned.
	current, err := repo.GetByID(device.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	require.Zero(t, current.AccountID)
}

func TestRepository_Delete(t *testing.T) {
	repo, _ := setupTestDB(t)

	device, err := repo.Create(CreateDeviceInput{Name: "screen"})
	require.NoError(t, err)

	deleted, err := repo.Delete(device.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = repo.Delete(device.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}
