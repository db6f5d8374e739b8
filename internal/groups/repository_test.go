package groups

import (
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev/mediapi-hub-go/internal/accounts"
	"github.com/dkovalev/mediapi-hub-go/internal/db"
)

func setupTestDB(t *testing.T) (*Repository, *accounts.Repository) {
	t.Helper()
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	dbPair, err := db.Init(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { dbPair.Close() })

	return NewRepository(dbPair), accounts.NewRepository(dbPair)
}

func TestRepository_CreateWithPlaylists(t *testing.T) {
	repo, accountsRepo := setupTestDB(t)
	account, err := accountsRepo.Create(accounts.CreateAccountInput{Name: "Retail"})
	require.NoError(t, err)

	group, err := repo.Create(CreateGroupInput{
		Name:      "Hall",
		AccountID: account.ID,
		Playlists: []PlaylistEntry{{PlaylistID: 3, Play: true}, {PlaylistID: 7}},
	})
	require.NoError(t, err)
	require.Equal(t, "Hall", group.Name)
	require.Equal(t, account.ID, group.AccountID)
	require.Len(t, group.Playlists, 2)
	require.True(t, group.Playlists[0].Play)
	require.False(t, group.Playlists[1].Play)

	// Round-trips through playlists_json.
	loaded, err := repo.GetByID(group.ID)
	require.NoError(t, err)
	require.Equal(t, group.Playlists, loaded.Playlists)
}

func TestRepository_ListByAccount(t *testing.T) {
	repo, accountsRepo := setupTestDB(t)
	first, err := accountsRepo.Create(accounts.CreateAccountInput{Name: "Retail"})
	require.NoError(t, err)
	second, err := accountsRepo.Create(accounts.CreateAccountInput{Name: "Wholesale"})
	require.NoError(t, err)

	_, err = repo.Create(CreateGroupInput{Name: "Hall", AccountID: first.ID})
	require.NoError(t, err)
	_, err = repo.Create(CreateGroupInput{Name: "Depot", AccountID: second.ID})
	require.NoError(t, err)

	all, total, err := repo.List(0, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, all, 2)

	filtered, total, err := repo.List(first.ID, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Hall", filtered[0].Name)
}

func TestRepository_UpdateReplacesPlaylists(t *testing.T) {
	repo, accountsRepo := setupTestDB(t)
	account, err := accountsRepo.Create(accounts.CreateAccountInput{Name: "Retail"})
	require.NoError(t, err)

	group, err := repo.Create(CreateGroupInput{
		Name:      "Hall",
		AccountID: account.ID,
		Playlists: []PlaylistEntry{{PlaylistID: 1, Play: true}},
	})
	require.NoError(t, err)

	name := "Main Hall"
	playlists := []PlaylistEntry{{PlaylistID: 2}}
	updated, err := repo.Update(group.ID, UpdateGroupInput{Name: &name, Playlists: &playlists})
	require.NoError(t, err)
	require.Equal(t, "Main Hall", updated.Name)
	require.Equal(t, playlists, updated.Playlists)
}

func TestRepository_DeleteCascadesWithAccount(t *testing.T) {
	repo, accountsRepo := setupTestDB(t)
	account, err := accountsRepo.Create(accounts.CreateAccountInput{Name: "Retail"})
	require.NoError(t, err)

	group, err := repo.Create(CreateGroupInput{Name: "Hall", AccountID: account.ID})
	require.NoError(t, err)

	deleted, err := accountsRepo.Delete(account.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	loaded, err := repo.GetByID(group.ID)
	require.NoError(t, err)
	require.Nil(t, loaded)
}
