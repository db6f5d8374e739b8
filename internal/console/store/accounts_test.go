package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkovalev/mediapi-hub-go/internal/console/transport"
)

// fakeBackend serves the accounts collection from memory using the hub's
// list envelope and error body.
type fakeBackend struct {
	accounts map[int64]Account
	nextID   int64
	failList bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{accounts: make(map[int64]Account), nextID: 1}
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/accounts", func(w http.ResponseWriter, r *http.Request) {
		if b.failList {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"type":"api_error","message":"Failed to list accounts"}}`))
			return
		}
		data := make([]Account, 0, len(b.accounts))
		for id := int64(1); id < b.nextID; id++ {
			if account, ok := b.accounts[id]; ok {
				data = append(data, account)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
	})
	mux.HandleFunc("POST /v1/accounts", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		account := Account{ID: b.nextID, Name: body.Name}
		b.accounts[account.ID] = account
		b.nextID++
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(account)
	})
	mux.HandleFunc("PUT /v1/accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		var id int64
		fmt.Sscanf(r.PathValue("id"), "%d", &id)
		account, ok := b.accounts[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"ACCOUNT_NOT_FOUND","message":"No such account"}}`))
			return
		}
		var body struct {
			Name string `json:"name"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		account.Name = body.Name
		b.accounts[id] = account
		json.NewEncoder(w).Encode(account)
	})
	mux.HandleFunc("DELETE /v1/accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		var id int64
		fmt.Sscanf(r.PathValue("id"), "%d", &id)
		delete(b.accounts, id)
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func setupAccountsStore(t *testing.T) (*AccountsStore, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return NewAccountsStore(transport.NewClient(server.URL, nil)), backend
}

func TestAccountsStoreGetAll(t *testing.T) {
	store, backend := setupAccountsStore(t)
	backend.accounts[1] = Account{ID: 1, Name: "Retail"}
	backend.nextID = 2

	require.NoError(t, store.GetAll(context.Background()))
	require.Equal(t, []Account{{ID: 1, Name: "Retail"}}, store.All())
	require.False(t, store.Loading())
	require.NoError(t, store.Err())
}

func TestAccountsStoreGetAllFailureKeepsCache(t *testing.T) {
	store, backend := setupAccountsStore(t)
	backend.accounts[1] = Account{ID: 1, Name: "Retail"}
	backend.nextID = 2
	require.NoError(t, store.GetAll(context.Background()))

	backend.failList = true
	err := store.GetAll(context.Background())

	require.Error(t, err)
	require.Error(t, store.Err())
	require.Len(t, store.All(), 1)
}

func TestAccountsStoreCreateReloads(t *testing.T) {
	store, _ := setupAccountsStore(t)

	require.NoError(t, store.Create(context.Background(), "Retail"))

	accounts := store.All()
	require.Len(t, accounts, 1)
	require.Equal(t, "Retail", accounts[0].Name)
	require.NotNil(t, store.Get(accounts[0].ID))
}

func TestAccountsStoreUpdateReloads(t *testing.T) {
	store, backend := setupAccountsStore(t)
	backend.accounts[1] = Account{ID: 1, Name: "Retail"}
	backend.nextID = 2

	require.NoError(t, store.Update(context.Background(), 1, "Wholesale"))
	require.Equal(t, "Wholesale", store.Get(1).Name)
}

func TestAccountsStoreDeleteReloads(t *testing.T) {
	store, backend := setupAccountsStore(t)
	backend.accounts[1] = Account{ID: 1, Name: "Retail"}
	backend.nextID = 2

	require.NoError(t, store.Delete(context.Background(), 1))
	require.Empty(t, store.All())
	require.Nil(t, store.Get(1))
}

func TestAccountsStoreMutationErrorPropagates(t *testing.T) {
	store, _ := setupAccountsStore(t)

	err := store.Update(context.Background(), 99, "x")

	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "No such account", apiErr.Message)
}
