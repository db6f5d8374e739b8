package tree

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeCollection struct {
	calls atomic.Int64
	err   error
}

func (f *fakeCollection) GetAll(ctx context.Context) error {
	f.calls.Add(1)
	return f.err
}

type fakeAlerts struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeAlerts) Error(message string) {
	f.mu.Lock()
	f.messages = append(f.messages, message)
	f.mu.Unlock()
}

func (f *fakeAlerts) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

func TestLoaderRootUnassignedLoadsDevices(t *testing.T) {
	accounts, devices, groups := &fakeCollection{}, &fakeCollection{}, &fakeCollection{}
	loader := NewLoader(accounts, devices, groups, &fakeAlerts{})

	loader.LoadChildren(context.Background(), Node{ID: RootUnassigned, Name: "Нераспределённые устройства"})

	require.Equal(t, int64(1), devices.calls.Load())
	require.Equal(t, int64(0), accounts.calls.Load())
	require.Equal(t, int64(0), groups.calls.Load())
	require.True(t, loader.IsLoaded(RootUnassigned))
}

func TestLoaderRootAccountsLoadsAccounts(t *testing.T) {
	accounts, devices, groups := &fakeCollection{}, &fakeCollection{}, &fakeCollection{}
	loader := NewLoader(accounts, devices, groups, &fakeAlerts{})

	loader.LoadChildren(context.Background(), Node{ID: RootAccounts, Name: "Аккаунты"})

	require.Equal(t, int64(1), accounts.calls.Load())
	require.Equal(t, int64(0), devices.calls.Load())
}

func TestLoaderGroupsContainerLoadsGroups(t *testing.T) {
	accounts, devices, groups := &fakeCollection{}, &fakeCollection{}, &fakeCollection{}
	loader := NewLoader(accounts, devices, groups, &fakeAlerts{})

	loader.LoadChildren(context.Background(), Node{ID: "account-3-groups", Name: "Группы"})

	require.Equal(t, int64(1), groups.calls.Load())
	require.True(t, loader.IsLoaded("account-3-groups"))
}

func TestLoaderAccountNodeLoadsDevicesAndGroups(t *testing.T) {
	accounts, devices, groups := &fakeCollection{}, &fakeCollection{}, &fakeCollection{}
	loader := NewLoader(accounts, devices, groups, &fakeAlerts{})

	loader.LoadChildren(context.Background(), Node{ID: "account-3", Name: "Retail"})

	require.Equal(t, int64(1), devices.calls.Load())
	require.Equal(t, int64(1), groups.calls.Load())
	require.Equal(t, int64(0), accounts.calls.Load())
	require.True(t, loader.IsLoaded("account-3"))
}

func TestLoaderSkipsAlreadyLoaded(t *testing.T) {
	accounts, devices, groups := &fakeCollection{}, &fakeCollection{}, &fakeCollection{}
	loader := NewLoader(accounts, devices, groups, &fakeAlerts{})
	node := Node{ID: RootUnassigned, Name: "Нераспределённые устройства"}

	loader.LoadChildren(context.Background(), node)
	loader.LoadChildren(context.Background(), node)

	require.Equal(t, int64(1), devices.calls.Load())
}

func TestLoaderFailureLeavesNodeUnloadedAndRetries(t *testing.T) {
	devices := &fakeCollection{err: errors.New("boom")}
	alerts := &fakeAlerts{}
	loader := NewLoader(&fakeCollection{}, devices, &fakeCollection{}, alerts)
	node := Node{ID: RootUnassigned, Name: "Нераспределённые устройства"}

	loader.LoadChildren(context.Background(), node)

	require.False(t, loader.IsLoaded(RootUnassigned))
	require.Equal(t, []string{"Не удалось загрузить Нераспределённые устройства"}, alerts.all())

	// The node stays retryable: once the backend recovers the next expand
	// loads it.
	devices.err = nil
	loader.LoadChildren(context.Background(), node)

	require.Equal(t, int64(2), devices.calls.Load())
	require.True(t, loader.IsLoaded(RootUnassigned))
}

func TestLoaderAccountNodeFailureInEitherLeavesUnloaded(t *testing.T) {
	groups := &fakeCollection{err: errors.New("boom")}
	alerts := &fakeAlerts{}
	loader := NewLoader(&fakeCollection{}, &fakeCollection{}, groups, alerts)

	loader.LoadChildren(context.Background(), Node{ID: "account-3", Name: "Retail"})

	require.False(t, loader.IsLoaded("account-3"))
	require.Len(t, alerts.all(), 1)
}
