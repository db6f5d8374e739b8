package tree

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Alerter surfaces user-facing notifications.
type Alerter interface {
	Error(message string)
}

// CollectionLoader refreshes one entity collection from the backend.
type CollectionLoader interface {
	GetAll(ctx context.Context) error
}

// Loader drives lazy child loading for tree nodes. Each node moves through
// unloaded -> loading -> loaded; a failed load drops back to unloaded so the
// next expand retries. Duplicate and re-entrant loads are no-ops.
type Loader struct {
	mu      sync.Mutex
	loading map[string]bool
	loaded  map[string]bool

	accounts CollectionLoader
	devices  CollectionLoader
	groups   CollectionLoader
	alerts   Alerter
}

// NewLoader creates a lazy-load coordinator over the three tree collections.
func NewLoader(accounts, devices, groups CollectionLoader, alerts Alerter) *Loader {
	return &Loader{
		loading:  make(map[string]bool),
		loaded:   make(map[string]bool),
		accounts: accounts,
		devices:  devices,
		groups:   groups,
		alerts:   alerts,
	}
}

// Loaded returns a snapshot of the loaded-node set for the tree builder.
func (l *Loader) Loaded() map[string]bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := make(map[string]bool, len(l.loaded))
	for id := range l.loaded {
		snapshot[id] = true
	}
	return snapshot
}

// IsLoaded reports whether a node's children have been fetched.
func (l *Loader) IsLoaded(nodeID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded[nodeID]
}

// LoadChildren fetches the collections backing a node's children. The root
// unassigned node loads devices; the accounts root loads accounts; a groups
// container loads device groups. An account node loads devices and groups
// concurrently: both must settle, and a failure in either leaves the node
// unloaded with a single surfaced error.
func (l *Loader) LoadChildren(ctx context.Context, node Node) {
	l.mu.Lock()
	if l.loaded[node.ID] || l.loading[node.ID] {
		l.mu.Unlock()
		return
	}
	l.loading[node.ID] = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.loading, node.ID)
		l.mu.Unlock()
	}()

	var err error
	switch {
	case node.ID == RootUnassigned:
		err = l.devices.GetAll(ctx)
	case node.ID == RootAccounts:
		err = l.accounts.GetAll(ctx)
	case strings.HasSuffix(node.ID, "-groups"):
		err = l.groups.GetAll(ctx)
	case strings.HasPrefix(node.ID, PrefixAccount+"-"):
		err = l.loadAccountNode(ctx)
	}
	if err != nil {
		l.alerts.Error(fmt.Sprintf("Не удалось загрузить %s", node.Name))
		return
	}

	l.mu.Lock()
	l.loaded[node.ID] = true
	l.mu.Unlock()
}

// loadAccountNode fires the devices and groups fetches concurrently and
// reports the first failure after both settle.
func (l *Loader) loadAccountNode(ctx context.Context) error {
	var wg sync.WaitGroup
	var devicesErr, groupsErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		devicesErr = l.devices.GetAll(ctx)
	}()
	go func() {
		defer wg.Done()
		groupsErr = l.groups.GetAll(ctx)
	}()
	wg.Wait()

	if devicesErr != nil {
		return devicesErr
	}
	return groupsErr
}
