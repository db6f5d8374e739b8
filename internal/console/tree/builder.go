package tree

import (
	"sync"

	"github.com/dkovalev/mediapi-hub-go/internal/console/store"
)

// Root node display names shown in the navigation widget.
const (
	rootUnassignedName      = "Нераспределённые устройства"
	rootAccountsName        = "Аккаунты"
	groupsContainerName     = "Группы"
	unassignedContainerName = "Без группы"
)

// TransitionSet tracks devices that are mid-assignment. While a device ID is
// in the set the builders hide it from every tree position, so it cannot
// render twice (old and new location) while the request is outstanding. This
// affects rendering only; it does not serialize the underlying mutations.
type TransitionSet struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

// NewTransitionSet creates an empty transition set.
func NewTransitionSet() *TransitionSet {
	return &TransitionSet{ids: make(map[int64]struct{})}
}

// Add marks a device as transitioning.
func (s *TransitionSet) Add(deviceID int64) {
	s.mu.Lock()
	s.ids[deviceID] = struct{}{}
	s.mu.Unlock()
}

// Remove clears the transitioning mark.
func (s *TransitionSet) Remove(deviceID int64) {
	s.mu.Lock()
	delete(s.ids, deviceID)
	s.mu.Unlock()
}

// Contains reports whether the device is transitioning. A nil set is empty.
func (s *TransitionSet) Contains(deviceID int64) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	_, ok := s.ids[deviceID]
	s.mu.Unlock()
	return ok
}

// UnassignedDevices projects the globally unassigned devices (no account)
// into tree nodes, excluding transitioning devices. Order follows the input.
func UnassignedDevices(devices []store.Device, transitioning *TransitionSet) []Node {
	nodes := make([]Node, 0)
	for _, device := range devices {
		if device.AccountID != 0 {
			continue
		}
		if transitioning.Contains(device.ID) {
			continue
		}
		nodes = append(nodes, Node{ID: DeviceNodeID(device.ID), Name: device.Name})
	}
	return nodes
}

// AccountChildren builds the two container nodes under an account: one per
// device group plus the account's unassigned container. Each device node ID
// encodes its full placement so the codec can always recover both the device
// ID and its current position from the node alone.
func AccountChildren(accountID int64, devices []store.Device, groups []store.DeviceGroup, transitioning *TransitionSet) []Node {
	grouped := make(map[int64][]Node)
	unassigned := make([]Node, 0)
	for _, device := range devices {
		if device.AccountID != accountID {
			continue
		}
		if transitioning.Contains(device.ID) {
			continue
		}
		if device.DeviceGroupID != 0 {
			grouped[device.DeviceGroupID] = append(grouped[device.DeviceGroupID], Node{
				ID:   DeviceInGroupNodeID(device.ID, accountID, device.DeviceGroupID),
				Name: device.Name,
			})
		} else {
			unassigned = append(unassigned, Node{
				ID:   DeviceUnassignedNodeID(device.ID, accountID),
				Name: device.Name,
			})
		}
	}

	groupNodes := make([]Node, 0)
	for _, group := range groups {
		if group.AccountID != accountID {
			continue
		}
		children := grouped[group.ID]
		if children == nil {
			children = []Node{}
		}
		groupNodes = append(groupNodes, Node{
			ID:       GroupNodeID(accountID, group.ID),
			Name:     group.Name,
			Children: children,
		})
	}

	return []Node{
		{
			ID:       AccountGroupsNodeID(accountID),
			Name:     groupsContainerName,
			Children: groupNodes,
		},
		{
			ID:       AccountUnassignedNodeID(accountID),
			Name:     unassignedContainerName,
			Children: unassigned,
		},
	}
}

// BuildTreeItems composes the top-level tree: at most two roots, gated by the
// capability flags. A branch node's children are populated only when its ID
// is in loaded; unexpanded nodes render with empty children until their
// loader runs. Pure projection over the store snapshots, safe to recompute
// on every render tick.
func BuildTreeItems(
	canViewUnassigned, canViewAccounts bool,
	loaded map[string]bool,
	accounts []store.Account,
	devices []store.Device,
	groups []store.DeviceGroup,
	transitioning *TransitionSet,
) []Node {
	items := make([]Node, 0, 2)

	if canViewUnassigned {
		root := Node{ID: RootUnassigned, Name: rootUnassignedName, Children: []Node{}}
		if loaded[RootUnassigned] {
			root.Children = UnassignedDevices(devices, transitioning)
		}
		items = append(items, root)
	}

	if canViewAccounts {
		root := Node{ID: RootAccounts, Name: rootAccountsName, Children: []Node{}}
		if loaded[RootAccounts] {
			for _, account := range accounts {
				accountNode := Node{
					ID:       AccountNodeID(account.ID),
					Name:     account.Name,
					Children: []Node{},
				}
				if loaded[accountNode.ID] {
					accountNode.Children = AccountChildren(account.ID, devices, groups, transitioning)
				}
				root.Children = append(root.Children, accountNode)
			}
		}
		items = append(items, root)
	}

	return items
}
