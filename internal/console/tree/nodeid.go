// Package tree implements the navigation tree of the admin console: the
// composite node-ID codec, the tree builder over store snapshots, lazy child
// loading, per-entity actions and the device assignment state machine.
//
// Every node carries a synthetic string ID built from typed segments joined
// with dashes, e.g. "device-5-account-2-group-9". The numeric ID immediately
// following a known prefix token is the canonical entity ID of that type; any
// trailing suffix is positional context, not part of the ID.
package tree

import (
	"fmt"
	"regexp"
	"strconv"
)

// Node is one row of the navigation widget.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Children []Node `json:"children,omitempty"`
}

// Node ID prefixes and root identifiers.
const (
	PrefixAccount = "account"
	PrefixDevice  = "device"
	PrefixGroup   = "group"

	RootUnassigned = "root-unassigned"
	RootAccounts   = "root-accounts"
)

var nodeIDPattern = regexp.MustCompile(`^([a-z]+)-(\d+)(?:-.*)?$`)

// ExtractID recovers the numeric entity ID that follows prefix in a composite
// node ID. The second return is false for a wrong prefix, a non-numeric ID
// segment, a negative sign, decimals, or structurally malformed input. Zero is
// a valid ID. Never panics.
func ExtractID(nodeID, prefix string) (int64, bool) {
	if nodeID == "" || prefix == "" {
		return 0, false
	}
	match := nodeIDPattern.FindStringSubmatch(nodeID)
	if match == nil || match[1] != prefix {
		return 0, false
	}
	id, err := strconv.ParseInt(match[2], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// AccountID extracts an account ID from a node ID.
func AccountID(nodeID string) (int64, bool) { return ExtractID(nodeID, PrefixAccount) }

// DeviceID extracts a device ID from a node ID.
func DeviceID(nodeID string) (int64, bool) { return ExtractID(nodeID, PrefixDevice) }

// GroupID extracts a device group ID from a node ID.
func GroupID(nodeID string) (int64, bool) { return ExtractID(nodeID, PrefixGroup) }

// DeviceContext recovers the placement context encoded in a device node ID:
// the owning account (0 when globally unassigned) and the group (0 when the
// device sits in the account's unassigned container).
func DeviceContext(nodeID string) (accountID, groupID int64) {
	if id, ok := ExtractID(trimToSegment(nodeID, PrefixAccount), PrefixAccount); ok {
		accountID = id
	}
	if id, ok := ExtractID(trimToSegment(nodeID, PrefixGroup), PrefixGroup); ok {
		groupID = id
	}
	return accountID, groupID
}

// trimToSegment drops everything before the first occurrence of "<prefix>-"
// that starts a segment, so nested contexts parse with the plain codec.
func trimToSegment(nodeID, prefix string) string {
	token := prefix + "-"
	for i := 0; i+len(token) <= len(nodeID); i++ {
		if (i == 0 || nodeID[i-1] == '-') && nodeID[i:i+len(token)] == token {
			return nodeID[i:]
		}
	}
	return ""
}

// AccountNodeID returns "account-<id>".
func AccountNodeID(accountID int64) string {
	return fmt.Sprintf("%s-%d", PrefixAccount, accountID)
}

// AccountGroupsNodeID returns the groups container ID for an account.
func AccountGroupsNodeID(accountID int64) string {
	return fmt.Sprintf("%s-%d-groups", PrefixAccount, accountID)
}

// AccountUnassignedNodeID returns the unassigned container ID for an account.
func AccountUnassignedNodeID(accountID int64) string {
	return fmt.Sprintf("%s-%d-unassigned", PrefixAccount, accountID)
}

// GroupNodeID returns "group-<id>" in the context of its account.
func GroupNodeID(accountID, groupID int64) string {
	return fmt.Sprintf("%s-%d-account-%d", PrefixGroup, groupID, accountID)
}

// DeviceNodeID returns "device-<id>" for a globally unassigned device.
func DeviceNodeID(deviceID int64) string {
	return fmt.Sprintf("%s-%d", PrefixDevice, deviceID)
}

// DeviceUnassignedNodeID encodes a device sitting in an account's unassigned
// container: "device-<id>-account-<accountID>-unassigned".
func DeviceUnassignedNodeID(deviceID, accountID int64) string {
	return fmt.Sprintf("%s-%d-account-%d-unassigned", PrefixDevice, deviceID, accountID)
}

// DeviceInGroupNodeID encodes a device inside a group:
// "device-<id>-account-<accountID>-group-<groupID>".
func DeviceInGroupNodeID(deviceID, accountID, groupID int64) string {
	return fmt.Sprintf("%s-%d-account-%d-group-%d", PrefixDevice, deviceID, accountID, groupID)
}
