package tree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name   string
		nodeID string
		prefix string
		wantID int64
		wantOK bool
	}{
		{"plain account", "account-123", "account", 123, true},
		{"account with suffix", "account-123-groups", "account", 123, true},
		{"wrong prefix", "device-456", "account", 0, false},
		{"zero is valid", "account-0", "account", 0, true},
		{"negative rejected", "account--1", "account", 0, false},
		{"decimal rejected", "account-1.5", "account", 0, false},
		{"device in group context", "device-5-account-2-group-9", "device", 5, true},
		{"empty node ID", "", "account", 0, false},
		{"empty prefix", "account-1", "", 0, false},
		{"prefix only", "account-", "account", 0, false},
		{"no numeric segment", "account-abc", "account", 0, false},
		{"bare number", "123", "account", 0, false},
		{"root node", "root-unassigned", "account", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractID(tt.nodeID, tt.prefix)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantID, id)
		})
	}
}

func TestExtractIDNeverPanics(t *testing.T) {
	inputs := []string{
		"", "-", "--", "account", "account-", "-account-1",
		"account-999999999999999999999999", "ACCOUNT-1", "account-1-",
		"device-1-account--group-", "группа-1",
	}
	for _, input := range inputs {
		require.NotPanics(t, func() {
			ExtractID(input, "account")
			ExtractID(input, "device")
			ExtractID(input, "group")
		})
	}
}

func TestExtractIDOverflowRejected(t *testing.T) {
	_, ok := ExtractID("account-99999999999999999999", "account")
	require.False(t, ok)
}

func TestDeviceContext(t *testing.T) {
	accountID, groupID := DeviceContext("device-5-account-2-group-9")
	require.Equal(t, int64(2), accountID)
	require.Equal(t, int64(9), groupID)

	accountID, groupID = DeviceContext("device-5-account-2-unassigned")
	require.Equal(t, int64(2), accountID)
	require.Equal(t, int64(0), groupID)

	accountID, groupID = DeviceContext("device-5")
	require.Equal(t, int64(0), accountID)
	require.Equal(t, int64(0), groupID)
}

func TestNodeIDRoundTrip(t *testing.T) {
	nodeID := DeviceInGroupNodeID(5, 2, 9)

	deviceID, ok := DeviceID(nodeID)
	require.True(t, ok)
	require.Equal(t, int64(5), deviceID)

	accountID, groupID := DeviceContext(nodeID)
	require.Equal(t, int64(2), accountID)
	require.Equal(t, int64(9), groupID)
}

func TestContainerNodeIDs(t *testing.T) {
	id, ok := AccountID(AccountGroupsNodeID(7))
	require.True(t, ok)
	require.Equal(t, int64(7), id)

	id, ok = AccountID(AccountUnassignedNodeID(7))
	require.True(t, ok)
	require.Equal(t, int64(7), id)

	id, ok = GroupID(GroupNodeID(7, 3))
	require.True(t, ok)
	require.Equal(t, int64(3), id)
}
