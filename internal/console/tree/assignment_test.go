package tree

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignmentConfirmHappyPath(t *testing.T) {
	transitioning := NewTransitionSet()
	alerts := &fakeAlerts{}

	var calls []struct{ deviceID, targetID int64 }
	var inFlightTransitioning bool
	assignment := NewGroupAssignment(transitioning, alerts, func(ctx context.Context, deviceID, targetID int64) error {
		inFlightTransitioning = transitioning.Contains(deviceID)
		calls = append(calls, struct{ deviceID, targetID int64 }{deviceID, targetID})
		return nil
	})

	assignment.Start(Node{ID: DeviceInGroupNodeID(1, 1, 1)})
	require.True(t, assignment.State(1).EditMode)

	assignment.UpdateSelection(1, 2)
	assignment.Confirm(context.Background(), Node{ID: DeviceInGroupNodeID(1, 1, 1)})

	require.Len(t, calls, 1)
	require.Equal(t, int64(1), calls[0].deviceID)
	require.Equal(t, int64(2), calls[0].targetID)
	require.True(t, inFlightTransitioning)
	require.False(t, transitioning.Contains(1))
	require.Equal(t, AssignmentState{}, assignment.State(1))
	require.Empty(t, alerts.all())
}

func TestAssignmentConfirmFailureResetsState(t *testing.T) {
	transitioning := NewTransitionSet()
	alerts := &fakeAlerts{}
	assignment := NewAccountAssignment(transitioning, alerts, func(ctx context.Context, deviceID, targetID int64) error {
		return errors.New("X")
	})

	assignment.Start(Node{ID: DeviceNodeID(1)})
	assignment.UpdateSelection(1, 2)
	assignment.Confirm(context.Background(), Node{ID: DeviceNodeID(1)})

	messages := alerts.all()
	require.Len(t, messages, 1)
	require.True(t, strings.HasSuffix(messages[0], "X"))
	require.False(t, transitioning.Contains(1))
	require.Equal(t, AssignmentState{}, assignment.State(1))
}

func TestAssignmentConfirmRequiresSelection(t *testing.T) {
	alerts := &fakeAlerts{}
	called := false
	assignment := NewGroupAssignment(NewTransitionSet(), alerts, func(ctx context.Context, deviceID, targetID int64) error {
		called = true
		return nil
	})

	assignment.Start(Node{ID: DeviceNodeID(1)})
	assignment.Confirm(context.Background(), Node{ID: DeviceNodeID(1)})

	require.False(t, called)
	require.Equal(t, []string{"Не выбрана цель назначения"}, alerts.all())
}

func TestAssignmentConfirmWithoutEntry(t *testing.T) {
	alerts := &fakeAlerts{}
	assignment := NewGroupAssignment(NewTransitionSet(), alerts, func(ctx context.Context, deviceID, targetID int64) error {
		t.Fatal("assign must not be called")
		return nil
	})

	assignment.Confirm(context.Background(), Node{ID: DeviceNodeID(9)})

	require.Equal(t, []string{"Не выбрана цель назначения"}, alerts.all())
}

func TestAssignmentCancel(t *testing.T) {
	assignment := NewGroupAssignment(NewTransitionSet(), &fakeAlerts{}, nil)

	// No entry: nothing happens.
	assignment.Cancel(Node{ID: DeviceNodeID(1)})
	require.Equal(t, AssignmentState{}, assignment.State(1))

	assignment.Start(Node{ID: DeviceNodeID(1)})
	assignment.UpdateSelection(1, 5)
	assignment.Cancel(Node{ID: DeviceNodeID(1)})

	state := assignment.State(1)
	require.False(t, state.EditMode)
	require.Nil(t, state.SelectedTargetID)
}

func TestAssignmentStartUnresolvableItem(t *testing.T) {
	alerts := &fakeAlerts{}
	assignment := NewGroupAssignment(NewTransitionSet(), alerts, nil)

	assignment.Start(Node{ID: "account-1"})

	require.Len(t, alerts.all(), 1)
	require.Equal(t, AssignmentState{}, assignment.State(1))
}

func TestAssignmentUpdateSelectionCreatesEntry(t *testing.T) {
	assignment := NewGroupAssignment(NewTransitionSet(), &fakeAlerts{}, nil)

	assignment.UpdateSelection(4, 7)

	state := assignment.State(4)
	require.False(t, state.EditMode)
	require.NotNil(t, state.SelectedTargetID)
	require.Equal(t, int64(7), *state.SelectedTargetID)
}
