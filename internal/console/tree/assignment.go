package tree

import (
	"context"
	"fmt"
	"sync"
)

// AssignFunc performs one assignment mutation against the backend.
type AssignFunc func(ctx context.Context, deviceID, targetID int64) error

// AssignmentState is one device's position in the assignment dialog.
type AssignmentState struct {
	EditMode         bool
	SelectedTargetID *int64
}

// Assignment drives the device reassignment flow: idle, editing with a
// target picker, then a confirm that hides the device from the tree while
// the request is in flight. One instance handles one target kind, so the
// console holds two: device to account and device to group.
//
// Nothing serializes two Confirm calls for the same device; the transition
// set only affects rendering during the window, not the mutation itself.
type Assignment struct {
	mu            sync.Mutex
	entries       map[int64]*AssignmentState
	transitioning *TransitionSet
	alerts        Alerter
	assign        AssignFunc
	kind          string
}

// NewAccountAssignment creates the device-to-account flow.
func NewAccountAssignment(transitioning *TransitionSet, alerts Alerter, assign AssignFunc) *Assignment {
	return newAssignment(transitioning, alerts, assign, "аккаунту")
}

// NewGroupAssignment creates the device-to-group flow.
func NewGroupAssignment(transitioning *TransitionSet, alerts Alerter, assign AssignFunc) *Assignment {
	return newAssignment(transitioning, alerts, assign, "группе")
}

func newAssignment(transitioning *TransitionSet, alerts Alerter, assign AssignFunc, kind string) *Assignment {
	return &Assignment{
		entries:       make(map[int64]*AssignmentState),
		transitioning: transitioning,
		alerts:        alerts,
		assign:        assign,
		kind:          kind,
	}
}

// State returns a copy of the device's entry; a zero value when idle.
func (a *Assignment) State(deviceID int64) AssignmentState {
	a.mu.Lock()
	defer a.mu.Unlock()
	entry, ok := a.entries[deviceID]
	if !ok {
		return AssignmentState{}
	}
	copied := *entry
	if entry.SelectedTargetID != nil {
		target := *entry.SelectedTargetID
		copied.SelectedTargetID = &target
	}
	return copied
}

// Start opens the target picker for the device resolved from item. An
// unresolvable item is reported and leaves all state untouched.
func (a *Assignment) Start(item any) {
	deviceID, ok := resolveItemID(item, PrefixDevice)
	if !ok {
		a.alerts.Error("Не удалось определить устройство")
		return
	}
	a.mu.Lock()
	a.entries[deviceID] = &AssignmentState{EditMode: true}
	a.mu.Unlock()
}

// UpdateSelection records the picked target. Creates the entry if absent;
// the target is not validated here.
func (a *Assignment) UpdateSelection(deviceID, targetID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	entry, ok := a.entries[deviceID]
	if !ok {
		entry = &AssignmentState{}
		a.entries[deviceID] = entry
	}
	entry.SelectedTargetID = &targetID
}

// Cancel resets the device's entry to idle. No-op when there is none.
func (a *Assignment) Cancel(item any) {
	deviceID, ok := resolveItemID(item, PrefixDevice)
	if !ok {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.entries[deviceID]; ok {
		a.entries[deviceID] = &AssignmentState{}
	}
}

// Confirm performs the assignment to the selected target. The device joins
// the transition set for the duration of the request and leaves it on both
// the success and the failure path, along with the entry reset. A missing
// selection is reported without touching the store.
func (a *Assignment) Confirm(ctx context.Context, item any) {
	deviceID, ok := resolveItemID(item, PrefixDevice)
	if !ok {
		a.alerts.Error("Не удалось определить устройство")
		return
	}

	a.mu.Lock()
	entry, ok := a.entries[deviceID]
	if !ok || entry.SelectedTargetID == nil {
		a.mu.Unlock()
		a.alerts.Error("Не выбрана цель назначения")
		return
	}
	targetID := *entry.SelectedTargetID
	a.mu.Unlock()

	a.transitioning.Add(deviceID)
	err := a.assign(ctx, deviceID, targetID)
	a.transitioning.Remove(deviceID)

	a.mu.Lock()
	a.entries[deviceID] = &AssignmentState{}
	a.mu.Unlock()

	if err != nil {
		a.alerts.Error(fmt.Sprintf("Ошибка при назначении %s: %v", a.kind, err))
	}
}
