package tree

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dkovalev/mediapi-hub-go/internal/console/store"
)

// Route names a console screen with its numeric parameters.
type Route struct {
	Name   string
	Params map[string]int64
}

// Navigator switches the console to another screen.
type Navigator interface {
	Push(route Route) error
}

// ConfirmFunc asks the operator to confirm a deletion. name is the entity's
// display name, label the human kind («аккаунт», «устройство», «группу»).
type ConfirmFunc func(name, label string) bool

// resolveItemID recovers a numeric entity ID from whatever the view hands an
// action: a tree node, a raw numeric ID, a numeric string, or a composite
// node ID string.
func resolveItemID(item any, prefix string) (int64, bool) {
	switch v := item.(type) {
	case Node:
		return resolveRawID(v.ID, prefix)
	case *Node:
		if v == nil {
			return 0, false
		}
		return resolveRawID(v.ID, prefix)
	case string:
		return resolveRawID(v, prefix)
	case int64:
		if v < 0 {
			return 0, false
		}
		return v, true
	case int:
		if v < 0 {
			return 0, false
		}
		return int64(v), true
	case store.Account:
		return v.ID, prefix == PrefixAccount
	case store.Device:
		return v.ID, prefix == PrefixDevice
	case store.DeviceGroup:
		return v.ID, prefix == PrefixGroup
	}
	return 0, false
}

func resolveRawID(raw, prefix string) (int64, bool) {
	if id, ok := ExtractID(raw, prefix); ok {
		return id, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// contextAccountID recovers the owning account from a node-shaped item, for
// actions that create children under an account.
func contextAccountID(item any) (int64, bool) {
	var nodeID string
	switch v := item.(type) {
	case Node:
		nodeID = v.ID
	case *Node:
		if v == nil {
			return 0, false
		}
		nodeID = v.ID
	case string:
		nodeID = v
	default:
		return resolveItemID(item, PrefixAccount)
	}
	if id, ok := AccountID(nodeID); ok {
		return id, true
	}
	if accountID, _ := DeviceContext(nodeID); accountID != 0 {
		return accountID, true
	}
	return 0, false
}

// AccountStore is the account-store surface the account actions need.
type AccountStore interface {
	Get(id int64) *store.Account
	Delete(ctx context.Context, id int64) error
}

// AccountActions are the tree actions on account nodes. Every failure is
// reported through the alerts store and swallowed; actions never return
// errors to the view.
type AccountActions struct {
	navigator Navigator
	alerts    Alerter
	accounts  AccountStore
	confirm   ConfirmFunc
}

// NewAccountActions builds the account action set.
func NewAccountActions(navigator Navigator, alerts Alerter, accounts AccountStore, confirm ConfirmFunc) *AccountActions {
	return &AccountActions{navigator: navigator, alerts: alerts, accounts: accounts, confirm: confirm}
}

// Create navigates to the account creation screen.
func (a *AccountActions) Create() {
	if err := a.navigator.Push(Route{Name: "account-create"}); err != nil {
		a.alerts.Error(fmt.Sprintf("Ошибка навигации: %v", err))
	}
}

// Edit navigates to the edit screen of the resolved account.
func (a *AccountActions) Edit(item any) {
	id, ok := resolveItemID(item, PrefixAccount)
	if !ok {
		a.alerts.Error("Не удалось определить аккаунт")
		return
	}
	route := Route{Name: "account-edit", Params: map[string]int64{"id": id}}
	if err := a.navigator.Push(route); err != nil {
		a.alerts.Error(fmt.Sprintf("Ошибка навигации: %v", err))
	}
}

// Delete confirms and deletes the resolved account. An account missing from
// the cache is a silent no-op; it may already be gone.
func (a *AccountActions) Delete(ctx context.Context, item any) {
	id, ok := resolveItemID(item, PrefixAccount)
	if !ok {
		a.alerts.Error("Не удалось определить аккаунт")
		return
	}
	account := a.accounts.Get(id)
	if account == nil {
		return
	}
	if !a.confirm(account.Name, "аккаунт") {
		return
	}
	if err := a.accounts.Delete(ctx, id); err != nil {
		a.alerts.Error(fmt.Sprintf("Ошибка при удалении аккаунта: %v", err))
	}
}

// DeviceStore is the device-store surface the device actions need.
type DeviceStore interface {
	Get(id int64) *store.Device
	Delete(ctx context.Context, id int64) error
	UnassignFromGroup(ctx context.Context, deviceID int64) error
	UnassignFromAccount(ctx context.Context, deviceID int64) error
}

// DeviceActions are the tree actions on device nodes.
type DeviceActions struct {
	navigator Navigator
	alerts    Alerter
	devices   DeviceStore
	confirm   ConfirmFunc
}

// NewDeviceActions builds the device action set.
func NewDeviceActions(navigator Navigator, alerts Alerter, devices DeviceStore, confirm ConfirmFunc) *DeviceActions {
	return &DeviceActions{navigator: navigator, alerts: alerts, devices: devices, confirm: confirm}
}

// Create navigates to the device creation screen, carrying the owning
// account when the triggering node encodes one.
func (a *DeviceActions) Create(item any) {
	route := Route{Name: "device-create"}
	if accountID, ok := contextAccountID(item); ok {
		route.Params = map[string]int64{"account_id": accountID}
	}
	if err := a.navigator.Push(route); err != nil {
		a.alerts.Error(fmt.Sprintf("Ошибка навигации: %v", err))
	}
}

// Edit navigates to the edit screen of the resolved device.
func (a *DeviceActions) Edit(item any) {
	id, ok := resolveItemID(item, PrefixDevice)
	if !ok {
		a.alerts.Error("Не удалось определить устройство")
		return
	}
	route := Route{Name: "device-edit", Params: map[string]int64{"id": id}}
	if err := a.navigator.Push(route); err != nil {
		a.alerts.Error(fmt.Sprintf("Ошибка навигации: %v", err))
	}
}

// Delete confirms and deletes the resolved device.
func (a *DeviceActions) Delete(ctx context.Context, item any) {
	id, ok := resolveItemID(item, PrefixDevice)
	if !ok {
		a.alerts.Error("Не удалось определить устройство")
		return
	}
	device := a.devices.Get(id)
	if device == nil {
		return
	}
	if !a.confirm(device.Name, "устройство") {
		return
	}
	if err := a.devices.Delete(ctx, id); err != nil {
		a.alerts.Error(fmt.Sprintf("Ошибка при удалении устройства: %v", err))
	}
}

// UnassignFromGroup moves the device back to its account's unassigned
// container.
func (a *DeviceActions) UnassignFromGroup(ctx context.Context, item any) {
	id, ok := resolveItemID(item, PrefixDevice)
	if !ok {
		a.alerts.Error("Не удалось определить устройство")
		return
	}
	if err := a.devices.UnassignFromGroup(ctx, id); err != nil {
		a.alerts.Error(fmt.Sprintf("Ошибка при отмене назначения: %v", err))
	}
}

// UnassignFromAccount detaches the device from its account.
func (a *DeviceActions) UnassignFromAccount(ctx context.Context, item any) {
	id, ok := resolveItemID(item, PrefixDevice)
	if !ok {
		a.alerts.Error("Не удалось определить устройство")
		return
	}
	if err := a.devices.UnassignFromAccount(ctx, id); err != nil {
		a.alerts.Error(fmt.Sprintf("Ошибка при отмене назначения: %v", err))
	}
}

// GroupStore is the group-store surface the group actions need.
type GroupStore interface {
	Get(id int64) *store.DeviceGroup
	Delete(ctx context.Context, id int64) error
}

// GroupActions are the tree actions on device-group nodes.
type GroupActions struct {
	navigator Navigator
	alerts    Alerter
	groups    GroupStore
	confirm   ConfirmFunc
}

// NewGroupActions builds the group action set.
func NewGroupActions(navigator Navigator, alerts Alerter, groups GroupStore, confirm ConfirmFunc) *GroupActions {
	return &GroupActions{navigator: navigator, alerts: alerts, groups: groups, confirm: confirm}
}

// Create navigates to the group creation screen under the account encoded in
// the triggering node. A group cannot exist without an account, so an
// unresolvable context is an error.
func (a *GroupActions) Create(item any) {
	accountID, ok := contextAccountID(item)
	if !ok {
		a.alerts.Error("Не удалось определить аккаунт")
		return
	}
	route := Route{Name: "group-create", Params: map[string]int64{"account_id": accountID}}
	if err := a.navigator.Push(route); err != nil {
		a.alerts.Error(fmt.Sprintf("Ошибка навигации: %v", err))
	}
}

// Edit navigates to the edit screen of the resolved group.
func (a *GroupActions) Edit(item any) {
	id, ok := resolveItemID(item, PrefixGroup)
	if !ok {
		a.alerts.Error("Не удалось определить группу")
		return
	}
	route := Route{Name: "group-edit", Params: map[string]int64{"id": id}}
	if err := a.navigator.Push(route); err != nil {
		a.alerts.Error(fmt.Sprintf("Ошибка навигации: %v", err))
	}
}

// Delete confirms and deletes the resolved group.
func (a *GroupActions) Delete(ctx context.Context, item any) {
	id, ok := resolveItemID(item, PrefixGroup)
	if !ok {
		a.alerts.Error("Не удалось определить группу")
		return
	}
	group := a.groups.Get(id)
	if group == nil {
		return
	}
	if !a.confirm(group.Name, "группу") {
		return
	}
	if err := a.groups.Delete(ctx, id); err != nil {
		a.alerts.Error(fmt.Sprintf("Ошибка при удалении группы: %v", err))
	}
}
