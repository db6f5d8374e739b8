package devices

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalev/mediapi-hub-go/internal/accounts"
	"github.com/dkovalev/mediapi-hub-go/internal/api"
	"github.com/dkovalev/mediapi-hub-go/internal/apperrors"
	"github.com/dkovalev/mediapi-hub-go/internal/auth"
	"github.com/dkovalev/mediapi-hub-go/internal/groups"
)

// StatusNotifier receives device state changes for live fan-out.
type StatusNotifier interface {
	DeviceStatusChanged(device *Device)
}

// RegisterRoutes wires device routes to the router.
// Any authenticated role may list devices; mutations require administrator,
// engineer (unassigned pool) or manager (account surfaces).
func RegisterRoutes(router chi.Router, repo *Repository, groupsRepo *groups.Repository, accountsRepo *accounts.Repository, notifier StatusNotifier) {
	anyRole := auth.RequireRoles(auth.RoleAdministrator, auth.RoleManager, auth.RoleEngineer)
	mutate := auth.RequireRoles(auth.RoleAdministrator, auth.RoleEngineer)
	assign := auth.RequireRoles(auth.RoleAdministrator, auth.RoleManager, auth.RoleEngineer)

	router.Method(http.MethodGet, "/v1/devices", api.Handler(anyRole(listDevices(repo))))
	router.Method(http.MethodGet, "/v1/devices/{device_id}", api.Handler(anyRole(getDevice(repo))))
	router.Method(http.MethodPost, "/v1/devices", api.Handler(mutate(createDevice(repo, accountsRepo, groupsRepo))))
	router.Method(http.MethodPut, "/v1/devices/{device_id}", api.Handler(mutate(updateDevice(repo))))
	router.Method(http.MethodDelete, "/v1/devices/{device_id}", api.Handler(mutate(deleteDevice(repo))))

	router.Method(http.MethodPost, "/v1/devices/{device_id}/assign-account", api.Handler(assign(assignAccount(repo, accountsRepo))))
	router.Method(http.MethodPost, "/v1/devices/{device_id}/assign-group", api.Handler(assign(assignGroup(repo, groupsRepo))))
	router.Method(http.MethodPost, "/v1/devices/{device_id}/unassign-group", api.Handler(assign(unassignGroup(repo))))
	router.Method(http.MethodPost, "/v1/devices/{device_id}/unassign-account", api.Handler(assign(unassignAccount(repo))))

	router.Method(http.MethodPost, "/v1/devices/{device_id}/status", api.Handler(anyRole(reportStatus(repo, notifier))))
}

func deviceIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "device_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, apperrors.NewValidationError("device_id must be a non-negative integer", nil)
	}
	return id, nil
}

func loadDevice(repo *Repository, r *http.Request) (*Device, error) {
	id, err := deviceIDParam(r)
	if err != nil {
		return nil, err
	}
	device, err := repo.GetByID(id)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to get device")
	}
	if device == nil {
		return nil, apperrors.NewNotFoundError(apperrors.ErrorCodeDeviceNotFound, "device", id)
	}
	return device, nil
}

func createDevice(repo *Repository, accountsRepo *accounts.Repository, groupsRepo *groups.Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		var input CreateDeviceInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Name == "" {
			return apperrors.NewValidationError("name is required", nil)
		}
		if input.DeviceGroupID > 0 && input.AccountID <= 0 {
			return apperrors.NewValidationError("device_group_id requires account_id", nil)
		}

		if input.AccountID > 0 {
			account, err := accountsRepo.GetByID(input.AccountID)
			if err != nil {
				return apperrors.NewInternalError("Failed to verify account")
			}
			if account == nil {
				return apperrors.NewNotFoundError(apperrors.ErrorCodeAccountNotFound, "account", input.AccountID)
			}
		}
		if input.DeviceGroupID > 0 {
			group, err := groupsRepo.GetByID(input.DeviceGroupID)
			if err != nil {
				return apperrors.NewInternalError("Failed to verify device group")
			}
			if group == nil {
				return apperrors.NewNotFoundError(apperrors.ErrorCodeGroupNotFound, "device group", input.DeviceGroupID)
			}
			if group.AccountID != input.AccountID {
				return apperrors.NewAppError(apperrors.ErrorCodeGroupAccountMismatch,
					"device group belongs to another account", 409,
					map[string]any{"group_id": group.ID, "account_id": group.AccountID})
			}
		}

		device, err := repo.Create(input)
		if err != nil {
			log.Printf("POST /v1/devices error: %v", err)
			return apperrors.NewInternalError("Failed to create device")
		}
		return api.WriteResource(w, http.StatusCreated, formatDevice(device))
	}
}

func listDevices(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		limit, offset := api.ListParams(r, 100, 500)

		var filter ListFilter
		if raw := r.URL.Query().Get("account_id"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 0 {
				return apperrors.NewValidationError("account_id must be a non-negative integer", nil)
			}
			filter.AccountID = parsed
		}
		if r.URL.Query().Get("unassigned") == "true" {
			filter.Unassigned = true
		}

		result, total, err := repo.List(filter, limit, offset)
		if err != nil {
			log.Printf("GET /v1/devices error: %v", err)
			return apperrors.NewInternalError("Failed to list devices")
		}

		formatted := make([]map[string]any, 0, len(result))
		for i := range result {
			formatted = append(formatted, formatDevice(&result[i]))
		}
		return api.WriteList(w, "/v1/devices", formatted, offset+len(result) < total)
	}
}

func getDevice(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		device, err := loadDevice(repo, r)
		if err != nil {
			return err
		}
		return api.WriteResource(w, http.StatusOK, formatDevice(device))
	}
}

func updateDevice(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := deviceIDParam(r)
		if err != nil {
			return err
		}

		var input UpdateDeviceInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Name != nil && *input.Name == "" {
			return apperrors.NewValidationError("name must not be empty", nil)
		}

		device, err := repo.Update(id, input)
		if err != nil {
			return apperrors.NewInternalError("Failed to update device")
		}
		if device == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeDeviceNotFound, "device", id)
		}
		return api.WriteResource(w, http.StatusOK, formatDevice(device))
	}
}

func deleteDevice(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := deviceIDParam(r)
		if err != nil {
			return err
		}

		deleted, err := repo.Delete(id)
		if err != nil {
			return apperrors.NewInternalError("Failed to delete device")
		}
		if !deleted {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeDeviceNotFound, "device", id)
		}
		return api.WriteNoContent(w)
	}
}

func assignAccount(repo *Repository, accountsRepo *accounts.Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		device, err := loadDevice(repo, r)
		if err != nil {
			return err
		}

		var input struct {
			AccountID int64 `json:"account_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.AccountID <= 0 {
			return apperrors.NewValidationError("account_id is required", nil)
		}

		account, err := accountsRepo.GetByID(input.AccountID)
		if err != nil {
			return apperrors.NewInternalError("Failed to verify account")
		}
		if account == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeAccountNotFound, "account", input.AccountID)
		}

		updated, err := repo.AssignAccount(device.ID, input.AccountID)
		if err != nil {
			return apperrors.NewInternalError("Failed to assign device")
		}
		return api.WriteResource(w, http.StatusOK, formatDevice(updated))
	}
}

func assignGroup(repo *Repository, groupsRepo *groups.Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		device, err := loadDevice(repo, r)
		if err != nil {
			return err
		}

		var input struct {
			DeviceGroupID int64 `json:"device_group_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.DeviceGroupID <= 0 {
			return apperrors.NewValidationError("device_group_id is required", nil)
		}

		if device.AccountID == 0 {
			return apperrors.NewAppError(apperrors.ErrorCodeDeviceUnassigned,
				"device is not assigned to an account", 409, map[string]any{"device_id": device.ID})
		}

		group, err := groupsRepo.GetByID(input.DeviceGroupID)
		if err != nil {
			return apperrors.NewInternalError("Failed to verify device group")
		}
		if group == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeGroupNotFound, "device group", input.DeviceGroupID)
		}
		if group.AccountID != device.AccountID {
			return apperrors.NewAppError(apperrors.ErrorCodeGroupAccountMismatch,
				"device group belongs to another account", 409,
				map[string]any{"group_id": group.ID, "account_id": group.AccountID})
		}

		updated, err := repo.AssignGroup(device.ID, input.DeviceGroupID)
		if err != nil {
			return apperrors.NewInternalError("Failed to assign device")
		}
		return api.WriteResource(w, http.StatusOK, formatDevice(updated))
	}
}

func unassignGroup(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		device, err := loadDevice(repo, r)
		if err != nil {
			return err
		}

		updated, err := repo.UnassignGroup(device.ID)
		if err != nil {
			return apperrors.NewInternalError("Failed to unassign device")
		}
		return api.WriteResource(w, http.StatusOK, formatDevice(updated))
	}
}

func unassignAccount(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		device, err := loadDevice(repo, r)
		if err != nil {
			return err
		}

		updated, err := repo.UnassignAccount(device.ID)
		if err != nil {
			return apperrors.NewInternalError("Failed to unassign device")
		}
		return api.WriteResource(w, http.StatusOK, formatDevice(updated))
	}
}

func reportStatus(repo *Repository, notifier StatusNotifier) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := deviceIDParam(r)
		if err != nil {
			return err
		}

		var status json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&status); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}

		device, err := repo.UpdateStatus(id, status)
		if err != nil {
			return apperrors.NewInternalError("Failed to record device status")
		}
		if device == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeDeviceNotFound, "device", id)
		}

		if notifier != nil {
			notifier.DeviceStatusChanged(device)
		}
		return api.WriteResource(w, http.StatusOK, formatDevice(device))
	}
}
