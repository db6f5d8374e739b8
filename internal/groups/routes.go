package groups

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
)

// RegisterRoutes wires device group routes to the router.
func RegisterRoutes(router chi.Router, repo *Repository, accountsRepo *accounts.Repository) {
	manage := auth.RequireRoles(auth.RoleAdministrator, auth.RoleManager)

	router.Method(http.MethodGet, "/v1/device-groups", api.Handler(manage(listGroups(repo))))
	router.Method(http.MethodGet, "/v1/device-groups/{group_id}", api.Handler(manage(getGroup(repo))))
	router.Method(http.MethodPost, "/v1/device-groups", api.Handler(manage(createGroup(repo, accountsRepo))))
	router.Method(http.MethodPut, "/v1/device-groups/{group_id}", api.Handler(manage(updateGroup(repo))))
	router.Method(http.MethodDelete, "/v1/device-groups/{group_id}", api.Handler(manage(deleteGroup(repo))))
}

func groupIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "group_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, apperrors.NewValidationError("group_id must be a non-negative integer", nil)
	}
	return id, nil
}

func createGroup(repo *Repository, accountsRepo *accounts.Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		var input CreateGroupInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Name == "" {
			return apperrors.NewValidationError("name is required", nil)
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

		group, err := repo.Create(input)
		if err != nil {
			log.Printf("POST /v1/device-groups error: %v", err)
			return apperrors.NewInternalError("Failed to create device group")
		}
		return api.WriteResource(w, http.StatusCreated, formatGroup(group))
	}
}

func listGroups(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		limit, offset := api.ListParams(r, 100, 500)

		var accountID int64
		if raw := r.URL.Query().Get("account_id"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 0 {
				return apperrors.NewValidationError("account_id must be a non-negative integer", nil)
			}
			accountID = parsed
		}

		result, total, err := repo.List(accountID, limit, offset)
		if err != nil {
			log.Printf("GET /v1/device-groups error: %v", err)
			return apperrors.NewInternalError("Failed to list device groups")
		}

		formatted := make([]map[string]any, 0, len(result))
		for i := range result {
			formatted = append(formatted, formatGroup(&result[i]))
		}
		return api.WriteList(w, "/v1/device-groups", formatted, offset+len(result) < total)
	}
}

func getGroup(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := groupIDParam(r)
		if err != nil {
			return err
		}

		group, err := repo.GetByID(id)
		if err != nil {
			return apperrors.NewInternalError("Failed to get device group")
		}
		if group == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeGroupNotFound, "device group", id)
		}
		return api.WriteResource(w, http.StatusOK, formatGroup(group))
	}
}

func updateGroup(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := groupIDParam(r)
		if err != nil {
			return err
		}

		var input UpdateGroupInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Name != nil && *input.Name == "" {
			return apperrors.NewValidationError("name must not be empty", nil)
		}

		group, err := repo.Update(id, input)
		if err != nil {
			return apperrors.NewInternalError("Failed to update device group")
		}
		if group == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeGroupNotFound, "device group", id)
		}
		return api.WriteResource(w, http.StatusOK, formatGroup(group))
	}
}

func deleteGroup(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := groupIDParam(r)
		if err != nil {
			return err
		}

		deleted, err := repo.Delete(id)
		if err != nil {
			return apperrors.NewInternalError("Failed to delete device group")
		}
		if !deleted {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeGroupNotFound, "device group", id)
		}
		return api.WriteNoContent(w)
	}
}
