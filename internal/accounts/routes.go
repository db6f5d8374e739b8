package accounts

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalev/mediapi-hub-go/internal/api"
	"github.com/dkovalev/mediapi-hub-go/internal/apperrors"
	"github.com/dkovalev/mediapi-hub-go/internal/auth"
)

// RegisterRoutes wires account routes to the router.
// Viewing and editing requires administrator or manager; create and delete
// are administrator-only.
func RegisterRoutes(router chi.Router, repo *Repository) {
	view := auth.RequireRoles(auth.RoleAdministrator, auth.RoleManager)
	manage := auth.RequireRoles(auth.RoleAdministrator)

	router.Method(http.MethodGet, "/v1/accounts", api.Handler(view(listAccounts(repo))))
	router.Method(http.MethodGet, "/v1/accounts/{account_id}", api.Handler(view(getAccount(repo))))
	router.Method(http.MethodPost, "/v1/accounts", api.Handler(manage(createAccount(repo))))
	router.Method(http.MethodPut, "/v1/accounts/{account_id}", api.Handler(view(updateAccount(repo))))
	router.Method(http.MethodDelete, "/v1/accounts/{account_id}", api.Handler(manage(deleteAccount(repo))))
}

func accountIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "account_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, apperrors.NewValidationError("account_id must be a non-negative integer", nil)
	}
	return id, nil
}

func createAccount(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		var input CreateAccountInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Name == "" {
			return apperrors.NewValidationError("name is required", nil)
		}

		account, err := repo.Create(input)
		if err != nil {
			log.Printf("POST /v1/accounts error: %v", err)
			return apperrors.NewInternalError("Failed to create account")
		}
		return api.WriteResource(w, http.StatusCreated, formatAccount(account))
	}
}

func listAccounts(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		limit, offset := api.ListParams(r, 100, 500)

		accounts, total, err := repo.List(limit, offset)
		if err != nil {
			log.Printf("GET /v1/accounts error: %v", err)
			return apperrors.NewInternalError("Failed to list accounts")
		}

		formatted := make([]map[string]any, 0, len(accounts))
		for i := range accounts {
			formatted = append(formatted, formatAccount(&accounts[i]))
		}
		return api.WriteList(w, "/v1/accounts", formatted, offset+len(accounts) < total)
	}
}

func getAccount(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := accountIDParam(r)
		if err != nil {
			return err
		}

		account, err := repo.GetByID(id)
		if err != nil {
			return apperrors.NewInternalError("Failed to get account")
		}
		if account == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeAccountNotFound, "account", id)
		}
		return api.WriteResource(w, http.StatusOK, formatAccount(account))
	}
}

func updateAccount(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := accountIDParam(r)
		if err != nil {
			return err
		}

		var input UpdateAccountInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Name != nil && *input.Name == "" {
			return apperrors.NewValidationError("name must not be empty", nil)
		}

		account, err := repo.Update(id, input)
		if err != nil {
			return apperrors.NewInternalError("Failed to update account")
		}
		if account == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeAccountNotFound, "account", id)
		}
		return api.WriteResource(w, http.StatusOK, formatAccount(account))
	}
}

func deleteAccount(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := accountIDParam(r)
		if err != nil {
			return err
		}

		deleted, err := repo.Delete(id)
		if err != nil {
			return apperrors.NewInternalError("Failed to delete account")
		}
		if !deleted {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeAccountNotFound, "account", id)
		}
		return api.WriteNoContent(w)
	}
}
