package users

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalev/mediapi-hub-go/internal/api"
	"github.com/dkovalev/mediapi-hub-go/internal/apperrors"
	"github.com/dkovalev/mediapi-hub-go/internal/auth"
)

// RegisterRoutes wires user management routes to the router.
// User CRUD is administrator-only; the role list is visible to all roles.
func RegisterRoutes(router chi.Router, repo *Repository) {
	admin := auth.RequireRoles(auth.RoleAdministrator)
	anyRole := auth.RequireRoles(auth.RoleAdministrator, auth.RoleManager, auth.RoleEngineer)

	router.Method(http.MethodGet, "/v1/users", api.Handler(admin(listUsers(repo))))
	router.Method(http.MethodGet, "/v1/users/{user_id}", api.Handler(admin(getUser(repo))))
	router.Method(http.MethodPost, "/v1/users", api.Handler(admin(createUser(repo))))
	router.Method(http.MethodPut, "/v1/users/{user_id}", api.Handler(admin(updateUser(repo))))
	router.Method(http.MethodDelete, "/v1/users/{user_id}", api.Handler(admin(deleteUser(repo))))

	router.Method(http.MethodGet, "/v1/roles", api.Handler(anyRole(listRoles())))
}

func userIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "user_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, apperrors.NewValidationError("user_id must be a non-negative integer", nil)
	}
	return id, nil
}

func formatUser(user *User) map[string]any {
	return map[string]any{
		"object":     "user",
		"id":         user.ID,
		"username":   user.Username,
		"role":       user.Role,
		"created_at": user.CreatedAt,
		"updated_at": user.UpdatedAt,
	}
}

func createUser(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		var input CreateUserInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if strings.TrimSpace(input.Username) == "" {
			return apperrors.NewValidationError("username is required", nil)
		}
		if len(input.Password) < 8 {
			return apperrors.NewValidationError("password must be at least 8 characters", nil)
		}
		if !auth.ValidRole(input.Role) {
			return apperrors.NewValidationError("role must be one of administrator, manager, engineer", nil)
		}

		existing, err := repo.GetByUsername(input.Username)
		if err != nil {
			return apperrors.NewInternalError("Failed to verify username")
		}
		if existing != nil {
			return apperrors.NewConflictError("username already taken", map[string]any{"username": input.Username})
		}

		user, err := repo.Create(input)
		if err != nil {
			log.Printf("POST /v1/users error: %v", err)
			return apperrors.NewInternalError("Failed to create user")
		}
		return api.WriteResource(w, http.StatusCreated, formatUser(user))
	}
}

func listUsers(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		limit, offset := api.ListParams(r, 100, 500)

		result, total, err := repo.List(limit, offset)
		if err != nil {
			log.Printf("GET /v1/users error: %v", err)
			return apperrors.NewInternalError("Failed to list users")
		}

		formatted := make([]map[string]any, 0, len(result))
		for i := range result {
			formatted = append(formatted, formatUser(&result[i]))
		}
		return api.WriteList(w, "/v1/users", formatted, offset+len(result) < total)
	}
}

func getUser(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := userIDParam(r)
		if err != nil {
			return err
		}

		user, err := repo.GetByID(id)
		if err != nil {
			return apperrors.NewInternalError("Failed to get user")
		}
		if user == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeUserNotFound, "user", id)
		}
		return api.WriteResource(w, http.StatusOK, formatUser(user))
	}
}

func updateUser(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := userIDParam(r)
		if err != nil {
			return err
		}

		var input UpdateUserInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Username != nil && strings.TrimSpace(*input.Username) == "" {
			return apperrors.NewValidationError("username must not be empty", nil)
		}
		if input.Password != nil && len(*input.Password) < 8 {
			return apperrors.NewValidationError("password must be at least 8 characters", nil)
		}
		if input.Role != nil && !auth.ValidRole(*input.Role) {
			return apperrors.NewValidationError("role must be one of administrator, manager, engineer", nil)
		}

		user, err := repo.Update(id, input)
		if err != nil {
			return apperrors.NewInternalError("Failed to update user")
		}
		if user == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeUserNotFound, "user", id)
		}
		return api.WriteResource(w, http.StatusOK, formatUser(user))
	}
}

func deleteUser(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := userIDParam(r)
		if err != nil {
			return err
		}

		deleted, err := repo.Delete(id)
		if err != nil {
			return apperrors.NewInternalError("Failed to delete user")
		}
		if !deleted {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeUserNotFound, "user", id)
		}
		return api.WriteNoContent(w)
	}
}

func listRoles() api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		formatted := make([]map[string]any, 0, len(auth.Roles))
		for _, role := range auth.Roles {
			formatted = append(formatted, map[string]any{"object": "role", "name": role})
		}
		return api.WriteList(w, "/v1/roles", formatted, false)
	}
}
