package playlists

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

// RegisterRoutes wires playlist routes to the router.
func RegisterRoutes(router chi.Router, repo *Repository) {
	view := auth.RequireRoles(auth.RoleAdministrator, auth.RoleManager, auth.RoleEngineer)
	manage := auth.RequireRoles(auth.RoleAdministrator, auth.RoleManager)

	router.Method(http.MethodGet, "/v1/playlists", api.Handler(view(listPlaylists(repo))))
	router.Method(http.MethodGet, "/v1/playlists/{playlist_id}", api.Handler(view(getPlaylist(repo))))
	router.Method(http.MethodPost, "/v1/playlists", api.Handler(manage(createPlaylist(repo))))
	router.Method(http.MethodPut, "/v1/playlists/{playlist_id}", api.Handler(manage(updatePlaylist(repo))))
	router.Method(http.MethodDelete, "/v1/playlists/{playlist_id}", api.Handler(manage(deletePlaylist(repo))))
}

func playlistIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "playlist_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, apperrors.NewValidationError("playlist_id must be a non-negative integer", nil)
	}
	return id, nil
}

func createPlaylist(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		var input CreatePlaylistInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Name == "" {
			return apperrors.NewValidationError("name is required", nil)
		}

		playlist, err := repo.Create(input)
		if err != nil {
			log.Printf("POST /v1/playlists error: %v", err)
			return apperrors.NewInternalError("Failed to create playlist")
		}
		return api.WriteResource(w, http.StatusCreated, formatPlaylist(playlist))
	}
}

func listPlaylists(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		limit, offset := api.ListParams(r, 100, 500)

		result, total, err := repo.List(limit, offset)
		if err != nil {
			log.Printf("GET /v1/playlists error: %v", err)
			return apperrors.NewInternalError("Failed to list playlists")
		}

		formatted := make([]map[string]any, 0, len(result))
		for i := range result {
			formatted = append(formatted, formatPlaylist(&result[i]))
		}
		return api.WriteList(w, "/v1/playlists", formatted, offset+len(result) < total)
	}
}

func getPlaylist(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := playlistIDParam(r)
		if err != nil {
			return err
		}

		playlist, err := repo.GetByID(id)
		if err != nil {
			return apperrors.NewInternalError("Failed to get playlist")
		}
		if playlist == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodePlaylistNotFound, "playlist", id)
		}
		return api.WriteResource(w, http.StatusOK, formatPlaylist(playlist))
	}
}

func updatePlaylist(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := playlistIDParam(r)
		if err != nil {
			return err
		}

		var input UpdatePlaylistInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Name != nil && *input.Name == "" {
			return apperrors.NewValidationError("name must not be empty", nil)
		}

		playlist, err := repo.Update(id, input)
		if err != nil {
			return apperrors.NewInternalError("Failed to update playlist")
		}
		if playlist == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodePlaylistNotFound, "playlist", id)
		}
		return api.WriteResource(w, http.StatusOK, formatPlaylist(playlist))
	}
}

func deletePlaylist(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := playlistIDParam(r)
		if err != nil {
			return err
		}

		deleted, err := repo.Delete(id)
		if err != nil {
			return apperrors.NewInternalError("Failed to delete playlist")
		}
		if !deleted {
			return apperrors.NewNotFoundError(apperrors.ErrorCodePlaylistNotFound, "playlist", id)
		}
		return api.WriteNoContent(w)
	}
}
