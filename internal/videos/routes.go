package videos

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

// RegisterRoutes wires video routes to the router.
func RegisterRoutes(router chi.Router, repo *Repository) {
	view := auth.RequireRoles(auth.RoleAdministrator, auth.RoleManager, auth.RoleEngineer)
	manage := auth.RequireRoles(auth.RoleAdministrator, auth.RoleManager)

	router.Method(http.MethodGet, "/v1/videos", api.Handler(view(listVideos(repo))))
	router.Method(http.MethodGet, "/v1/videos/{video_id}", api.Handler(view(getVideo(repo))))
	router.Method(http.MethodPost, "/v1/videos", api.Handler(manage(createVideo(repo))))
	router.Method(http.MethodPut, "/v1/videos/{video_id}", api.Handler(manage(updateVideo(repo))))
	router.Method(http.MethodDelete, "/v1/videos/{video_id}", api.Handler(manage(deleteVideo(repo))))
}

func videoIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "video_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, apperrors.NewValidationError("video_id must be a non-negative integer", nil)
	}
	return id, nil
}

func formatVideo(video *Video) map[string]any {
	formatted := map[string]any{
		"object":     "video",
		"id":         video.ID,
		"name":       video.Name,
		"uri":        video.URI,
		"created_at": video.CreatedAt,
		"updated_at": video.UpdatedAt,
	}
	if video.DurationSec != nil {
		formatted["duration_sec"] = *video.DurationSec
	}
	return formatted
}

func createVideo(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		var input CreateVideoInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Name == "" {
			return apperrors.NewValidationError("name is required", nil)
		}
		if input.URI == "" {
			return apperrors.NewValidationError("uri is required", nil)
		}

		video, err := repo.Create(input)
		if err != nil {
			log.Printf("POST /v1/videos error: %v", err)
			return apperrors.NewInternalError("Failed to create video")
		}
		return api.WriteResource(w, http.StatusCreated, formatVideo(video))
	}
}

func listVideos(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		limit, offset := api.ListParams(r, 100, 500)

		result, total, err := repo.List(limit, offset)
		if err != nil {
			log.Printf("GET /v1/videos error: %v", err)
			return apperrors.NewInternalError("Failed to list videos")
		}

		formatted := make([]map[string]any, 0, len(result))
		for i := range result {
			formatted = append(formatted, formatVideo(&result[i]))
		}
		return api.WriteList(w, "/v1/videos", formatted, offset+len(result) < total)
	}
}

func getVideo(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := videoIDParam(r)
		if err != nil {
			return err
		}

		video, err := repo.GetByID(id)
		if err != nil {
			return apperrors.NewInternalError("Failed to get video")
		}
		if video == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeVideoNotFound, "video", id)
		}
		return api.WriteResource(w, http.StatusOK, formatVideo(video))
	}
}

func updateVideo(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := videoIDParam(r)
		if err != nil {
			return err
		}

		var input UpdateVideoInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Name != nil && *input.Name == "" {
			return apperrors.NewValidationError("name must not be empty", nil)
		}

		video, err := repo.Update(id, input)
		if err != nil {
			return apperrors.NewInternalError("Failed to update video")
		}
		if video == nil {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeVideoNotFound, "video", id)
		}
		return api.WriteResource(w, http.StatusOK, formatVideo(video))
	}
}

func deleteVideo(repo *Repository) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := videoIDParam(r)
		if err != nil {
			return err
		}

		deleted, err := repo.Delete(id)
		if err != nil {
			return apperrors.NewInternalError("Failed to delete video")
		}
		if !deleted {
			return apperrors.NewNotFoundError(apperrors.ErrorCodeVideoNotFound, "video", id)
		}
		return api.WriteNoContent(w)
	}
}
