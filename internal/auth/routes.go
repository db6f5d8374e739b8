package auth

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dkovalev/mediapi-hub-go/internal/api"
	"github.com/dkovalev/mediapi-hub-go/internal/apperrors"
	"github.com/dkovalev/mediapi-hub-go/internal/config"
)

// UserRecord is the authenticated identity returned by a CredentialStore.
type UserRecord struct {
	ID       int64
	Username string
	Role     Role
}

// CredentialStore verifies username/password pairs.
// A nil record with a nil error means the credentials did not match.
type CredentialStore interface {
	Authenticate(username, password string) (*UserRecord, error)
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterRoutes wires auth routes to the router.
func RegisterRoutes(router chi.Router, store CredentialStore, cfg config.Config) {
	router.Method(http.MethodPost, "/v1/auth/login", api.Handler(login(store, cfg)))
	router.Method(http.MethodPost, "/v1/auth/refresh", api.Handler(refresh(cfg)))
}

func login(store CredentialStore, cfg config.Config) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		var input loginInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.Username == "" || input.Password == "" {
			return apperrors.NewValidationError("username and password are required", nil)
		}

		record, err := store.Authenticate(input.Username, input.Password)
		if err != nil {
			return apperrors.NewInternalError("Failed to verify credentials")
		}
		if record == nil {
			return apperrors.NewUnauthorizedError("Invalid username or password", apperrors.ErrorCodeAuthBadCredentials)
		}

		pair, err := GenerateTokenPair(cfg, TokenPayload{
			Sub:      strconv.FormatInt(record.ID, 10),
			Username: record.Username,
			Role:     record.Role,
		})
		if err != nil {
			return apperrors.NewInternalError("Failed to issue tokens")
		}

		return api.WriteResource(w, http.StatusOK, map[string]any{
			"object":        "session",
			"access_token":  pair.AccessToken,
			"refresh_token": pair.RefreshToken,
			"expires_in":    pair.ExpiresInSec,
			"user": map[string]any{
				"id":       record.ID,
				"username": record.Username,
				"role":     record.Role,
			},
		})
	}
}

func refresh(cfg config.Config) func(w http.ResponseWriter, r *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		var input refreshInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return apperrors.NewValidationError("invalid request body", nil)
		}
		if input.RefreshToken == "" {
			return apperrors.NewValidationError("refresh_token is required", nil)
		}

		accessToken, expiresIn, err := RefreshAccessToken(cfg, input.RefreshToken)
		if err != nil {
			if err == ErrTokenExpired {
				return apperrors.NewUnauthorizedError("Refresh token has expired", apperrors.ErrorCodeAuthTokenExpired)
			}
			return apperrors.NewUnauthorizedError("Invalid refresh token", apperrors.ErrorCodeAuthTokenInvalid)
		}

		return api.WriteResource(w, http.StatusOK, map[string]any{
			"object":       "session",
			"access_token": accessToken,
			"expires_in":   expiresIn,
		})
	}
}
