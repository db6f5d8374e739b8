package auth

import (
	"net/http"
	"strings"

	"github.com/dkovalev/mediapi-hub-go/internal/api"
	"github.com/dkovalev/mediapi-hub-go/internal/apperrors"
	"github.com/dkovalev/mediapi-hub-go/internal/config"
)

var publicRoutes = map[string]struct{}{
	"/v1/auth/login":   {},
	"/v1/auth/refresh": {},
	"/v1/health":       {},
	"/v1/health/live":  {},
	"/v1/health/ready": {},
}

var publicPrefixes = []string{
	"/v1/health",
}

// Middleware validates JWT tokens for protected routes.
func Middleware(cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicRoute(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			if isTestModeRequest(r, cfg) {
				user := User{
					Sub:      "test-user",
					Username: "test",
					Role:     RoleAdministrator,
				}
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.WriteError(w, r, apperrors.NewUnauthorizedError("Missing Authorization header"))
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				api.WriteError(w, r, apperrors.NewUnauthorizedError("Invalid Authorization header format"))
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				api.WriteError(w, r, apperrors.NewUnauthorizedError("Invalid Authorization header format"))
				return
			}

			payload, err := VerifyToken(cfg, token)
			if err != nil {
				if err == ErrTokenExpired {
					api.WriteError(w, r, apperrors.NewUnauthorizedError("Token has expired", apperrors.ErrorCodeAuthTokenExpired))
					return
				}
				api.WriteError(w, r, apperrors.NewUnauthorizedError("Invalid token", apperrors.ErrorCodeAuthTokenInvalid))
				return
			}

			if payload.Type != TokenTypeAccess {
				api.WriteError(w, r, apperrors.NewUnauthorizedError("Invalid token type", apperrors.ErrorCodeAuthTokenInvalid))
				return
			}

			user := User{
				Sub:      payload.Sub,
				Username: payload.Username,
				Role:     payload.Role,
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireRoles guards a handler so only the listed roles may call it.
func RequireRoles(roles ...Role) func(api.Handler) api.Handler {
	allowed := map[Role]struct{}{}
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next api.Handler) api.Handler {
		return func(w http.ResponseWriter, r *http.Request) error {
			user, ok := UserFromContext(r.Context())
			if !ok {
				return apperrors.NewUnauthorizedError("Authentication required")
			}
			if _, ok := allowed[user.Role]; !ok {
				return apperrors.NewForbiddenError("Insufficient role")
			}
			return next(w, r)
		}
	}
}

func isPublicRoute(path string) bool {
	if _, ok := publicRoutes[path]; ok {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isTestModeRequest(r *http.Request, cfg config.Config) bool {
	if !cfg.AllowTestMode {
		return false
	}
	if cfg.Env != "development" {
		return false
	}
	return r.Header.Get("x-test-mode") == "true"
}
