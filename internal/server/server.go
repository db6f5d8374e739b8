package server

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dkovalev/mediapi-hub-go/internal/accounts"
	"github.com/dkovalev/mediapi-hub-go/internal/api"
	"github.com/dkovalev/mediapi-hub-go/internal/auth"
	"github.com/dkovalev/mediapi-hub-go/internal/config"
	"github.com/dkovalev/mediapi-hub-go/internal/db"
	"github.com/dkovalev/mediapi-hub-go/internal/devices"
	"github.com/dkovalev/mediapi-hub-go/internal/groups"
	"github.com/dkovalev/mediapi-hub-go/internal/monitor"
	"github.com/dkovalev/mediapi-hub-go/internal/playlists"
	"github.com/dkovalev/mediapi-hub-go/internal/users"
	"github.com/dkovalev/mediapi-hub-go/internal/videos"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestLoggerMiddleware logs all incoming HTTP requests
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, wrapped.status, time.Since(start).Round(time.Millisecond))
	})
}

// Options controls server wiring.
type Options struct {
	DisableSweep bool
}

// NewHandler builds the HTTP handler and returns a shutdown function.
func NewHandler(cfg config.Config, options Options) (http.Handler, func(context.Context) error, error) {
	log.Printf("Using database: %s", cfg.SQLiteDBPath)
	dbPair, err := db.Init(cfg.SQLiteDBPath)
	if err != nil {
		return nil, nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)
	router.Use(requestLoggerMiddleware)
	router.Use(api.RequestIDMiddleware)
	router.Use(api.RecovererMiddleware)
	router.Use(auth.Middleware(cfg))

	registerHealthRoutes(router)

	usersRepo := users.NewRepository(dbPair)
	if err := usersRepo.Bootstrap(cfg.BootstrapAdminUser, cfg.BootstrapAdminPassword); err != nil {
		dbPair.Close()
		return nil, nil, err
	}
	auth.RegisterRoutes(router, usersRepo, cfg)
	users.RegisterRoutes(router, usersRepo)

	accountsRepo := accounts.NewRepository(dbPair)
	accounts.RegisterRoutes(router, accountsRepo)

	groupsRepo := groups.NewRepository(dbPair)
	groups.RegisterRoutes(router, groupsRepo, accountsRepo)

	statusHub := monitor.NewHub(nil)

	devicesRepo := devices.NewRepository(dbPair)
	devices.RegisterRoutes(router, devicesRepo, groupsRepo, accountsRepo, statusHub)

	playlistsRepo := playlists.NewRepository(dbPair)
	playlists.RegisterRoutes(router, playlistsRepo)

	videosRepo := videos.NewRepository(dbPair)
	videos.RegisterRoutes(router, videosRepo)

	monitorService := monitor.NewService(cfg, devicesRepo, statusHub, nil)
	monitor.RegisterRoutes(router, monitorService, statusHub)
	if !options.DisableSweep {
		if err := monitorService.Start(); err != nil {
			dbPair.Close()
			return nil, nil, err
		}
	}

	shutdown := func(ctx context.Context) error {
		if !options.DisableSweep {
			monitorService.Stop()
		}
		statusHub.Close()
		if ctx == nil {
			ctx = context.Background()
		}
		return dbPair.Close()
	}

	return router, shutdown, nil
}

func registerHealthRoutes(router chi.Router) {
	router.Method(http.MethodGet, "/v1/health", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		response := map[string]any{
			"status":    "healthy",
			"service":   "mediapi-hub",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		return api.WriteJSON(w, http.StatusOK, response)
	}))
	router.Method(http.MethodGet, "/v1/health/live", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		return api.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}))
	router.Method(http.MethodGet, "/v1/health/ready", api.Handler(func(w http.ResponseWriter, r *http.Request) error {
		return api.WriteJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	}))
}
