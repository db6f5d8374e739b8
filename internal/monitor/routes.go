package monitor

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/dkovalev/mediapi-hub-go/internal/api"
	"github.com/dkovalev/mediapi-hub-go/internal/apperrors"
	"github.com/dkovalev/mediapi-hub-go/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens via the bearer middleware before the upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes wires status routes to the router.
func RegisterRoutes(router chi.Router, service *Service, hub *Hub) {
	anyRole := auth.RequireRoles(auth.RoleAdministrator, auth.RoleManager, auth.RoleEngineer)

	router.Method(http.MethodGet, "/v1/status", api.Handler(anyRole(getStatus(service))))
	router.Method(http.MethodGet, "/v1/status/ws", api.Handler(anyRole(statusFeed(hub))))
}

func getStatus(service *Service) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		total, online, err := service.Summary()
		if err != nil {
			log.Printf("GET /v1/status error: %v", err)
			return apperrors.NewInternalError("Failed to read fleet status")
		}
		return api.WriteResource(w, http.StatusOK, map[string]any{
			"object":  "fleet_status",
			"total":   total,
			"online":  online,
			"offline": total - online,
		})
	}
}

func statusFeed(hub *Hub) api.Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote its own response.
			return nil
		}
		hub.Add(conn)
		return nil
	}
}
