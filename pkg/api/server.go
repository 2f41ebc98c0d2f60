// Package api pkg/api/server.go

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Aboubacarelhacen/silo/pkg/auth"
	"github.com/Aboubacarelhacen/silo/pkg/broadcast"
	"github.com/Aboubacarelhacen/silo/pkg/config"
	httpx "github.com/Aboubacarelhacen/silo/pkg/http"
	"github.com/Aboubacarelhacen/silo/pkg/models"
	"github.com/Aboubacarelhacen/silo/pkg/silo"
)

// Server is the HTTP query/control surface: telemetry reads, device
// connection control, authentication, user administration, and the
// websocket live channel.
type Server struct {
	cfg    config.HTTPConfig
	store  *silo.Store
	source silo.DataSource
	authn  *auth.Service
	users  *auth.Repository
	hub    *broadcast.Hub
	router *mux.Router
}

// NewServer wires the handlers to their collaborators by explicit
// construction.
func NewServer(
	cfg config.HTTPConfig,
	store *silo.Store,
	source silo.DataSource,
	authn *auth.Service,
	users *auth.Repository,
	hub *broadcast.Hub) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		source: source,
		authn:  authn,
		users:  users,
		hub:    hub,
		router: mux.NewRouter(),
	}

	s.setupRoutes()

	return s
}

// Router returns the fully-wired handler for serving.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(httpx.CommonMiddleware)

	requireAuth := httpx.RequireAuth(s.authn)
	requireAdmin := httpx.RequireRole(models.RoleAdmin)

	api := s.router.PathPrefix("/api").Subrouter()

	// Telemetry reads. Unauthenticated by default; an explicit config
	// switch gates them behind a token.
	telemetry := api.NewRoute().Subrouter()
	if s.cfg.RequireTelemetryAuth {
		telemetry.Use(requireAuth)
	}

	telemetry.HandleFunc("/silo/current", s.getCurrentLevel).Methods(http.MethodGet)
	telemetry.HandleFunc("/silo/history", s.getLevelHistory).Methods(http.MethodGet)
	telemetry.HandleFunc("/temperature/current", s.getCurrentTemperature).Methods(http.MethodGet)
	telemetry.HandleFunc("/temperature/history", s.getTemperatureHistory).Methods(http.MethodGet)
	telemetry.HandleFunc("/plc/status", s.getDeviceStatus).Methods(http.MethodGet)

	// Device control always requires a token.
	device := api.NewRoute().Subrouter()
	device.Use(requireAuth)
	device.HandleFunc("/plc/connect", s.connectDevice).Methods(http.MethodPost)
	device.HandleFunc("/plc/disconnect", s.disconnectDevice).Methods(http.MethodPost)

	api.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(requireAuth)
	authed.HandleFunc("/auth/logout", s.logout).Methods(http.MethodPost)
	authed.HandleFunc("/auth/validate", s.validateToken).Methods(http.MethodGet)

	admin := api.PathPrefix("/users").Subrouter()
	admin.Use(requireAuth, requireAdmin)
	admin.HandleFunc("", s.listUsers).Methods(http.MethodGet)
	admin.HandleFunc("", s.createUser).Methods(http.MethodPost)
	admin.HandleFunc("/{id}", s.getUser).Methods(http.MethodGet)
	admin.HandleFunc("/{id}", s.updateUser).Methods(http.MethodPut)
	admin.HandleFunc("/{id}", s.deleteUser).Methods(http.MethodDelete)

	// Live channel. Shares the telemetry trust boundary.
	ws := s.router.NewRoute().Subrouter()
	if s.cfg.RequireTelemetryAuth {
		ws.Use(requireAuth)
	}

	ws.HandleFunc("/ws", s.serveWS).Methods(http.MethodGet)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("api: error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}
