package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neosiam/returnhub/internal/config"
	"github.com/neosiam/returnhub/internal/database"
	"github.com/neosiam/returnhub/internal/middleware"
	"github.com/neosiam/returnhub/internal/ncr"
	"github.com/neosiam/returnhub/internal/services/printer"
	"github.com/neosiam/returnhub/internal/store"
	"github.com/neosiam/returnhub/internal/websocket"
	"github.com/neosiam/returnhub/internal/workflow"
)

// Router wraps the mux router and the service layer
type Router struct {
	*mux.Router
	cfg     *config.Config
	db      *database.DB
	store   store.Store
	engine  *workflow.Engine
	ncr     *ncr.Service
	printer *printer.Service
	hub     *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg *config.Config, db *database.DB, st store.Store, engine *workflow.Engine, ncrSvc *ncr.Service, printSvc *printer.Service, hub *websocket.Hub) *Router {
	r := &Router{
		Router:  mux.NewRouter(),
		cfg:     cfg,
		db:      db,
		store:   st,
		engine:  engine,
		ncr:     ncrSvc,
		printer: printSvc,
		hub:     hub,
	}

	// Lowercase all paths so QR-encoded URLs scan regardless of case
	r.Use(middleware.CaseInsensitiveMiddleware)

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	protected := middleware.AuthMiddleware(cfg.JWTSecret)

	// RMA routes (protected)
	rma := r.PathPrefix("/api/rma").Subrouter()
	rma.Use(protected)
	rma.HandleFunc("", r.listRMAs).Methods("GET")
	rma.HandleFunc("", r.createRMA).Methods("POST")
	rma.HandleFunc("/{id}", r.getRMA).Methods("GET")

	// Collection routes (protected)
	collections := r.PathPrefix("/api/collections").Subrouter()
	collections.Use(protected)
	collections.HandleFunc("", r.listCollections).Methods("GET")
	collections.HandleFunc("", r.dispatchCollection).Methods("POST")
	collections.HandleFunc("/{id}", r.getCollection).Methods("GET")
	collections.HandleFunc("/{id}/collect", r.confirmCollection).Methods("POST")

	// Manifest routes (protected)
	manifests := r.PathPrefix("/api/manifests").Subrouter()
	manifests.Use(protected)
	manifests.HandleFunc("", r.listManifests).Methods("GET")
	manifests.HandleFunc("", r.createManifest).Methods("POST")
	manifests.HandleFunc("/{id}", r.getManifest).Methods("GET")
	manifests.HandleFunc("/{id}/arrive", r.markManifestArrived).Methods("POST")
	manifests.HandleFunc("/{id}/label", r.manifestLabel).Methods("GET")
	manifests.HandleFunc("/{id}/label/print", r.printManifestLabel).Methods("POST")

	// Operations-hub routes (protected)
	operations := r.PathPrefix("/api/operations").Subrouter()
	operations.Use(protected)
	operations.HandleFunc("/records", r.listRecords).Methods("GET")
	operations.HandleFunc("/board", r.board).Methods("GET")
	operations.HandleFunc("/pending-logistics", r.pendingLogistics).Methods("GET")
	operations.HandleFunc("/pending-branch-receive", r.pendingBranchReceive).Methods("GET")
	operations.HandleFunc("/records/{id}/receive", r.receiveItem).Methods("POST")
	operations.HandleFunc("/receive-all", r.receiveAll).Methods("POST")
	operations.HandleFunc("/records/{id}/split", r.splitRecord).Methods("POST")

	// NCR routes (protected)
	ncrRoutes := r.PathPrefix("/api/ncr").Subrouter()
	ncrRoutes.Use(protected)
	ncrRoutes.HandleFunc("/submit", r.submitNCR).Methods("POST")
	ncrRoutes.HandleFunc("/records", r.listNCRRecords).Methods("GET")
	ncrRoutes.HandleFunc("/records/{id}", r.getNCRRecord).Methods("GET")
	ncrRoutes.HandleFunc("/{number}/qa", r.recordQADecision).Methods("POST")

	// Realtime transition events
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWs(hub, w, req)
	})

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": "local",
	})
}

// getStatus returns the current status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "running",
		"version": "1.0.0",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps service errors onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	var verr *workflow.ValidationError
	var serr *workflow.InvalidStateError
	var gerr *ncr.SequenceGenerationError
	var perr *ncr.PartialPersistenceError

	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":      "validation failed",
			"violations": verr.Violations,
		})
	case errors.As(err, &serr):
		respondError(w, http.StatusConflict, serr.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.As(err, &gerr):
		respondError(w, http.StatusBadGateway, gerr.Error())
	case errors.As(err, &perr):
		respondJSON(w, http.StatusMultiStatus, map[string]interface{}{
			"error":     perr.Error(),
			"ncrNumber": perr.NCRNumber,
			"succeeded": perr.Succeeded,
			"total":     perr.Total,
		})
	case errors.Is(err, ncr.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "not authorized")
	case errors.Is(err, workflow.ErrCancelled):
		respondError(w, http.StatusConflict, "cancelled")
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
