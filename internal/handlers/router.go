package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/forkline-pos/forkline/internal/apperrors"
	"github.com/forkline-pos/forkline/internal/buildinfo"
	"github.com/forkline-pos/forkline/internal/config"
	"github.com/forkline-pos/forkline/internal/middleware"
	"github.com/forkline-pos/forkline/internal/orders"
	"github.com/forkline-pos/forkline/internal/store"
	"github.com/forkline-pos/forkline/internal/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// Router wraps the mux router and the engine's collaborators
type Router struct {
	*mux.Router
	store    store.Store
	svc      *orders.Service
	hub      *websocket.Hub
	cfg      *config.Config
	validate *validator.Validate
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(st store.Store, svc *orders.Service, hub *websocket.Hub, cfg *config.Config) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		store:    st,
		svc:      svc,
		hub:      hub,
		cfg:      cfg,
		validate: validator.New(),
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/pin-login", r.pinLogin).Methods("POST")

	// Realtime KDS updates
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWs(hub, w, req)
	})

	// Check routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	api.HandleFunc("/checks", r.listChecks).Methods("GET")
	api.HandleFunc("/checks", r.createCheck).Methods("POST")
	api.HandleFunc("/checks/{id}", r.getCheck).Methods("GET")
	api.HandleFunc("/checks/{id}/items", r.addItem).Methods("POST")
	api.HandleFunc("/checks/{id}/items/{itemId}/modifiers", r.editModifiers).Methods("PUT")
	api.HandleFunc("/checks/{id}/items/{itemId}/void", r.voidItem).Methods("POST")
	api.HandleFunc("/checks/{id}/send", r.sendCheck).Methods("POST")
	api.HandleFunc("/checks/{id}/payments", r.submitPayment).Methods("POST")
	api.HandleFunc("/checks/{id}/receipt.pdf", r.receiptPDF).Methods("GET")

	// KDS routes (protected)
	api.HandleFunc("/kds/tickets", r.listTickets).Methods("GET")
	api.HandleFunc("/kds/tickets/{id}/bump", r.bumpTicket).Methods("POST")
	api.HandleFunc("/kds/tickets/{id}/recall", r.recallTicket).Methods("POST")
	api.HandleFunc("/kds/ticket-items/{id}/ready", r.markItemReady).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"started_at": buildinfo.StartTime,
		"commit":     buildinfo.CommitHash,
		"built_at":   buildinfo.BuildTime,
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

// respondEngineError maps the engine's error taxonomy onto HTTP statuses;
// anything outside it is a storage failure and logs as a 500.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case apperrors.IsInvalidState(err):
		respondError(w, http.StatusConflict, err.Error())
	case apperrors.IsUnauthorized(err):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		log.Printf("storage failure: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
