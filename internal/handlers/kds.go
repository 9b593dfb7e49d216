package handlers

import (
	"net/http"
	"strconv"

	"github.com/forkline-pos/forkline/internal/middleware"
	"github.com/forkline-pos/forkline/internal/models"
	"github.com/forkline-pos/forkline/internal/store"
)

func optionalUintQuery(req *http.Request, key string) *uint {
	raw := req.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	id := uint(v)
	return &id
}

// listTickets returns the ticket rail for one display: filter by rvc,
// device, station type, and whether bumped tickets come back.
func (r *Router) listTickets(w http.ResponseWriter, req *http.Request) {
	filter := store.TicketFilter{
		RvcID:         optionalUintQuery(req, "rvc"),
		KdsDeviceID:   optionalUintQuery(req, "device"),
		StationType:   models.StationType(req.URL.Query().Get("station")),
		IncludeBumped: req.URL.Query().Get("includeBumped") == "true",
	}

	tickets, err := r.store.ListTickets(filter)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tickets)
}

func (r *Router) bumpTicket(w http.ResponseWriter, req *http.Request) {
	ticket, err := r.svc.BumpTicket(pathID(req, "id"), middleware.EmployeeID(req))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ticket)
}

func (r *Router) recallTicket(w http.ResponseWriter, req *http.Request) {
	ticket, err := r.svc.RecallTicket(pathID(req, "id"), middleware.EmployeeID(req))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ticket)
}

func (r *Router) markItemReady(w http.ResponseWriter, req *http.Request) {
	item, err := r.svc.MarkTicketItemReady(pathID(req, "id"), middleware.EmployeeID(req))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}
