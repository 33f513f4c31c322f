package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/neosiam/returnhub/internal/models"
)

// listRMAs returns all return requests
func (r *Router) listRMAs(w http.ResponseWriter, req *http.Request) {
	rmas, err := r.store.ListReturnRequests(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch return requests")
		return
	}

	respondJSON(w, http.StatusOK, rmas)
}

// getRMA returns a single return request by ID
func (r *Router) getRMA(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	rma, err := r.store.GetReturnRequest(req.Context(), vars["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rma)
}

// createRMA registers a branch-approved return request awaiting pickup
func (r *Router) createRMA(w http.ResponseWriter, req *http.Request) {
	var rma models.ReturnRequest
	if err := json.NewDecoder(req.Body).Decode(&rma); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if rma.ID == "" {
		rma.ID = uuid.New().String()
	}
	if rma.Status == "" {
		rma.Status = models.RMAApprovedForPickup
	}

	if err := r.store.SaveReturnRequest(req.Context(), &rma); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create return request")
		return
	}

	respondJSON(w, http.StatusCreated, rma)
}
