package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neosiam/returnhub/internal/models"
	"github.com/neosiam/returnhub/internal/workflow"
)

// listCollections returns all collection orders
func (r *Router) listCollections(w http.ResponseWriter, req *http.Request) {
	orders, err := r.store.ListCollectionOrders(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch collection orders")
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

// getCollection returns a single collection order by ID
func (r *Router) getCollection(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	order, err := r.store.GetCollectionOrder(req.Context(), vars["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// dispatchCollection bundles selected RMAs into a new collection order
func (r *Router) dispatchCollection(w http.ResponseWriter, req *http.Request) {
	var in workflow.DispatchInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	order, err := r.engine.DispatchCollection(req.Context(), in)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// confirmCollection records the driver's proof of pickup
func (r *Router) confirmCollection(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var proof models.ProofOfCollection
	if err := json.NewDecoder(req.Body).Decode(&proof); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	order, err := r.engine.ConfirmDriverCollection(req.Context(), vars["id"], proof)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// listManifests returns all shipment manifests
func (r *Router) listManifests(w http.ResponseWriter, req *http.Request) {
	manifests, err := r.store.ListManifests(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch manifests")
		return
	}

	respondJSON(w, http.StatusOK, manifests)
}

// getManifest returns a single manifest by ID
func (r *Router) getManifest(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	manifest, err := r.store.GetManifest(req.Context(), vars["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, manifest)
}

// createManifest consolidates collected orders into a shipment
func (r *Router) createManifest(w http.ResponseWriter, req *http.Request) {
	var in workflow.ManifestInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	manifest, err := r.engine.CreateShipmentManifest(req.Context(), in)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, manifest)
}

// markManifestArrived records hub arrival of an in-transit shipment
func (r *Router) markManifestArrived(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	manifest, err := r.engine.MarkManifestArrived(req.Context(), vars["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, manifest)
}
