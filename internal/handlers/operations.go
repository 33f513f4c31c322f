package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neosiam/returnhub/internal/grouping"
	"github.com/neosiam/returnhub/internal/models"
)

// listRecords returns all operations-hub records
func (r *Router) listRecords(w http.ResponseWriter, req *http.Request) {
	records, err := r.store.ListReturnRecords(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch records")
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// boardGroup is the wire shape of one board row.
type boardGroup struct {
	Key            string                `json:"key"`
	Representative models.ReturnRecord   `json:"representative"`
	Members        []models.ReturnRecord `json:"members"`
	MixedProduct   bool                  `json:"mixedProduct"`
	TotalQuantity  float64               `json:"totalQuantity"`
}

// board returns records grouped for one disposition column. The disposition
// query parameter selects the column; without it the whole set is grouped.
func (r *Router) board(w http.ResponseWriter, req *http.Request) {
	records, err := r.store.ListReturnRecords(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch records")
		return
	}

	if d := req.URL.Query().Get("disposition"); d != "" {
		records = grouping.FilterByDisposition(records, models.Disposition(d))
	}

	groups := grouping.BuildGroups(records)
	out := make([]boardGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, boardGroup{
			Key:            g.Key,
			Representative: *g.Representative(),
			Members:        g.Members,
			MixedProduct:   g.MixedProduct(),
			TotalQuantity:  g.TotalQuantity(),
		})
	}

	respondJSON(w, http.StatusOK, out)
}

// pendingLogistics returns records waiting in the logistics step
func (r *Router) pendingLogistics(w http.ResponseWriter, req *http.Request) {
	records, err := r.engine.PendingLogistics(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch pending records")
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// pendingBranchReceive returns records awaiting branch receipt
func (r *Router) pendingBranchReceive(w http.ResponseWriter, req *http.Request) {
	records, err := r.engine.PendingBranchReceive(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch pending records")
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// receiveItem confirms branch receipt of one record
func (r *Router) receiveItem(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	if err := r.engine.ReceiveBranchItem(req.Context(), vars["id"]); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Item received"})
}

// receiveAll confirms branch receipt of every pending record
func (r *Router) receiveAll(w http.ResponseWriter, req *http.Request) {
	count, err := r.engine.ReceiveAllBranch(req.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Items received",
		"received": count,
	})
}

// splitRecord carves a quantity off a record into a child record
func (r *Router) splitRecord(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var body struct {
		Quantity float64 `json:"quantity"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	child, err := r.engine.SplitRecord(req.Context(), vars["id"], body.Quantity)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, child)
}
