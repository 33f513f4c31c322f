package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neosiam/returnhub/internal/models"
	"github.com/neosiam/returnhub/internal/ncr"
	"github.com/neosiam/returnhub/internal/services/printer"
)

// SubmitNCRRequest carries a complete draft: the client builds the item list
// locally and submits it in one batch.
type SubmitNCRRequest struct {
	Header models.NCRHeader `json:"header"`
	Items  []models.NCRItem `json:"items"`
	Print  bool             `json:"print"`
}

// submitNCR validates and persists a report, syncing each saved item into the
// operations hub
func (r *Router) submitNCR(w http.ResponseWriter, req *http.Request) {
	var body SubmitNCRRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	draft := &ncr.Draft{Header: body.Header, Print: body.Print}
	for _, item := range body.Items {
		if err := r.ncr.AddItem(draft, item); err != nil {
			respondDomainError(w, err)
			return
		}
	}

	result, err := r.ncr.Submit(req.Context(), draft)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// listNCRRecords returns all persisted NCR rows
func (r *Router) listNCRRecords(w http.ResponseWriter, req *http.Request) {
	rows, err := r.store.ListNCRRecords(req.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch NCR records")
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

// getNCRRecord returns one persisted NCR row by its composite id
func (r *Router) getNCRRecord(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	row, err := r.store.GetNCRRecord(req.Context(), vars["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, row)
}

// QADecisionRequest carries the QA verdict for a whole report.
type QADecisionRequest struct {
	Accept bool   `json:"accept"`
	Reason string `json:"reason"`
}

// recordQADecision stamps the QA verdict on every row of a report
func (r *Router) recordQADecision(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var body QADecisionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	count, err := r.ncr.RecordQADecision(req.Context(), vars["number"], body.Accept, body.Reason)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "QA decision recorded",
		"rows":    count,
	})
}

// manifestLabel renders the shipment label PDF for printing
func (r *Router) manifestLabel(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	manifest, err := r.store.GetManifest(req.Context(), vars["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	pdf, err := printer.GenerateManifestLabelPDF(*manifest)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render label")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// printManifestLabel drops the shipment label into the print output directory
func (r *Router) printManifestLabel(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	manifest, err := r.store.GetManifest(req.Context(), vars["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if err := r.printer.PrintManifestLabel(*manifest); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to print label")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Label sent to printer"})
}
