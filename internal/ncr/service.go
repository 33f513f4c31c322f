// Package ncr handles non-conformance reports: draft validation, item
// management, batch submission and the sync that mirrors each saved item into
// the operations hub as a return record.
package ncr

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/neosiam/returnhub/internal/models"
	"github.com/neosiam/returnhub/internal/sequence"
	"github.com/neosiam/returnhub/internal/store"
	"github.com/neosiam/returnhub/internal/workflow"
)

// printDelay decouples output rendering from save completion. Best effort.
const printDelay = 500 * time.Millisecond

// ErrNothingPersisted reports a submission where every item failed to save.
var ErrNothingPersisted = errors.New("no NCR items were saved")

// Printer renders the saved report. Implemented by services/printer.
type Printer interface {
	PrintNCR(header models.NCRHeader, items []models.NCRItem) error
}

// Draft is an in-progress report: one shared header plus the item list, built
// up before submission. Items never escape their draft.
type Draft struct {
	Header models.NCRHeader
	Items  []models.NCRItem
	Print  bool
}

// Outcome classifies a submission result.
type Outcome string

const (
	AllSucceeded  Outcome = "ALL_SUCCEEDED"
	NoneSucceeded Outcome = "NONE_SUCCEEDED"
	Partial       Outcome = "PARTIAL"
)

// SubmitResult summarizes a submission for the caller's report to the user.
type SubmitResult struct {
	NCRNumber       string   `json:"ncrNumber"`
	Total           int      `json:"total"`
	Succeeded       int      `json:"succeeded"`
	Outcome         Outcome  `json:"outcome"`
	ReturnRecordIDs []string `json:"returnRecordIds"`
}

// Service coordinates validation, persistence and the operations-hub sync.
type Service struct {
	store      store.Store
	seq        sequence.Generator
	confirmer  workflow.Confirmer
	authorizer Authorizer
	printer    Printer
	now        func() time.Time
}

// NewService wires the service. printer may be nil when no output device is
// configured.
func NewService(st store.Store, seq sequence.Generator, confirmer workflow.Confirmer, authorizer Authorizer, printer Printer) *Service {
	return &Service{
		store:      st,
		seq:        seq,
		confirmer:  confirmer,
		authorizer: authorizer,
		printer:    printer,
		now:        time.Now,
	}
}

// Validate checks a draft for submission, accumulating every violation so the
// operator fixes the form in one pass.
func (s *Service) Validate(d *Draft) error {
	var violations []string
	if d.Header.Founder == "" {
		violations = append(violations, "reporter name is required")
	}
	if len(d.Items) == 0 {
		violations = append(violations, "at least one item must be added")
	}
	if !d.Header.HasCause() {
		violations = append(violations, "at least one cause category must be selected")
	}
	return workflow.NewValidationError(violations)
}

// AddItem validates and appends one item to the draft. The preliminary
// decision is derived from the field-settlement flag, and a route of Other
// takes the free-text destination.
func (s *Service) AddItem(d *Draft, item models.NCRItem) error {
	var violations []string
	if item.ProductCode == "" {
		violations = append(violations, "product code is required")
	}
	if item.Branch == "" {
		violations = append(violations, "branch is required")
	}
	if err := workflow.NewValidationError(violations); err != nil {
		return err
	}

	if item.ItemID == "" {
		item.ItemID = uuid.New().String()
	}
	if item.FieldSettled {
		item.Decision = models.DecisionFieldSettlement
	} else {
		item.Decision = models.DecisionReturn
	}
	if item.PreliminaryRoute == "Other" && item.RouteOtherText != "" {
		item.PreliminaryRoute = item.RouteOtherText
	}

	d.Items = append(d.Items, item)
	return nil
}

// RemoveItem deletes an item from the draft after authorization and
// confirmation. Returns the removed item so edit flows can repopulate the
// form with its values.
func (s *Service) RemoveItem(ctx context.Context, d *Draft, itemID string) (*models.NCRItem, error) {
	if err := s.authorizer.Authorize(ctx, ActionDeleteItem); err != nil {
		return nil, err
	}
	if !s.confirmer.Confirm(ctx, fmt.Sprintf("Delete item %s from the report?", itemID)) {
		return nil, workflow.ErrCancelled
	}
	for i, item := range d.Items {
		if item.ItemID == itemID {
			removed := item
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return &removed, nil
		}
	}
	return nil, fmt.Errorf("item %s not found in draft", itemID)
}

// TakeItemForEdit removes an item for editing: the caller repopulates the
// add-item form with the returned values and re-adds the corrected item.
func (s *Service) TakeItemForEdit(ctx context.Context, d *Draft, itemID string) (*models.NCRItem, error) {
	if err := s.authorizer.Authorize(ctx, ActionEditItem); err != nil {
		return nil, err
	}
	for i, item := range d.Items {
		if item.ItemID == itemID {
			taken := item
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return &taken, nil
		}
	}
	return nil, fmt.Errorf("item %s not found in draft", itemID)
}

// Submit persists the draft: reserve the report number, then for each item,
// strictly in order, write the NCR row and, only if that lands, the derived
// operations record. Items are never submitted concurrently so the success
// count and item ordering stay deterministic.
func (s *Service) Submit(ctx context.Context, d *Draft) (*SubmitResult, error) {
	if err := s.Validate(d); err != nil {
		return nil, err
	}

	at := s.now()
	ncrNumber, err := s.seq.NextNCRNumber(ctx, at)
	if err != nil {
		return nil, &SequenceGenerationError{Err: err}
	}

	header := d.Header
	header.NCRNumber = ncrNumber
	if header.Date == "" {
		header.Date = at.Format("2006-01-02")
	}

	result := &SubmitResult{NCRNumber: ncrNumber, Total: len(d.Items)}
	for _, item := range d.Items {
		row := &models.NCRRecord{
			ID:        models.NCRRecordID(ncrNumber, item.ItemID),
			NCRNumber: ncrNumber,
			Status:    item.Status(header),
			Header:    datatypes.NewJSONType(header),
			Item:      datatypes.NewJSONType(item),
		}
		if err := s.store.SaveNCRRecord(ctx, row); err != nil {
			log.Printf("❌ NCR %s: failed to save item %s: %v", ncrNumber, item.ItemID, err)
			continue
		}

		rec := deriveReturnRecord(header, item, s.now())
		if err := s.store.SaveReturnRecord(ctx, rec); err != nil {
			log.Printf("❌ NCR %s: item %s saved but sync failed: %v", ncrNumber, item.ItemID, err)
			continue
		}

		result.Succeeded++
		result.ReturnRecordIDs = append(result.ReturnRecordIDs, rec.ID)
	}

	switch {
	case result.Succeeded == result.Total:
		result.Outcome = AllSucceeded
	case result.Succeeded == 0:
		result.Outcome = NoneSucceeded
		return result, ErrNothingPersisted
	default:
		result.Outcome = Partial
		return result, &PartialPersistenceError{
			NCRNumber: ncrNumber,
			Succeeded: result.Succeeded,
			Total:     result.Total,
		}
	}

	log.Printf("📋 NCR %s saved with %d items", ncrNumber, result.Succeeded)
	if d.Print && s.printer != nil {
		items := append([]models.NCRItem(nil), d.Items...)
		time.AfterFunc(printDelay, func() {
			if err := s.printer.PrintNCR(header, items); err != nil {
				log.Printf("⚠️  NCR %s: print failed: %v", ncrNumber, err)
			}
		})
	}
	return result, nil
}

// RecordQADecision stamps the QA verdict on every persisted row of a report
// and re-derives each row's status (accepted rows close; field-settled rows
// keep their settlement status). All rows update or none do. Returns the
// number of rows stamped.
func (s *Service) RecordQADecision(ctx context.Context, ncrNumber string, accept bool, reason string) (int, error) {
	rows, err := s.store.ListNCRRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list NCR records: %w", err)
	}

	var matched []models.NCRRecord
	for _, row := range rows {
		if row.NCRNumber == ncrNumber {
			matched = append(matched, row)
		}
	}
	if len(matched) == 0 {
		return 0, store.ErrNotFound
	}

	err = s.store.WithinTx(ctx, func(tx store.Store) error {
		for i := range matched {
			row := &matched[i]
			header := row.Header.Data()
			header.QAAccept = accept
			header.QAReject = !accept
			header.QAReason = reason

			item := row.Item.Data()
			row.Status = item.Status(header)
			row.Header = datatypes.NewJSONType(header)
			if err := tx.UpdateNCRRecord(ctx, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to record QA decision for %s: %w", ncrNumber, err)
	}

	log.Printf("📋 NCR %s: QA decision recorded on %d rows (accept=%t)", ncrNumber, len(matched), accept)
	return len(matched), nil
}

// deriveReturnRecord mirrors one saved NCR item into the operations hub.
// Classification sets and cost fields come verbatim from the item; cause,
// prevention and signature fields come from the shared header; display fields
// the report does not carry get fixed defaults.
func deriveReturnRecord(header models.NCRHeader, item models.NCRItem, at time.Time) *models.ReturnRecord {
	status := models.StatusColJobAccepted
	if item.FieldSettled {
		status = models.StatusSettledOnField
	}

	route := item.PreliminaryRoute
	if route == "" {
		route = "Other"
	}
	rootCause := item.ProblemSource
	if rootCause == "" {
		rootCause = "NCR"
	}

	rec := &models.ReturnRecord{
		ID:           models.NewReturnRecordID(at),
		NCRNumber:    header.NCRNumber,
		DocumentType: models.OriginNCR,
		Origin:       models.OriginNCR,
		Status:       status,
		Disposition:  models.DispositionPending,

		RefNo:        orDefault(item.RefNo, "-"),
		NeoRefNo:     orDefault(item.NeoRefNo, "-"),
		DocumentNo:   item.DocumentNo,
		TMNo:         item.TMNo,
		InvoiceNo:    item.InvoiceNo,
		ProductCode:  orDefault(item.ProductCode, "N/A"),
		ProductName:  orDefault(item.ProductName, "Unknown"),
		Quantity:     item.Quantity,
		Unit:         orDefault(item.Unit, "Unit"),
		CustomerName: orDefault(item.CustomerName, "Unknown"),
		Branch:       orDefault(item.Branch, "Head Office"),
		Category:     orDefault(item.Category, "General"),

		Date:          header.Date,
		DateRequested: header.Date,

		PreliminaryDecision: item.Decision,
		PreliminaryRoute:    route,
		Founder:             header.Founder,
		Reason:              fmt.Sprintf("NCR: %s", item.ProblemDetail),
		RootCause:           rootCause,
		ProblemSource:       item.ProblemSource,

		ProblemAnalysis:       item.ProblemAnalysis,
		ProblemAnalysisSub:    item.ProblemAnalysisSub,
		ProblemAnalysisCause:  item.ProblemAnalysisCause,
		ProblemAnalysisDetail: item.ProblemAnalysisDetail,

		Amount:       item.Amount,
		PriceBill:    item.PriceBill,
		PricePerUnit: item.PricePerUnit,

		HasCost:         item.HasCost,
		CostAmount:      item.CostAmount,
		CostResponsible: item.CostResponsible,

		IsFieldSettled:          item.FieldSettled,
		FieldSettlementAmount:   item.FieldSettlementAmount,
		FieldSettlementEvidence: item.FieldSettlementEvidence,
		FieldSettlementName:     item.FieldSettlementName,
		FieldSettlementPosition: item.FieldSettlementPosition,

		Problems:         datatypes.NewJSONSlice(item.Problems),
		ProblemOtherText: item.ProblemOtherText,
		ProblemDetail:    item.ProblemDetail,
		Actions:          datatypes.NewJSONSlice(item.Actions),

		CausePackaging:    header.CausePackaging,
		CauseTransport:    header.CauseTransport,
		CauseOperation:    header.CauseOperation,
		CauseEnv:          header.CauseEnv,
		CauseDetail:       header.CauseDetail,
		PreventionDetail:  header.PreventionDetail,
		PreventionDueDate: header.PreventionDueDate,

		ResponsiblePerson:   header.ResponsiblePerson,
		ResponsiblePosition: header.ResponsiblePosition,
		DueDate:             header.DueDate,
		Approver:            header.Approver,
		ApproverPosition:    header.ApproverPosition,
		ApproverDate:        header.ApproverDate,

		Images: datatypes.NewJSONSlice(item.Images),
	}
	return rec
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
