// Package workflow implements the status-transition engine that moves
// returns through the collection pipeline: dispatch, driver pickup, hub
// consolidation, shipment and branch receipt. Statuses are never freely
// settable; every change goes through an engine method that validates the
// current state first and applies multi-record changes atomically.
package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"

	"github.com/neosiam/returnhub/internal/models"
	"github.com/neosiam/returnhub/internal/sequence"
	"github.com/neosiam/returnhub/internal/store"
)

const dateLayout = "2006-01-02"

// Engine coordinates the store, the number generator and the confirmation
// and notification ports.
type Engine struct {
	store     store.Store
	seq       sequence.Generator
	notifier  Notifier
	confirmer Confirmer
	now       func() time.Time
}

// NewEngine wires an engine. Pass NopNotifier / AutoConfirmer where the
// deployment has no realtime hub or client-side dialogs.
func NewEngine(st store.Store, seq sequence.Generator, notifier Notifier, confirmer Confirmer) *Engine {
	return &Engine{
		store:     st,
		seq:       seq,
		notifier:  notifier,
		confirmer: confirmer,
		now:       time.Now,
	}
}

// DispatchInput creates one collection order from a set of approved RMAs.
type DispatchInput struct {
	RMAIDs       []string `json:"rmaIds"`
	DriverID     string   `json:"driverId"`
	VehiclePlate string   `json:"vehiclePlate"`
	PickupDate   string   `json:"pickupDate"`
	BoxCount     int      `json:"boxCount"`
	Description  string   `json:"description"`
}

// DispatchCollection bundles the selected RMAs into a new collection order
// and schedules them for pickup. The pickup location comes from the first
// selected RMA; the bundle is assumed to share one address, and a mismatch is
// logged as a warning only.
func (e *Engine) DispatchCollection(ctx context.Context, in DispatchInput) (*models.CollectionOrder, error) {
	var violations []string
	if in.DriverID == "" {
		violations = append(violations, "driver is required")
	}
	if len(in.RMAIDs) == 0 {
		violations = append(violations, "at least one return request must be selected")
	}
	if err := NewValidationError(violations); err != nil {
		return nil, err
	}

	// Validate every RMA before touching anything.
	rmas := make([]*models.ReturnRequest, 0, len(in.RMAIDs))
	for _, id := range in.RMAIDs {
		rma, err := e.store.GetReturnRequest(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load return request %s: %w", id, err)
		}
		if rma.Status != models.RMAApprovedForPickup {
			return nil, &InvalidStateError{
				Entity: "return request",
				ID:     rma.ID,
				Status: string(rma.Status),
				Action: "be scheduled for pickup",
			}
		}
		rmas = append(rmas, rma)
	}

	first := rmas[0]
	for _, rma := range rmas[1:] {
		if rma.CustomerAddress != first.CustomerAddress {
			log.Printf("⚠️  Collection dispatch: RMA %s address differs from %s, using the first",
				rma.ID, first.ID)
		}
	}

	at := e.now()
	orderID, err := e.seq.NextCollectionNumber(ctx, at)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve collection number: %w", err)
	}

	pickupDate := in.PickupDate
	if pickupDate == "" {
		pickupDate = at.Format(dateLayout)
	}

	order := &models.CollectionOrder{
		ID:            orderID,
		Status:        models.CollectionPending,
		DriverID:      in.DriverID,
		VehiclePlate:  in.VehiclePlate,
		PickupName:    first.CustomerName,
		PickupAddress: first.CustomerAddress,
		PickupContact: first.CustomerContact,
		PickupDate:    pickupDate,
		BoxCount:      in.BoxCount,
		Description:   in.Description,
		RMAIDs:        datatypes.NewJSONSlice(in.RMAIDs),
	}

	err = e.store.WithinTx(ctx, func(tx store.Store) error {
		if err := tx.SaveCollectionOrder(ctx, order); err != nil {
			return err
		}
		scheduled := models.RMAPickupScheduled
		for _, rma := range rmas {
			if err := tx.UpdateReturnRequest(ctx, rma.ID, store.ReturnRequestPatch{
				Status:            &scheduled,
				CollectionOrderID: &order.ID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dispatch collection: %w", err)
	}

	log.Printf("🚚 Collection order %s created for driver %s (%d RMAs)", order.ID, in.DriverID, len(rmas))
	for _, rma := range rmas {
		e.notifier.NotifyTransition(TransitionEvent{
			Entity: "return_request",
			ID:     rma.ID,
			From:   string(models.RMAApprovedForPickup),
			To:     string(models.RMAPickupScheduled),
			Action: "dispatch",
		})
	}
	e.notifier.NotifyTransition(TransitionEvent{
		Entity: "collection_order",
		ID:     order.ID,
		To:     string(models.CollectionPending),
		Action: "dispatch",
	})
	return order, nil
}

// ConfirmDriverCollection records the driver's proof of pickup and advances
// the order to COLLECTED. The transition is irreversible; calling it on an
// order already collected fails without touching the recorded proof.
func (e *Engine) ConfirmDriverCollection(ctx context.Context, orderID string, proof models.ProofOfCollection) (*models.CollectionOrder, error) {
	order, err := e.store.GetCollectionOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection order %s: %w", orderID, err)
	}
	if order.Status != models.CollectionPending && order.Status != models.CollectionAssigned {
		return nil, &InvalidStateError{
			Entity: "collection order",
			ID:     order.ID,
			Status: string(order.Status),
			Action: "be collected",
		}
	}

	if proof.CollectedAt == "" {
		proof.CollectedAt = e.now().UTC().Format(time.RFC3339)
	}
	if !proof.Complete() {
		var violations []string
		if proof.SignatureRef == "" {
			violations = append(violations, "a signature is required")
		}
		if len(proof.PhotoRefs) == 0 {
			violations = append(violations, "at least one photo is required")
		}
		return nil, NewValidationError(violations)
	}

	from := order.Status
	collected := models.CollectionCollected
	if err := e.store.UpdateCollectionOrder(ctx, orderID, store.CollectionOrderPatch{
		Status: &collected,
		Proof:  &proof,
	}); err != nil {
		return nil, fmt.Errorf("failed to record collection: %w", err)
	}

	log.Printf("📦 Collection order %s collected (%d photos)", orderID, len(proof.PhotoRefs))
	e.notifier.NotifyTransition(TransitionEvent{
		Entity: "collection_order",
		ID:     orderID,
		From:   string(from),
		To:     string(models.CollectionCollected),
		Action: "collect",
	})
	return e.store.GetCollectionOrder(ctx, orderID)
}

// ManifestInput consolidates collected orders into one hub-bound shipment.
type ManifestInput struct {
	CollectionOrderIDs []string `json:"collectionOrderIds"`
	CarrierName        string   `json:"carrierName"`
	TrackingNo         string   `json:"trackingNo"`
	TransportMethod    string   `json:"transportMethod"`
	Description        string   `json:"description"`
}

// CreateShipmentManifest freezes the selected orders into a new manifest and
// marks them consolidated. An order that is not yet collected rejects the
// whole batch before any mutation.
func (e *Engine) CreateShipmentManifest(ctx context.Context, in ManifestInput) (*models.ShipmentManifest, error) {
	var violations []string
	if in.CarrierName == "" {
		violations = append(violations, "carrier name is required")
	}
	if len(in.CollectionOrderIDs) == 0 {
		violations = append(violations, "at least one collection order must be selected")
	}
	if err := NewValidationError(violations); err != nil {
		return nil, err
	}

	if !e.confirmer.Confirm(ctx, fmt.Sprintf("Consolidate %d collection orders into a shipment?", len(in.CollectionOrderIDs))) {
		return nil, ErrCancelled
	}

	for _, id := range in.CollectionOrderIDs {
		order, err := e.store.GetCollectionOrder(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load collection order %s: %w", id, err)
		}
		if order.Status != models.CollectionCollected {
			return nil, &InvalidStateError{
				Entity: "collection order",
				ID:     order.ID,
				Status: string(order.Status),
				Action: "be consolidated",
			}
		}
	}

	at := e.now()
	manifestID, err := e.seq.NextManifestNumber(ctx, at)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve manifest number: %w", err)
	}

	tracking := in.TrackingNo
	if tracking == "" {
		tracking = "-"
	}
	method := in.TransportMethod
	if method == "" {
		method = "3PL_COURIER"
	}
	description := in.Description
	if description == "" {
		description = "General Goods"
	}

	manifest := &models.ShipmentManifest{
		ID:                 manifestID,
		Status:             models.ManifestInTransit,
		CarrierName:        in.CarrierName,
		TrackingNo:         tracking,
		TransportMethod:    method,
		Description:        description,
		DispatchDate:       at.Format(dateLayout),
		CollectionOrderIDs: datatypes.NewJSONSlice(in.CollectionOrderIDs),
	}

	err = e.store.WithinTx(ctx, func(tx store.Store) error {
		if err := tx.SaveManifest(ctx, manifest); err != nil {
			return err
		}
		consolidated := models.CollectionConsolidated
		for _, id := range in.CollectionOrderIDs {
			if err := tx.UpdateCollectionOrder(ctx, id, store.CollectionOrderPatch{
				Status:     &consolidated,
				ManifestID: &manifest.ID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create manifest: %w", err)
	}

	log.Printf("🚛 Manifest %s dispatched via %s (%d orders)", manifest.ID, in.CarrierName, len(in.CollectionOrderIDs))
	for _, id := range in.CollectionOrderIDs {
		e.notifier.NotifyTransition(TransitionEvent{
			Entity: "collection_order",
			ID:     id,
			From:   string(models.CollectionCollected),
			To:     string(models.CollectionConsolidated),
			Action: "consolidate",
		})
	}
	e.notifier.NotifyTransition(TransitionEvent{
		Entity: "manifest",
		ID:     manifest.ID,
		To:     string(models.ManifestInTransit),
		Action: "consolidate",
	})
	return manifest, nil
}

// MarkManifestArrived records the hub arrival of an in-transit shipment.
// Triggered by an external event (carrier webhook or manual entry).
func (e *Engine) MarkManifestArrived(ctx context.Context, manifestID string) (*models.ShipmentManifest, error) {
	manifest, err := e.store.GetManifest(ctx, manifestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest %s: %w", manifestID, err)
	}
	if manifest.Status != models.ManifestInTransit {
		return nil, &InvalidStateError{
			Entity: "manifest",
			ID:     manifest.ID,
			Status: string(manifest.Status),
			Action: "arrive",
		}
	}

	arrived := models.ManifestArrivedHQ
	arrival := e.now().Format(dateLayout)
	if err := e.store.UpdateManifest(ctx, manifestID, store.ManifestPatch{
		Status:      &arrived,
		ArrivalDate: &arrival,
	}); err != nil {
		return nil, fmt.Errorf("failed to mark manifest arrived: %w", err)
	}

	log.Printf("🏢 Manifest %s arrived at HQ", manifestID)
	e.notifier.NotifyTransition(TransitionEvent{
		Entity: "manifest",
		ID:     manifestID,
		From:   string(models.ManifestInTransit),
		To:     string(models.ManifestArrivedHQ),
		Action: "arrive",
	})
	return e.store.GetManifest(ctx, manifestID)
}

// PendingLogistics lists records waiting in the logistics step: NCR-origin
// records still Requested or COL_JobAccepted, plus every other record sitting
// in COL_Consolidated.
func (e *Engine) PendingLogistics(ctx context.Context) ([]models.ReturnRecord, error) {
	records, err := e.store.ListReturnRecords(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.ReturnRecord
	for _, r := range records {
		if r.IsNCROrigin() {
			if r.Status == models.StatusRequested || r.Status == models.StatusColJobAccepted {
				out = append(out, r)
			}
			continue
		}
		if r.Status == models.StatusColConsolidated {
			out = append(out, r)
		}
	}
	return out, nil
}

// PendingBranchReceive lists logistics-origin records awaiting branch
// receipt. The legacy JobAccepted spelling counts; NCR-origin records are
// excluded under the tag-wins rule.
func (e *Engine) PendingBranchReceive(ctx context.Context) ([]models.ReturnRecord, error) {
	records, err := e.store.ListReturnRecords(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.ReturnRecord
	for _, r := range records {
		if r.IsNCROrigin() {
			continue
		}
		if r.Status == models.StatusColJobAccepted || r.Status == models.StatusJobAccepted {
			out = append(out, r)
		}
	}
	return out, nil
}

// receiveOne stamps the receipt on a single eligible record.
func (e *Engine) receiveOne(ctx context.Context, rec *models.ReturnRecord) error {
	if rec.IsNCROrigin() || (rec.Status != models.StatusColJobAccepted && rec.Status != models.StatusJobAccepted) {
		return &InvalidStateError{
			Entity: "return record",
			ID:     rec.ID,
			Status: string(rec.Status),
			Action: "be received",
		}
	}
	from := rec.Status
	received := models.StatusColBranchReceived
	date := e.now().Format(dateLayout)
	if err := e.store.UpdateReturnRecord(ctx, rec.ID, store.ReturnRecordPatch{
		Status:       &received,
		DateReceived: &date,
	}); err != nil {
		return fmt.Errorf("failed to receive record %s: %w", rec.ID, err)
	}
	e.notifier.NotifyTransition(TransitionEvent{
		Entity: "return_record",
		ID:     rec.ID,
		From:   string(from),
		To:     string(models.StatusColBranchReceived),
		Action: "receive",
	})
	return nil
}

// ReceiveBranchItem confirms receipt of one record at the branch and stamps
// the receipt date.
func (e *Engine) ReceiveBranchItem(ctx context.Context, id string) error {
	rec, err := e.store.GetReturnRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load return record %s: %w", id, err)
	}
	if !e.confirmer.Confirm(ctx, fmt.Sprintf("Receive item %s?", id)) {
		return ErrCancelled
	}
	return e.receiveOne(ctx, rec)
}

// ReceiveAllBranch receives every pending record sequentially and returns how
// many were stamped.
func (e *Engine) ReceiveAllBranch(ctx context.Context) (int, error) {
	pending, err := e.PendingBranchReceive(ctx)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	if !e.confirmer.Confirm(ctx, fmt.Sprintf("Receive all %d pending items?", len(pending))) {
		return 0, ErrCancelled
	}
	count := 0
	for i := range pending {
		if err := e.receiveOne(ctx, &pending[i]); err != nil {
			return count, err
		}
		count++
	}
	log.Printf("📥 Branch received %d items", count)
	return count, nil
}

// SplitRecord carves qty off a record into a new child record carrying the
// same references and status, linked back through parentId. The quantity must
// leave at least one unit on each side.
func (e *Engine) SplitRecord(ctx context.Context, id string, qty float64) (*models.ReturnRecord, error) {
	rec, err := e.store.GetReturnRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load return record %s: %w", id, err)
	}

	var violations []string
	if qty < 1 {
		violations = append(violations, "split quantity must be at least 1")
	}
	if qty >= rec.Quantity {
		violations = append(violations, fmt.Sprintf("split quantity must be less than the record quantity (%g)", rec.Quantity))
	}
	if err := NewValidationError(violations); err != nil {
		return nil, err
	}

	child := *rec
	child.ID = models.NewReturnRecordID(e.now())
	child.ParentID = &rec.ID
	child.Quantity = qty

	remaining := rec.Quantity - qty
	err = e.store.WithinTx(ctx, func(tx store.Store) error {
		if err := tx.SaveReturnRecord(ctx, &child); err != nil {
			return err
		}
		return tx.UpdateReturnRecord(ctx, rec.ID, store.ReturnRecordPatch{Quantity: &remaining})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to split record %s: %w", id, err)
	}

	log.Printf("✂️ Record %s split: %g moved to %s", rec.ID, qty, child.ID)
	e.notifier.NotifyTransition(TransitionEvent{
		Entity: "return_record",
		ID:     child.ID,
		To:     string(child.Status),
		Action: "split",
	})
	return &child, nil
}
