package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/neosiam/returnhub/internal/models"
	"github.com/neosiam/returnhub/internal/sequence"
	"github.com/neosiam/returnhub/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	e := NewEngine(st, sequence.NewMemoryGenerator(), NopNotifier{}, AutoConfirmer{})
	e.now = func() time.Time { return time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC) }
	return e, st
}

func seedRMA(t *testing.T, st *store.MemoryStore, id string, status models.RMAStatus) {
	t.Helper()
	err := st.SaveReturnRequest(context.Background(), &models.ReturnRequest{
		ID:              id,
		RMANumber:       id,
		Status:          status,
		CustomerName:    "Branch " + id,
		CustomerAddress: "42 Warehouse Rd",
	})
	if err != nil {
		t.Fatalf("seed RMA %s: %v", id, err)
	}
}

func TestDispatchCollectionTransitionsExactlySelected(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)
	seedRMA(t, st, "RMA-1", models.RMAApprovedForPickup)
	seedRMA(t, st, "RMA-2", models.RMAApprovedForPickup)
	seedRMA(t, st, "RMA-3", models.RMAApprovedForPickup)

	order, err := e.DispatchCollection(ctx, DispatchInput{
		RMAIDs:   []string{"RMA-1", "RMA-2"},
		DriverID: "driver-7",
		BoxCount: 3,
	})
	if err != nil {
		t.Fatalf("DispatchCollection failed: %v", err)
	}
	if order.ID != "COL-202406-001" {
		t.Errorf("order id = %s, want COL-202406-001", order.ID)
	}
	if order.Status != models.CollectionPending {
		t.Errorf("order status = %s, want PENDING", order.Status)
	}
	if order.PickupAddress != "42 Warehouse Rd" {
		t.Errorf("pickup address not taken from first RMA: %s", order.PickupAddress)
	}

	for _, c := range []struct {
		id   string
		want models.RMAStatus
	}{
		{"RMA-1", models.RMAPickupScheduled},
		{"RMA-2", models.RMAPickupScheduled},
		{"RMA-3", models.RMAApprovedForPickup},
	} {
		rma, err := st.GetReturnRequest(ctx, c.id)
		if err != nil {
			t.Fatalf("GetReturnRequest %s: %v", c.id, err)
		}
		if rma.Status != c.want {
			t.Errorf("%s status = %s, want %s", c.id, rma.Status, c.want)
		}
	}
}

func TestDispatchCollectionValidation(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(t)

	_, err := e.DispatchCollection(ctx, DispatchInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(verr.Violations) != 2 {
		t.Errorf("violations = %v, want driver and RMA selection reported together", verr.Violations)
	}
}

func TestConfirmDriverCollection(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)
	seedRMA(t, st, "RMA-1", models.RMAApprovedForPickup)

	order, err := e.DispatchCollection(ctx, DispatchInput{RMAIDs: []string{"RMA-1"}, DriverID: "driver-1"})
	if err != nil {
		t.Fatalf("DispatchCollection failed: %v", err)
	}

	proof := models.ProofOfCollection{SignatureRef: "sig-a", PhotoRefs: []string{"p1", "p2"}}
	got, err := e.ConfirmDriverCollection(ctx, order.ID, proof)
	if err != nil {
		t.Fatalf("ConfirmDriverCollection failed: %v", err)
	}
	if got.Status != models.CollectionCollected {
		t.Errorf("status = %s, want COLLECTED", got.Status)
	}
	if got.Proof == nil || got.Proof.Data().CollectedAt == "" {
		t.Error("proof timestamp was not stamped")
	}

	// Second confirmation is an InvalidStateError and leaves the proof alone.
	_, err = e.ConfirmDriverCollection(ctx, order.ID, models.ProofOfCollection{
		SignatureRef: "sig-b", PhotoRefs: []string{"other"},
	})
	var serr *InvalidStateError
	if !errors.As(err, &serr) {
		t.Fatalf("second confirm error = %v, want InvalidStateError", err)
	}
	after, _ := st.GetCollectionOrder(ctx, order.ID)
	if after.Proof.Data().SignatureRef != "sig-a" {
		t.Errorf("proof changed on rejected transition: %s", after.Proof.Data().SignatureRef)
	}
}

func TestConfirmDriverCollectionRequiresEvidence(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)
	seedRMA(t, st, "RMA-1", models.RMAApprovedForPickup)
	order, _ := e.DispatchCollection(ctx, DispatchInput{RMAIDs: []string{"RMA-1"}, DriverID: "d"})

	_, err := e.ConfirmDriverCollection(ctx, order.ID, models.ProofOfCollection{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}

	got, _ := st.GetCollectionOrder(ctx, order.ID)
	if got.Status != models.CollectionPending {
		t.Errorf("order mutated despite validation failure: %s", got.Status)
	}
}

func TestCreateShipmentManifestAtomicity(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)
	seedRMA(t, st, "RMA-1", models.RMAApprovedForPickup)
	seedRMA(t, st, "RMA-2", models.RMAApprovedForPickup)

	first, _ := e.DispatchCollection(ctx, DispatchInput{RMAIDs: []string{"RMA-1"}, DriverID: "d"})
	second, _ := e.DispatchCollection(ctx, DispatchInput{RMAIDs: []string{"RMA-2"}, DriverID: "d"})

	proof := models.ProofOfCollection{SignatureRef: "s", PhotoRefs: []string{"p"}}
	if _, err := e.ConfirmDriverCollection(ctx, first.ID, proof); err != nil {
		t.Fatalf("collect first: %v", err)
	}

	// second is still PENDING: the whole batch must be rejected.
	_, err := e.CreateShipmentManifest(ctx, ManifestInput{
		CollectionOrderIDs: []string{first.ID, second.ID},
		CarrierName:        "Neo Express",
	})
	var serr *InvalidStateError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want InvalidStateError", err)
	}

	got, _ := st.GetCollectionOrder(ctx, first.ID)
	if got.Status != models.CollectionCollected {
		t.Errorf("valid order was partially consolidated: %s", got.Status)
	}

	// With only the collected order the manifest goes through, with defaults.
	manifest, err := e.CreateShipmentManifest(ctx, ManifestInput{
		CollectionOrderIDs: []string{first.ID},
		CarrierName:        "Neo Express",
	})
	if err != nil {
		t.Fatalf("CreateShipmentManifest failed: %v", err)
	}
	if manifest.ID != "SHP-2024-001" {
		t.Errorf("manifest id = %s, want SHP-2024-001", manifest.ID)
	}
	if manifest.TrackingNo != "-" || manifest.TransportMethod != "3PL_COURIER" {
		t.Errorf("defaults not applied: tracking=%s method=%s", manifest.TrackingNo, manifest.TransportMethod)
	}
	consolidated, _ := st.GetCollectionOrder(ctx, first.ID)
	if consolidated.Status != models.CollectionConsolidated || consolidated.ManifestID != manifest.ID {
		t.Errorf("order not consolidated onto manifest: %+v", consolidated)
	}
}

func TestCreateShipmentManifestCancelled(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	decline := ConfirmerFunc(func(context.Context, string) bool { return false })
	e := NewEngine(st, sequence.NewMemoryGenerator(), NopNotifier{}, decline)

	_, err := e.CreateShipmentManifest(ctx, ManifestInput{
		CollectionOrderIDs: []string{"COL-1"},
		CarrierName:        "Neo Express",
	})
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("error = %v, want ErrCancelled", err)
	}
}

func TestMarkManifestArrived(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)
	seedRMA(t, st, "RMA-1", models.RMAApprovedForPickup)
	order, _ := e.DispatchCollection(ctx, DispatchInput{RMAIDs: []string{"RMA-1"}, DriverID: "d"})
	proof := models.ProofOfCollection{SignatureRef: "s", PhotoRefs: []string{"p"}}
	e.ConfirmDriverCollection(ctx, order.ID, proof)
	manifest, _ := e.CreateShipmentManifest(ctx, ManifestInput{
		CollectionOrderIDs: []string{order.ID}, CarrierName: "Neo Express",
	})

	got, err := e.MarkManifestArrived(ctx, manifest.ID)
	if err != nil {
		t.Fatalf("MarkManifestArrived failed: %v", err)
	}
	if got.Status != models.ManifestArrivedHQ || got.ArrivalDate != "2024-06-10" {
		t.Errorf("manifest = %+v, want ARRIVED_HQ on 2024-06-10", got)
	}

	if _, err := e.MarkManifestArrived(ctx, manifest.ID); err == nil {
		t.Error("second arrival should be rejected")
	}
}

func TestPendingViewsTagWinsRule(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)

	records := []models.ReturnRecord{
		// NCR-origin, pending logistics
		{ID: "RT-1", NCRNumber: "NCR-2024-0001", Origin: models.OriginNCR, Status: models.StatusRequested},
		{ID: "RT-2", NCRNumber: "NCR-2024-0001", Origin: models.OriginNCR, Status: models.StatusColJobAccepted},
		// Logistics with stale NCR number: tag wins, so branch receive, not logistics
		{ID: "RT-3", NCRNumber: "NCR-2023-0099", DocumentType: models.OriginLogistics, Status: models.StatusColJobAccepted},
		// Untagged with NCR number resolves to NCR origin
		{ID: "RT-4", NCRNumber: "NCR-2024-0002", Status: models.StatusColJobAccepted},
		// Plain logistics record in consolidation
		{ID: "RT-5", DocumentType: models.OriginLogistics, Status: models.StatusColConsolidated},
		// Legacy status spelling still counts for branch receive
		{ID: "RT-6", DocumentType: models.OriginLogistics, Status: models.StatusJobAccepted},
	}
	for i := range records {
		if err := st.SaveReturnRecord(ctx, &records[i]); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	logistics, err := e.PendingLogistics(ctx)
	if err != nil {
		t.Fatalf("PendingLogistics failed: %v", err)
	}
	wantLogistics := map[string]bool{"RT-1": true, "RT-2": true, "RT-4": true, "RT-5": true}
	if len(logistics) != len(wantLogistics) {
		t.Errorf("pending logistics = %d records, want %d", len(logistics), len(wantLogistics))
	}
	for _, r := range logistics {
		if !wantLogistics[r.ID] {
			t.Errorf("unexpected record %s in pending logistics", r.ID)
		}
	}

	branch, err := e.PendingBranchReceive(ctx)
	if err != nil {
		t.Fatalf("PendingBranchReceive failed: %v", err)
	}
	wantBranch := map[string]bool{"RT-3": true, "RT-6": true}
	if len(branch) != len(wantBranch) {
		t.Errorf("pending branch receive = %d records, want %d", len(branch), len(wantBranch))
	}
	for _, r := range branch {
		if !wantBranch[r.ID] {
			t.Errorf("unexpected record %s in branch receive", r.ID)
		}
	}
}

func TestReceiveAllBranchStampsDate(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)

	for _, id := range []string{"RT-1", "RT-2"} {
		st.SaveReturnRecord(ctx, &models.ReturnRecord{
			ID: id, DocumentType: models.OriginLogistics, Status: models.StatusColJobAccepted,
		})
	}

	count, err := e.ReceiveAllBranch(ctx)
	if err != nil {
		t.Fatalf("ReceiveAllBranch failed: %v", err)
	}
	if count != 2 {
		t.Errorf("received %d, want 2", count)
	}
	for _, id := range []string{"RT-1", "RT-2"} {
		rec, _ := st.GetReturnRecord(ctx, id)
		if rec.Status != models.StatusColBranchReceived || rec.DateReceived != "2024-06-10" {
			t.Errorf("%s = %s received %s, want COL_BranchReceived on 2024-06-10", id, rec.Status, rec.DateReceived)
		}
	}
}

func TestSplitRecord(t *testing.T) {
	ctx := context.Background()
	e, st := newTestEngine(t)
	st.SaveReturnRecord(ctx, &models.ReturnRecord{
		ID: "RT-src", Quantity: 10, Status: models.StatusColConsolidated,
		DocumentNo: "DOC-1", DocumentType: models.OriginLogistics,
	})

	child, err := e.SplitRecord(ctx, "RT-src", 4)
	if err != nil {
		t.Fatalf("SplitRecord failed: %v", err)
	}
	if child.ParentID == nil || *child.ParentID != "RT-src" {
		t.Error("child does not reference its parent")
	}
	if child.Quantity != 4 || child.DocumentNo != "DOC-1" || child.Status != models.StatusColConsolidated {
		t.Errorf("child = %+v, want refs and status carried over", child)
	}

	src, _ := st.GetReturnRecord(ctx, "RT-src")
	if src.Quantity != 6 {
		t.Errorf("source quantity = %g, want 6", src.Quantity)
	}

	// Whole quantity cannot be split off
	if _, err := e.SplitRecord(ctx, "RT-src", 6); err == nil {
		t.Error("splitting the full quantity should be rejected")
	}
}
