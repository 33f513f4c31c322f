package store

import (
	"context"
	"testing"

	"github.com/neosiam/returnhub/internal/models"
)

func TestMemoryStorePatchSemantics(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.SaveCollectionOrder(ctx, &models.CollectionOrder{
		ID:       "COL-202406-001",
		Status:   models.CollectionAssigned,
		DriverID: "D-001",
	})
	if err != nil {
		t.Fatalf("SaveCollectionOrder failed: %v", err)
	}

	collected := models.CollectionCollected
	proof := models.ProofOfCollection{
		CollectedAt:  "2024-06-10T09:30:00Z",
		SignatureRef: "sig-1",
		PhotoRefs:    []string{"photo-1"},
	}
	if err := s.UpdateCollectionOrder(ctx, "COL-202406-001", CollectionOrderPatch{
		Status: &collected,
		Proof:  &proof,
	}); err != nil {
		t.Fatalf("UpdateCollectionOrder failed: %v", err)
	}

	got, err := s.GetCollectionOrder(ctx, "COL-202406-001")
	if err != nil {
		t.Fatalf("GetCollectionOrder failed: %v", err)
	}
	if got.Status != models.CollectionCollected {
		t.Errorf("status = %s, want COLLECTED", got.Status)
	}
	if got.Proof == nil || len(got.Proof.Data().PhotoRefs) != 1 {
		t.Error("proof was not stored")
	}
	// Fields without a patch entry must be untouched
	if got.DriverID != "D-001" {
		t.Errorf("driver changed unexpectedly: %s", got.DriverID)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.GetReturnRecord(ctx, "RT-missing"); err != ErrNotFound {
		t.Errorf("GetReturnRecord error = %v, want ErrNotFound", err)
	}

	status := models.StatusColConsolidated
	if err := s.UpdateReturnRecord(ctx, "RT-missing", ReturnRecordPatch{Status: &status}); err != ErrNotFound {
		t.Errorf("UpdateReturnRecord error = %v, want ErrNotFound", err)
	}

	if err := s.DeleteNCRRecord(ctx, "NCR-2024-0001-1"); err != ErrNotFound {
		t.Errorf("DeleteNCRRecord error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListIsSorted(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, id := range []string{"RT-2024-3-0", "RT-2024-1-0", "RT-2024-2-0"} {
		if err := s.SaveReturnRecord(ctx, &models.ReturnRecord{ID: id}); err != nil {
			t.Fatalf("SaveReturnRecord failed: %v", err)
		}
	}

	out, err := s.ListReturnRecords(ctx)
	if err != nil {
		t.Fatalf("ListReturnRecords failed: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d records, want 3", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].ID > out[i].ID {
			t.Errorf("records out of order: %s before %s", out[i-1].ID, out[i].ID)
		}
	}
}
