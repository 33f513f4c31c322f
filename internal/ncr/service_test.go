package ncr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/neosiam/returnhub/internal/models"
	"github.com/neosiam/returnhub/internal/sequence"
	"github.com/neosiam/returnhub/internal/store"
	"github.com/neosiam/returnhub/internal/workflow"
)

type failingGenerator struct{}

func (failingGenerator) NextCollectionNumber(context.Context, time.Time) (string, error) {
	return "", errors.New("generator down")
}
func (failingGenerator) NextManifestNumber(context.Context, time.Time) (string, error) {
	return "", errors.New("generator down")
}
func (failingGenerator) NextNCRNumber(context.Context, time.Time) (string, error) {
	return "", errors.New("generator down")
}

// flakyStore fails SaveNCRRecord for ids containing a marker substring.
type flakyStore struct {
	store.Store
	failOn string
}

func (s *flakyStore) SaveNCRRecord(ctx context.Context, rec *models.NCRRecord) error {
	if strings.Contains(rec.ID, s.failOn) {
		return fmt.Errorf("disk full")
	}
	return s.Store.SaveNCRRecord(ctx, rec)
}

type allowAll struct{}

func (allowAll) Authorize(context.Context, Action) error { return nil }

func newTestService(st store.Store) *Service {
	s := NewService(st, sequence.NewMemoryGenerator(), workflow.AutoConfirmer{}, allowAll{}, nil)
	s.now = func() time.Time { return time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC) }
	return s
}

func validDraft(items ...models.NCRItem) *Draft {
	return &Draft{
		Header: models.NCRHeader{
			Founder:        "Anan",
			CauseTransport: true,
			CauseDetail:    "Pallet shifted in transit",
		},
		Items: items,
	}
}

func item(id, code, branch string) models.NCRItem {
	return models.NCRItem{
		ItemID:        id,
		ProductCode:   code,
		Branch:        branch,
		Quantity:      2,
		ProblemDetail: "crushed cartons",
		Problems:      []models.ProblemKind{models.ProblemDamaged},
	}
}

func TestValidateAccumulatesViolations(t *testing.T) {
	s := newTestService(store.NewMemoryStore())

	err := s.Validate(&Draft{})
	var verr *workflow.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(verr.Violations) != 3 {
		t.Errorf("violations = %v, want founder, items and cause reported together", verr.Violations)
	}
}

func TestSubmitAllSucceeded(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	s := newTestService(st)

	d := validDraft(item("i1", "P-100", "Khon Kaen"), item("i2", "P-200", "Khon Kaen"))
	settled := item("i3", "P-300", "Khon Kaen")
	settled.FieldSettled = true
	d.Items = append(d.Items, settled)

	result, err := s.Submit(ctx, d)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Outcome != AllSucceeded || result.Succeeded != 3 {
		t.Errorf("result = %+v, want all 3 succeeded", result)
	}
	if result.NCRNumber != "NCR-2024-0001" {
		t.Errorf("ncr number = %s", result.NCRNumber)
	}

	rows, _ := st.ListNCRRecords(ctx)
	if len(rows) != 3 {
		t.Fatalf("persisted %d NCR rows, want 3", len(rows))
	}
	for _, row := range rows {
		if !strings.HasPrefix(row.ID, "NCR-2024-0001-") {
			t.Errorf("row id %s missing composite prefix", row.ID)
		}
	}

	records, _ := st.ListReturnRecords(ctx)
	if len(records) != 3 {
		t.Fatalf("synced %d return records, want 3", len(records))
	}
	for _, rec := range records {
		if rec.DocumentType != models.OriginNCR {
			t.Errorf("record %s documentType = %s", rec.ID, rec.DocumentType)
		}
		want := models.StatusColJobAccepted
		if rec.IsFieldSettled {
			want = models.StatusSettledOnField
		}
		if rec.Status != want {
			t.Errorf("record %s status = %s, want %s", rec.ID, rec.Status, want)
		}
	}
}

func TestSubmitGeneratorFailurePersistsNothing(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	s := NewService(st, failingGenerator{}, workflow.AutoConfirmer{}, allowAll{}, nil)

	_, err := s.Submit(ctx, validDraft(item("i1", "P-100", "Khon Kaen")))
	var serr *SequenceGenerationError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want SequenceGenerationError", err)
	}

	rows, _ := st.ListNCRRecords(ctx)
	records, _ := st.ListReturnRecords(ctx)
	if len(rows) != 0 || len(records) != 0 {
		t.Errorf("persisted %d rows and %d records, want none", len(rows), len(records))
	}
}

func TestSubmitPartialSuccess(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{Store: store.NewMemoryStore(), failOn: "-i2"}
	s := newTestService(st)

	result, err := s.Submit(ctx, validDraft(
		item("i1", "P-100", "Khon Kaen"),
		item("i2", "P-200", "Khon Kaen"),
		item("i3", "P-300", "Khon Kaen"),
	))
	var perr *PartialPersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want PartialPersistenceError", err)
	}
	if perr.Succeeded != 2 || perr.Total != 3 {
		t.Errorf("partial error = %+v, want 2 of 3", perr)
	}
	if result.Outcome != Partial {
		t.Errorf("outcome = %s, want PARTIAL", result.Outcome)
	}

	// The failed item must not have a synced operations record either.
	records, _ := st.ListReturnRecords(ctx)
	if len(records) != 2 {
		t.Errorf("synced %d return records, want 2", len(records))
	}
}

func TestRecordQADecision(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	s := newTestService(st)

	d := validDraft(item("i1", "P-100", "Khon Kaen"), item("i2", "P-200", "Khon Kaen"))
	settled := item("i3", "P-300", "Khon Kaen")
	settled.FieldSettled = true
	d.Items = append(d.Items, settled)
	if _, err := s.Submit(ctx, d); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	count, err := s.RecordQADecision(ctx, "NCR-2024-0001", true, "verified against delivery note")
	if err != nil {
		t.Fatalf("RecordQADecision failed: %v", err)
	}
	if count != 3 {
		t.Errorf("stamped %d rows, want 3", count)
	}

	rows, _ := st.ListNCRRecords(ctx)
	for _, row := range rows {
		header := row.Header.Data()
		if !header.QAAccept || header.QAReject {
			t.Errorf("row %s QA flags = accept:%t reject:%t", row.ID, header.QAAccept, header.QAReject)
		}
		if header.QAReason != "verified against delivery note" {
			t.Errorf("row %s QA reason = %q", row.ID, header.QAReason)
		}
		want := models.NCRClosed
		if row.Item.Data().FieldSettled {
			want = models.NCRSettledOnField
		}
		if row.Status != want {
			t.Errorf("row %s status = %s, want %s", row.ID, row.Status, want)
		}
	}

	if _, err := s.RecordQADecision(ctx, "NCR-2024-9999", false, ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown report: error = %v, want ErrNotFound", err)
	}
}

func TestDeriveReturnRecordDefaults(t *testing.T) {
	header := models.NCRHeader{
		NCRNumber:      "NCR-2024-0007",
		Date:           "2024-06-10",
		Founder:        "Anan",
		CauseTransport: true,
		Approver:       "QA Manager",
	}
	bare := models.NCRItem{ItemID: "i1", ProblemDetail: "leaking seal"}

	rec := deriveReturnRecord(header, bare, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC))
	checks := []struct{ got, want, name string }{
		{rec.RefNo, "-", "refNo"},
		{rec.NeoRefNo, "-", "neoRefNo"},
		{rec.ProductCode, "N/A", "productCode"},
		{rec.ProductName, "Unknown", "productName"},
		{rec.Unit, "Unit", "unit"},
		{rec.CustomerName, "Unknown", "customerName"},
		{rec.Branch, "Head Office", "branch"},
		{rec.Category, "General", "category"},
		{rec.PreliminaryRoute, "Other", "preliminaryRoute"},
		{rec.Reason, "NCR: leaking seal", "reason"},
		{rec.RootCause, "NCR", "rootCause"},
		{string(rec.Disposition), "Pending", "disposition"},
		{rec.Approver, "QA Manager", "approver"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}
	if !rec.CauseTransport {
		t.Error("cause flags not copied from header")
	}
	if !strings.HasPrefix(rec.ID, "RT-2024-") {
		t.Errorf("record id %s missing RT-{year} prefix", rec.ID)
	}
}

func TestAddItemRules(t *testing.T) {
	s := newTestService(store.NewMemoryStore())
	d := validDraft()

	err := s.AddItem(d, models.NCRItem{})
	var verr *workflow.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(verr.Violations) != 2 {
		t.Errorf("violations = %v, want product code and branch", verr.Violations)
	}

	settled := item("", "P-1", "Rayong")
	settled.FieldSettled = true
	if err := s.AddItem(d, settled); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if d.Items[0].Decision != models.DecisionFieldSettlement {
		t.Errorf("decision = %s, want FieldSettlement", d.Items[0].Decision)
	}
	if d.Items[0].ItemID == "" {
		t.Error("item id was not assigned")
	}

	routed := item("", "P-2", "Rayong")
	routed.PreliminaryRoute = "Other"
	routed.RouteOtherText = "Vendor warehouse, Lamphun"
	if err := s.AddItem(d, routed); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if d.Items[1].Decision != models.DecisionReturn {
		t.Errorf("decision = %s, want Return", d.Items[1].Decision)
	}
	if d.Items[1].PreliminaryRoute != "Vendor warehouse, Lamphun" {
		t.Errorf("route = %s, want the free-text destination", d.Items[1].PreliminaryRoute)
	}
}

func TestRemoveItemRequiresAuthorization(t *testing.T) {
	hash, err := HashSecret("letmein")
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}
	s := NewService(store.NewMemoryStore(), sequence.NewMemoryGenerator(),
		workflow.AutoConfirmer{}, NewSharedSecretAuthorizer(hash), nil)

	d := validDraft(item("i1", "P-100", "Khon Kaen"))

	if _, err := s.RemoveItem(context.Background(), d, "i1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("no secret: error = %v, want ErrUnauthorized", err)
	}
	ctx := WithSecret(context.Background(), "wrong")
	if _, err := s.RemoveItem(ctx, d, "i1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong secret: error = %v, want ErrUnauthorized", err)
	}
	if len(d.Items) != 1 {
		t.Fatal("item list mutated by rejected delete")
	}

	ctx = WithSecret(context.Background(), "letmein")
	removed, err := s.RemoveItem(ctx, d, "i1")
	if err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if removed.ProductCode != "P-100" || len(d.Items) != 0 {
		t.Errorf("removed = %+v, items left = %d", removed, len(d.Items))
	}
}

func TestRemoveItemCancelled(t *testing.T) {
	decline := workflow.ConfirmerFunc(func(context.Context, string) bool { return false })
	s := NewService(store.NewMemoryStore(), sequence.NewMemoryGenerator(), decline, allowAll{}, nil)

	d := validDraft(item("i1", "P-100", "Khon Kaen"))
	if _, err := s.RemoveItem(context.Background(), d, "i1"); !errors.Is(err, workflow.ErrCancelled) {
		t.Errorf("error = %v, want ErrCancelled", err)
	}
	if len(d.Items) != 1 {
		t.Error("item removed despite cancelled confirmation")
	}
}
