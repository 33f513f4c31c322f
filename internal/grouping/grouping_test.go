package grouping

import (
	"testing"

	"github.com/neosiam/returnhub/internal/models"
)

func rec(id, docNo, colID, ncrNo, product, date string) models.ReturnRecord {
	return models.ReturnRecord{
		ID:                id,
		DocumentNo:        docNo,
		CollectionOrderID: colID,
		NCRNumber:         ncrNo,
		ProductCode:       product,
		Date:              date,
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  R-001 ", "r-001"},
		{"R - 0 0 1", "r-001"},
		{"DOC 123", "doc123"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestKeyForPriority(t *testing.T) {
	r := rec("RT-1", "DOC-1", "COL-1", "NCR-1", "P1", "2024-06-01")
	if got := KeyFor(&r); got != "doc-1" {
		t.Errorf("key = %q, want doc-1 (document number wins)", got)
	}

	r.DocumentNo = ""
	if got := KeyFor(&r); got != "col-1" {
		t.Errorf("key = %q, want col-1", got)
	}

	r.CollectionOrderID = ""
	if got := KeyFor(&r); got != "ncr-1" {
		t.Errorf("key = %q, want ncr-1", got)
	}

	r.NCRNumber = ""
	if got := KeyFor(&r); got != "rt-1" {
		t.Errorf("key = %q, want the record's own id", got)
	}
}

func TestBuildGroupsNormalizationCollapses(t *testing.T) {
	records := []models.ReturnRecord{
		rec("RT-1", "R-001", "", "", "P1", "2024-06-01"),
		rec("RT-2", "  r-001 ", "", "", "P1", "2024-06-01"),
		// Different reference: punctuation matters
		rec("RT-3", "R001", "", "", "P1", "2024-06-01"),
	}

	groups := BuildGroups(records)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	var r001 *Group
	for i := range groups {
		if groups[i].Key == "r-001" {
			r001 = &groups[i]
		}
	}
	if r001 == nil || len(r001.Members) != 2 {
		t.Fatal("R-001 variants did not collapse into one group")
	}
	if r001.Representative().ID != "RT-1" {
		t.Errorf("representative = %s, want first member RT-1", r001.Representative().ID)
	}
}

func TestBuildGroupsSortNewestFirst(t *testing.T) {
	records := []models.ReturnRecord{
		rec("RT-1", "A", "", "", "P1", "2024-05-01"),
		rec("RT-2", "B", "", "", "P1", "2024-06-15"),
		rec("RT-3", "C", "", "", "P1", "2024-06-02"),
	}

	groups := BuildGroups(records)
	wantOrder := []string{"b", "c", "a"}
	for i, w := range wantOrder {
		if groups[i].Key != w {
			t.Errorf("groups[%d].Key = %s, want %s", i, groups[i].Key, w)
		}
	}
}

func TestGroupMixedProduct(t *testing.T) {
	records := []models.ReturnRecord{
		rec("RT-1", "DOC-9", "", "", "P1", "2024-06-01"),
		rec("RT-2", "DOC-9", "", "", "P2", "2024-06-01"),
		rec("RT-3", "DOC-8", "", "", "P1", "2024-06-01"),
		rec("RT-4", "DOC-8", "", "", "P1", "2024-06-01"),
	}

	groups := BuildGroups(records)
	for _, g := range groups {
		switch g.Key {
		case "doc-9":
			if !g.MixedProduct() {
				t.Error("DOC-9 should be flagged mixed-product")
			}
		case "doc-8":
			if g.MixedProduct() {
				t.Error("DOC-8 should not be flagged mixed-product")
			}
		}
	}
}

func TestFilterByDispositionRTVExcludesDocumented(t *testing.T) {
	records := []models.ReturnRecord{
		{ID: "RT-1", Disposition: models.DispositionRTV, DocumentNo: ""},
		{ID: "RT-2", Disposition: models.DispositionRTV, DocumentNo: "DOC-1"},
		{ID: "RT-3", Disposition: models.DispositionSell, DocumentNo: "DOC-2"},
	}

	rtv := FilterByDisposition(records, models.DispositionRTV)
	if len(rtv) != 1 || rtv[0].ID != "RT-1" {
		t.Errorf("RTV column = %v, want only the undocumented RT-1", rtv)
	}

	// Other columns do not apply the document filter
	sell := FilterByDisposition(records, models.DispositionSell)
	if len(sell) != 1 || sell[0].ID != "RT-3" {
		t.Errorf("Sell column = %v, want RT-3", sell)
	}
}

func TestExpandStateDefaultsCollapsed(t *testing.T) {
	s := NewExpandState()
	if s.Expanded("doc-1") {
		t.Error("groups must start collapsed")
	}
	if !s.Toggle("doc-1") {
		t.Error("first toggle should expand")
	}
	if s.Toggle("doc-1") {
		t.Error("second toggle should collapse again")
	}
	// State keyed by group key, other keys unaffected
	if s.Expanded("doc-2") {
		t.Error("unrelated key should stay collapsed")
	}
}

func TestBuildGroupsIdempotent(t *testing.T) {
	records := []models.ReturnRecord{
		rec("RT-1", "DOC-1", "", "", "P1", "2024-06-01"),
		rec("RT-2", "DOC-1", "", "", "P1", "2024-06-01"),
		rec("RT-3", "DOC-2", "", "", "P2", "2024-05-01"),
	}

	first := BuildGroups(records)
	second := BuildGroups(records)
	if len(first) != len(second) {
		t.Fatalf("group counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key != second[i].Key || len(first[i].Members) != len(second[i].Members) {
			t.Errorf("group %d differs between runs", i)
		}
	}
}
