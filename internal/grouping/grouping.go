// Package grouping builds the board view of return records: rows that share a
// shipping document collapse into one group with a representative line.
package grouping

import (
	"sort"
	"strings"

	"github.com/neosiam/returnhub/internal/models"
)

// Normalize canonicalizes a reference for key comparison: surrounding and
// internal whitespace is stripped and the rest lowercased. Punctuation is
// kept, so "R-001" and "R001" remain distinct references.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// KeyFor picks the grouping key of a record. Priority order: shipping
// document number, collection order, NCR number, then the record's own id
// (which makes it a singleton group).
func KeyFor(r *models.ReturnRecord) string {
	for _, ref := range []string{r.DocumentNo, r.CollectionOrderID, r.NCRNumber} {
		if key := Normalize(ref); key != "" {
			return key
		}
	}
	return Normalize(r.ID)
}

// Group is one board row: a representative record plus every member sharing
// its key, in encounter order.
type Group struct {
	Key     string
	Members []models.ReturnRecord
}

// Representative is the first member by input order; its fields label the
// collapsed row.
func (g *Group) Representative() *models.ReturnRecord {
	if len(g.Members) == 0 {
		return nil
	}
	return &g.Members[0]
}

// MixedProduct reports whether the group holds more than one distinct
// product code.
func (g *Group) MixedProduct() bool {
	if len(g.Members) < 2 {
		return false
	}
	first := g.Members[0].ProductCode
	for _, m := range g.Members[1:] {
		if m.ProductCode != first {
			return true
		}
	}
	return false
}

// TotalQuantity sums member quantities for the collapsed row.
func (g *Group) TotalQuantity() float64 {
	var total float64
	for _, m := range g.Members {
		total += m.Quantity
	}
	return total
}

// BuildGroups groups records by key, preserving encounter order inside each
// group, then orders groups newest-first by the representative's date. Dates
// are ISO strings so the comparison is lexical.
func BuildGroups(records []models.ReturnRecord) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range records {
		key := KeyFor(&r)
		if i, ok := index[key]; ok {
			groups[i].Members = append(groups[i].Members, r)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{Key: key, Members: []models.ReturnRecord{r}})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Representative().Date > groups[j].Representative().Date
	})
	return groups
}

// FilterByDisposition selects the records shown in one board column. The RTV
// column only shows records still waiting for a vendor return document, so
// anything that already carries a document number is excluded there.
func FilterByDisposition(records []models.ReturnRecord, d models.Disposition) []models.ReturnRecord {
	var out []models.ReturnRecord
	for _, r := range records {
		if r.Disposition != d {
			continue
		}
		if d == models.DispositionRTV && r.DocumentNo != "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ExpandState tracks which groups the viewer has opened. Groups start
// collapsed; state survives rebuilds because it is keyed by group key, not
// by position.
type ExpandState struct {
	expanded map[string]bool
}

// NewExpandState creates a state with every group collapsed.
func NewExpandState() *ExpandState {
	return &ExpandState{expanded: make(map[string]bool)}
}

// Expanded reports whether the group with the given key is open.
func (s *ExpandState) Expanded(key string) bool {
	return s.expanded[key]
}

// Toggle flips the open state of one group and returns the new value.
func (s *ExpandState) Toggle(key string) bool {
	s.expanded[key] = !s.expanded[key]
	return s.expanded[key]
}
