// Package sequence issues the document numbers used across the workflow:
// collection order ids, shipment manifest ids and NCR numbers. Numbers are
// never derived from row counts, so deleting a document can never cause a
// duplicate id.
package sequence

import (
	"context"
	"fmt"
	"time"
)

// Sequence keys. Collection numbers reset monthly, the others yearly.
const (
	KeyCollection = "collection"
	KeyManifest   = "manifest"
	KeyNCR        = "ncr"
)

// Generator issues the next document number for a sequence key.
type Generator interface {
	NextCollectionNumber(ctx context.Context, at time.Time) (string, error)
	NextManifestNumber(ctx context.Context, at time.Time) (string, error)
	NextNCRNumber(ctx context.Context, at time.Time) (string, error)
}

// FormatCollectionNumber renders a collection order id, e.g. COL-202406-001.
func FormatCollectionNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("COL-%d%02d-%03d", at.Year(), int(at.Month()), seq)
}

// FormatManifestNumber renders a shipment manifest id, e.g. SHP-2024-001.
func FormatManifestNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("SHP-%d-%03d", at.Year(), seq)
}

// FormatNCRNumber renders an NCR number, e.g. NCR-2024-0001.
func FormatNCRNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("NCR-%d-%04d", at.Year(), seq)
}

// collectionScope returns the monthly reset scope for collection numbers.
func collectionScope(at time.Time) string {
	return fmt.Sprintf("%d%02d", at.Year(), int(at.Month()))
}

// yearScope returns the yearly reset scope for manifest and NCR numbers.
func yearScope(at time.Time) string {
	return fmt.Sprintf("%d", at.Year())
}
