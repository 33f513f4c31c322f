package sequence

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGeneratorFormats(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGenerator()
	at := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	col, err := g.NextCollectionNumber(ctx, at)
	if err != nil {
		t.Fatalf("NextCollectionNumber failed: %v", err)
	}
	if col != "COL-202406-001" {
		t.Errorf("collection number = %s, want COL-202406-001", col)
	}

	shp, err := g.NextManifestNumber(ctx, at)
	if err != nil {
		t.Fatalf("NextManifestNumber failed: %v", err)
	}
	if shp != "SHP-2024-001" {
		t.Errorf("manifest number = %s, want SHP-2024-001", shp)
	}

	ncr, err := g.NextNCRNumber(ctx, at)
	if err != nil {
		t.Fatalf("NextNCRNumber failed: %v", err)
	}
	if ncr != "NCR-2024-0001" {
		t.Errorf("ncr number = %s, want NCR-2024-0001", ncr)
	}
}

func TestMemoryGeneratorScopeReset(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGenerator()

	june := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	july := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	first, _ := g.NextCollectionNumber(ctx, june)
	second, _ := g.NextCollectionNumber(ctx, june)
	if first != "COL-202406-001" || second != "COL-202406-002" {
		t.Errorf("june numbers = %s, %s", first, second)
	}

	// Counter resets when the month changes
	reset, _ := g.NextCollectionNumber(ctx, july)
	if reset != "COL-202407-001" {
		t.Errorf("july number = %s, want COL-202407-001", reset)
	}

	// Manifest counter is yearly, unaffected by the month change
	m1, _ := g.NextManifestNumber(ctx, june)
	m2, _ := g.NextManifestNumber(ctx, july)
	if m1 != "SHP-2024-001" || m2 != "SHP-2024-002" {
		t.Errorf("manifest numbers = %s, %s", m1, m2)
	}
}
