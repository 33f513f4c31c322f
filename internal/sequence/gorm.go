package sequence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter is one durable sequence row. The (key, scope) pair identifies a
// counter; scope encodes the reset period (yyyymm or yyyy).
type Counter struct {
	Key   string `gorm:"primaryKey"`
	Scope string `gorm:"primaryKey"`
	Value int64  `gorm:"not null;default:0"`

	UpdatedAt time.Time
}

// TableName specifies the table name for Counter model
func (Counter) TableName() string {
	return "sequence_counters"
}

// GormGenerator issues numbers from a Postgres counter table. Each call
// increments the row inside a transaction with a row lock, so concurrent
// callers never see the same value.
type GormGenerator struct {
	db *gorm.DB
}

// NewGormGenerator wraps an open GORM connection.
func NewGormGenerator(db *gorm.DB) *GormGenerator {
	return &GormGenerator{db: db}
}

func (g *GormGenerator) next(ctx context.Context, key, scope string) (int64, error) {
	var value int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		counter := Counter{Key: key, Scope: scope}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&Counter{Key: key, Scope: scope}).
			FirstOrCreate(&counter).Error; err != nil {
			return err
		}
		counter.Value++
		value = counter.Value
		return tx.Save(&counter).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s/%s: %w", key, scope, err)
	}
	return value, nil
}

func (g *GormGenerator) NextCollectionNumber(ctx context.Context, at time.Time) (string, error) {
	seq, err := g.next(ctx, KeyCollection, collectionScope(at))
	if err != nil {
		return "", err
	}
	return FormatCollectionNumber(at, seq), nil
}

func (g *GormGenerator) NextManifestNumber(ctx context.Context, at time.Time) (string, error) {
	seq, err := g.next(ctx, KeyManifest, yearScope(at))
	if err != nil {
		return "", err
	}
	return FormatManifestNumber(at, seq), nil
}

func (g *GormGenerator) NextNCRNumber(ctx context.Context, at time.Time) (string, error) {
	seq, err := g.next(ctx, KeyNCR, yearScope(at))
	if err != nil {
		return "", err
	}
	return FormatNCRNumber(at, seq), nil
}
