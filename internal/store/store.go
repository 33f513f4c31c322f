// Package store defines the persistence ports for the returns workflow and
// provides an in-memory implementation for tests and demos plus a GORM-backed
// one for production.
package store

import (
	"context"
	"errors"

	"gorm.io/datatypes"

	"github.com/neosiam/returnhub/internal/models"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// ReturnRequestPatch updates selected fields of a ReturnRequest.
// Nil fields are left untouched.
type ReturnRequestPatch struct {
	Status            *models.RMAStatus
	CollectionOrderID *string
}

// CollectionOrderPatch updates selected fields of a CollectionOrder.
type CollectionOrderPatch struct {
	Status     *models.CollectionStatus
	Proof      *models.ProofOfCollection
	ManifestID *string
}

// ManifestPatch updates selected fields of a ShipmentManifest.
type ManifestPatch struct {
	Status      *models.ManifestStatus
	ArrivalDate *string
}

// ReturnRecordPatch updates selected fields of a ReturnRecord.
type ReturnRecordPatch struct {
	Status            *models.ReturnStatus
	Disposition       *models.Disposition
	DateReceived      *string
	CollectionOrderID *string
	DocumentNo        *string
	Quantity          *float64
	Notes             *string
}

// Store is the persistence port shared by the workflow engine and the NCR
// service. Implementations must apply each call atomically; multi-entity
// atomicity goes through WithinTx.
type Store interface {
	ListReturnRequests(ctx context.Context) ([]models.ReturnRequest, error)
	GetReturnRequest(ctx context.Context, id string) (*models.ReturnRequest, error)
	SaveReturnRequest(ctx context.Context, req *models.ReturnRequest) error
	UpdateReturnRequest(ctx context.Context, id string, patch ReturnRequestPatch) error

	ListCollectionOrders(ctx context.Context) ([]models.CollectionOrder, error)
	GetCollectionOrder(ctx context.Context, id string) (*models.CollectionOrder, error)
	SaveCollectionOrder(ctx context.Context, order *models.CollectionOrder) error
	UpdateCollectionOrder(ctx context.Context, id string, patch CollectionOrderPatch) error

	ListManifests(ctx context.Context) ([]models.ShipmentManifest, error)
	GetManifest(ctx context.Context, id string) (*models.ShipmentManifest, error)
	SaveManifest(ctx context.Context, manifest *models.ShipmentManifest) error
	UpdateManifest(ctx context.Context, id string, patch ManifestPatch) error

	ListReturnRecords(ctx context.Context) ([]models.ReturnRecord, error)
	GetReturnRecord(ctx context.Context, id string) (*models.ReturnRecord, error)
	SaveReturnRecord(ctx context.Context, rec *models.ReturnRecord) error
	UpdateReturnRecord(ctx context.Context, id string, patch ReturnRecordPatch) error

	ListNCRRecords(ctx context.Context) ([]models.NCRRecord, error)
	GetNCRRecord(ctx context.Context, id string) (*models.NCRRecord, error)
	SaveNCRRecord(ctx context.Context, rec *models.NCRRecord) error
	UpdateNCRRecord(ctx context.Context, rec *models.NCRRecord) error
	DeleteNCRRecord(ctx context.Context, id string) error

	// WithinTx runs fn against a transactional view of the store. If fn
	// returns an error every write made inside it is rolled back.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// applyCollectionPatch mutates an order in place. Shared by both
// implementations so patch semantics cannot drift.
func applyCollectionPatch(order *models.CollectionOrder, patch CollectionOrderPatch) {
	if patch.Status != nil {
		order.Status = *patch.Status
	}
	if patch.Proof != nil {
		proof := datatypes.NewJSONType(*patch.Proof)
		order.Proof = &proof
	}
	if patch.ManifestID != nil {
		order.ManifestID = *patch.ManifestID
	}
}

func applyReturnRequestPatch(req *models.ReturnRequest, patch ReturnRequestPatch) {
	if patch.Status != nil {
		req.Status = *patch.Status
	}
	if patch.CollectionOrderID != nil {
		req.CollectionOrderID = *patch.CollectionOrderID
	}
}

func applyManifestPatch(m *models.ShipmentManifest, patch ManifestPatch) {
	if patch.Status != nil {
		m.Status = *patch.Status
	}
	if patch.ArrivalDate != nil {
		m.ArrivalDate = *patch.ArrivalDate
	}
}

func applyReturnRecordPatch(rec *models.ReturnRecord, patch ReturnRecordPatch) {
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.Disposition != nil {
		rec.Disposition = *patch.Disposition
	}
	if patch.DateReceived != nil {
		rec.DateReceived = *patch.DateReceived
	}
	if patch.CollectionOrderID != nil {
		rec.CollectionOrderID = *patch.CollectionOrderID
	}
	if patch.DocumentNo != nil {
		rec.DocumentNo = *patch.DocumentNo
	}
	if patch.Quantity != nil {
		rec.Quantity = *patch.Quantity
	}
	if patch.Notes != nil {
		rec.Notes = *patch.Notes
	}
}
