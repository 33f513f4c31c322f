package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/neosiam/returnhub/internal/models"
)

// GormStore persists everything through GORM. It works with either an
// external or an embedded Postgres connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open GORM connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ListReturnRequests(ctx context.Context) ([]models.ReturnRequest, error) {
	var out []models.ReturnRequest
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list return requests: %w", err)
	}
	return out, nil
}

func (s *GormStore) GetReturnRequest(ctx context.Context, id string) (*models.ReturnRequest, error) {
	var req models.ReturnRequest
	if err := s.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get return request %s: %w", id, err)
	}
	return &req, nil
}

func (s *GormStore) SaveReturnRequest(ctx context.Context, req *models.ReturnRequest) error {
	if err := s.db.WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("failed to save return request %s: %w", req.ID, err)
	}
	return nil
}

func (s *GormStore) UpdateReturnRequest(ctx context.Context, id string, patch ReturnRequestPatch) error {
	req, err := s.GetReturnRequest(ctx, id)
	if err != nil {
		return err
	}
	applyReturnRequestPatch(req, patch)
	return s.SaveReturnRequest(ctx, req)
}

func (s *GormStore) ListCollectionOrders(ctx context.Context) ([]models.CollectionOrder, error) {
	var out []models.CollectionOrder
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list collection orders: %w", err)
	}
	return out, nil
}

func (s *GormStore) GetCollectionOrder(ctx context.Context, id string) (*models.CollectionOrder, error) {
	var order models.CollectionOrder
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get collection order %s: %w", id, err)
	}
	return &order, nil
}

func (s *GormStore) SaveCollectionOrder(ctx context.Context, order *models.CollectionOrder) error {
	if err := s.db.WithContext(ctx).Save(order).Error; err != nil {
		return fmt.Errorf("failed to save collection order %s: %w", order.ID, err)
	}
	return nil
}

func (s *GormStore) UpdateCollectionOrder(ctx context.Context, id string, patch CollectionOrderPatch) error {
	order, err := s.GetCollectionOrder(ctx, id)
	if err != nil {
		return err
	}
	applyCollectionPatch(order, patch)
	return s.SaveCollectionOrder(ctx, order)
}

func (s *GormStore) ListManifests(ctx context.Context) ([]models.ShipmentManifest, error) {
	var out []models.ShipmentManifest
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list manifests: %w", err)
	}
	return out, nil
}

func (s *GormStore) GetManifest(ctx context.Context, id string) (*models.ShipmentManifest, error) {
	var m models.ShipmentManifest
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get manifest %s: %w", id, err)
	}
	return &m, nil
}

func (s *GormStore) SaveManifest(ctx context.Context, manifest *models.ShipmentManifest) error {
	if err := s.db.WithContext(ctx).Save(manifest).Error; err != nil {
		return fmt.Errorf("failed to save manifest %s: %w", manifest.ID, err)
	}
	return nil
}

func (s *GormStore) UpdateManifest(ctx context.Context, id string, patch ManifestPatch) error {
	m, err := s.GetManifest(ctx, id)
	if err != nil {
		return err
	}
	applyManifestPatch(m, patch)
	return s.SaveManifest(ctx, m)
}

func (s *GormStore) ListReturnRecords(ctx context.Context) ([]models.ReturnRecord, error) {
	var out []models.ReturnRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list return records: %w", err)
	}
	return out, nil
}

func (s *GormStore) GetReturnRecord(ctx context.Context, id string) (*models.ReturnRecord, error) {
	var rec models.ReturnRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get return record %s: %w", id, err)
	}
	return &rec, nil
}

func (s *GormStore) SaveReturnRecord(ctx context.Context, rec *models.ReturnRecord) error {
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("failed to save return record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *GormStore) UpdateReturnRecord(ctx context.Context, id string, patch ReturnRecordPatch) error {
	rec, err := s.GetReturnRecord(ctx, id)
	if err != nil {
		return err
	}
	applyReturnRecordPatch(rec, patch)
	return s.SaveReturnRecord(ctx, rec)
}

func (s *GormStore) ListNCRRecords(ctx context.Context) ([]models.NCRRecord, error) {
	var out []models.NCRRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list NCR records: %w", err)
	}
	return out, nil
}

func (s *GormStore) GetNCRRecord(ctx context.Context, id string) (*models.NCRRecord, error) {
	var rec models.NCRRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get NCR record %s: %w", id, err)
	}
	return &rec, nil
}

func (s *GormStore) SaveNCRRecord(ctx context.Context, rec *models.NCRRecord) error {
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("failed to save NCR record %s: %w", rec.ID, err)
	}
	return nil
}

func (s *GormStore) UpdateNCRRecord(ctx context.Context, rec *models.NCRRecord) error {
	res := s.db.WithContext(ctx).Model(&models.NCRRecord{}).Where("id = ?", rec.ID).Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("failed to update NCR record %s: %w", rec.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteNCRRecord(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.NCRRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete NCR record %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// WithinTx runs fn against a store bound to a database transaction. A non-nil
// error from fn rolls back every write made inside it.
func (s *GormStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
