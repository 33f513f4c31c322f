package store

import (
	"context"
	"sort"
	"sync"

	"github.com/neosiam/returnhub/internal/models"
)

// MemoryStore keeps everything in maps behind one mutex. Used by tests, the
// demo seeder and single-process deployments that do not need Postgres.
type MemoryStore struct {
	mu sync.RWMutex

	requests  map[string]models.ReturnRequest
	orders    map[string]models.CollectionOrder
	manifests map[string]models.ShipmentManifest
	records   map[string]models.ReturnRecord
	ncrs      map[string]models.NCRRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests:  make(map[string]models.ReturnRequest),
		orders:    make(map[string]models.CollectionOrder),
		manifests: make(map[string]models.ShipmentManifest),
		records:   make(map[string]models.ReturnRecord),
		ncrs:      make(map[string]models.NCRRecord),
	}
}

func (s *MemoryStore) ListReturnRequests(ctx context.Context) ([]models.ReturnRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ReturnRequest, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetReturnRequest(ctx context.Context, id string) (*models.ReturnRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) SaveReturnRequest(ctx context.Context, req *models.ReturnRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = *req
	return nil
}

func (s *MemoryStore) UpdateReturnRequest(ctx context.Context, id string, patch ReturnRequestPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return ErrNotFound
	}
	applyReturnRequestPatch(&r, patch)
	s.requests[id] = r
	return nil
}

func (s *MemoryStore) ListCollectionOrders(ctx context.Context) ([]models.CollectionOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CollectionOrder, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetCollectionOrder(ctx context.Context, id string) (*models.CollectionOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (s *MemoryStore) SaveCollectionOrder(ctx context.Context, order *models.CollectionOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = *order
	return nil
}

func (s *MemoryStore) UpdateCollectionOrder(ctx context.Context, id string, patch CollectionOrderPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return ErrNotFound
	}
	applyCollectionPatch(&o, patch)
	s.orders[id] = o
	return nil
}

func (s *MemoryStore) ListManifests(ctx context.Context) ([]models.ShipmentManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ShipmentManifest, 0, len(s.manifests))
	for _, m := range s.manifests {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetManifest(ctx context.Context, id string) (*models.ShipmentManifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.manifests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (s *MemoryStore) SaveManifest(ctx context.Context, manifest *models.ShipmentManifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifests[manifest.ID] = *manifest
	return nil
}

func (s *MemoryStore) UpdateManifest(ctx context.Context, id string, patch ManifestPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.manifests[id]
	if !ok {
		return ErrNotFound
	}
	applyManifestPatch(&m, patch)
	s.manifests[id] = m
	return nil
}

func (s *MemoryStore) ListReturnRecords(ctx context.Context) ([]models.ReturnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ReturnRecord, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetReturnRecord(ctx context.Context, id string) (*models.ReturnRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) SaveReturnRecord(ctx context.Context, rec *models.ReturnRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) UpdateReturnRecord(ctx context.Context, id string, patch ReturnRecordPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	applyReturnRecordPatch(&r, patch)
	s.records[id] = r
	return nil
}

func (s *MemoryStore) ListNCRRecords(ctx context.Context) ([]models.NCRRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.NCRRecord, 0, len(s.ncrs))
	for _, n := range s.ncrs {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetNCRRecord(ctx context.Context, id string) (*models.NCRRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.ncrs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &n, nil
}

func (s *MemoryStore) SaveNCRRecord(ctx context.Context, rec *models.NCRRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ncrs[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) UpdateNCRRecord(ctx context.Context, rec *models.NCRRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ncrs[rec.ID]; !ok {
		return ErrNotFound
	}
	s.ncrs[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) DeleteNCRRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ncrs[id]; !ok {
		return ErrNotFound
	}
	delete(s.ncrs, id)
	return nil
}

// WithinTx on the memory store runs fn against the store itself. Callers get
// per-call atomicity from the mutex; a failed fn does not roll back writes it
// already made, which is acceptable for tests and demos.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}
