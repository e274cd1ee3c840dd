package service

import (
	"context"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/repository"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

// CatalogService exposes the read-only medicine catalog.
type CatalogService struct {
	medicines *repository.MedicineRepository
	logger    *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(medicines *repository.MedicineRepository, log *logger.Logger) *CatalogService {
	return &CatalogService{
		medicines: medicines,
		logger:    log,
	}
}

// Search returns medicines whose name contains the substring (case-insensitive
// for ASCII, per SQLite LIKE), ordered by name. An empty substring matches the
// whole catalog.
func (s *CatalogService) Search(ctx context.Context, substring string) ([]*repository.Medicine, error) {
	return s.medicines.Search(ctx, substring)
}

// Get returns a single medicine by ID.
func (s *CatalogService) Get(ctx context.Context, id int64) (*repository.Medicine, error) {
	return s.medicines.GetByID(ctx, id)
}

// ListRefs returns the id+name pairs for every medicine, for selection lists.
func (s *CatalogService) ListRefs(ctx context.Context) ([]*repository.MedicineRef, error) {
	return s.medicines.ListRefs(ctx)
}
