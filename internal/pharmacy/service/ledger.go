package service

import (
	"context"
	"time"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/repository"
	"github.com/pharmstock/pharmstock-backend/pkg/errors"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

// Stock status classifications for active inventory. LOW takes precedence
// over NEAR_EXPIRY.
const (
	StatusLow        = "LOW"
	StatusNearExpiry = "NEAR_EXPIRY"
	StatusOK         = "OK"
)

// DefaultLowStockThreshold applies when the caller does not supply one.
const DefaultLowStockThreshold = 10

// DefaultNearExpiryDays is the lookahead window for the NEAR_EXPIRY flag.
const DefaultNearExpiryDays = 30

// InventoryItem is an active lot annotated with its derived stock status.
type InventoryItem struct {
	*repository.ActiveLot
	Status string `json:"status"`
}

// LedgerService owns lot creation and the active inventory view. Lot quantity
// is mutated only through the sale path; the ledger itself never decrements.
type LedgerService struct {
	medicines *repository.MedicineRepository
	lots      *repository.LotRepository

	lowStockThreshold int
	nearExpiryDays    int
	logger            *logger.Logger
}

// NewLedgerService creates a new ledger service. Non-positive thresholds fall
// back to the defaults.
func NewLedgerService(
	medicines *repository.MedicineRepository,
	lots *repository.LotRepository,
	lowStockThreshold int,
	nearExpiryDays int,
	log *logger.Logger,
) *LedgerService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	if nearExpiryDays <= 0 {
		nearExpiryDays = DefaultNearExpiryDays
	}
	return &LedgerService{
		medicines:         medicines,
		lots:              lots,
		lowStockThreshold: lowStockThreshold,
		nearExpiryDays:    nearExpiryDays,
		logger:            log,
	}
}

// AddLot records a new delivery as its own lot and returns its ID. Restocking
// an already-stocked medicine creates a second lot; lots are never merged.
func (s *LedgerService) AddLot(ctx context.Context, medicineID int64, quantity int, expiryDate string, purchasePrice, sellingPrice float64) (int64, error) {
	exists, err := s.medicines.Exists(ctx, medicineID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, errors.InvalidReference("medicine does not exist")
	}

	if quantity < 0 {
		return 0, errors.InvalidInput("quantity must not be negative")
	}
	if purchasePrice < 0 || sellingPrice < 0 {
		return 0, errors.InvalidInput("prices must not be negative")
	}
	expiry, err := time.Parse(DateLayout, expiryDate)
	if err != nil {
		return 0, errors.InvalidInput("expiry date must be a valid YYYY-MM-DD date")
	}

	lot := &repository.Lot{
		MedicineID:    medicineID,
		Quantity:      quantity,
		ExpiryDate:    expiry.Format(DateLayout),
		PurchasePrice: purchasePrice,
		SellingPrice:  sellingPrice,
		PurchaseDate:  today().Format(DateLayout),
	}
	if err := s.lots.Create(ctx, lot); err != nil {
		return 0, err
	}

	s.logger.Info().
		Int64("lot_id", lot.ID).
		Int64("medicine_id", medicineID).
		Int("quantity", quantity).
		Str("expiry_date", lot.ExpiryDate).
		Msg("lot added to inventory")

	return lot.ID, nil
}

// GetLot returns a lot by ID.
func (s *LedgerService) GetLot(ctx context.Context, id int64) (*repository.Lot, error) {
	return s.lots.GetByID(ctx, id)
}

// ListActiveInventory returns every lot with stock remaining, soonest expiry
// first, annotated with its status. A non-positive threshold means the
// configured default.
func (s *LedgerService) ListActiveInventory(ctx context.Context, threshold int) ([]*InventoryItem, error) {
	if threshold <= 0 {
		threshold = s.lowStockThreshold
	}

	lots, err := s.lots.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := today().AddDate(0, 0, s.nearExpiryDays).Format(DateLayout)

	items := make([]*InventoryItem, len(lots))
	for i, lot := range lots {
		items[i] = &InventoryItem{
			ActiveLot: lot,
			Status:    deriveStatus(lot.Quantity, lot.ExpiryDate, threshold, cutoff),
		}
	}
	return items, nil
}

// deriveStatus classifies a lot. The low-stock check comes first: a lot that
// is both low and near expiry reports LOW.
func deriveStatus(quantity int, expiryDate string, threshold int, nearExpiryCutoff string) string {
	switch {
	case quantity <= threshold:
		return StatusLow
	case expiryDate < nearExpiryCutoff:
		return StatusNearExpiry
	default:
		return StatusOK
	}
}
