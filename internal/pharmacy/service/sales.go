package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/repository"
	"github.com/pharmstock/pharmstock-backend/pkg/database"
	"github.com/pharmstock/pharmstock-backend/pkg/errors"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

// SaleResult is the success payload of a completed sale.
type SaleResult struct {
	SaleID      int64   `json:"sale_id"`
	LotID       int64   `json:"lot_id"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalAmount float64 `json:"total_amount"`
	Remaining   int     `json:"remaining"`
	Message     string  `json:"message"`
}

// SalesService executes sales. It is the only writer allowed to decrement lot
// quantity, and only paired with appending the sale record in the same
// transaction.
type SalesService struct {
	db     *database.DB
	lots   *repository.LotRepository
	sales  *repository.SaleRepository
	logger *logger.Logger
}

// NewSalesService creates a new sales service
func NewSalesService(db *database.DB, lots *repository.LotRepository, sales *repository.SaleRepository, log *logger.Logger) *SalesService {
	return &SalesService{
		db:     db,
		lots:   lots,
		sales:  sales,
		logger: log,
	}
}

// Sell sells quantity units from a lot. The whole check-then-act sequence
// (read quantity, validate, append sale, decrement) runs in one transaction:
// on any failure nothing is written, and the unit price charged is the lot's
// selling price as read inside that transaction.
func (s *SalesService) Sell(ctx context.Context, lotID int64, quantity int, customerName string) (*SaleResult, error) {
	var result *SaleResult

	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		lot, err := s.lots.GetByIDTx(ctx, tx, lotID)
		if err != nil {
			return err
		}

		if quantity > lot.Quantity {
			return errors.InsufficientStock(
				fmt.Sprintf("requested %d but only %d in stock", quantity, lot.Quantity))
		}
		if quantity <= 0 {
			return errors.InvalidInput("sale quantity must be positive")
		}

		now := time.Now()
		sale := &repository.Sale{
			InventoryID:  lotID,
			Quantity:     quantity,
			SalePrice:    lot.SellingPrice,
			CustomerName: customerName,
			SaleDate:     now.Format(DateLayout),
			SaleTime:     now.Format(TimeLayout),
			TotalAmount:  float64(quantity) * lot.SellingPrice,
		}
		if err := s.sales.CreateTx(ctx, tx, sale); err != nil {
			return err
		}

		decremented, err := s.lots.DecrementQuantityTx(ctx, tx, lotID, quantity)
		if err != nil {
			return err
		}
		if !decremented {
			// Cannot happen on a single serialized connection; kept as a
			// hard stop so a future pooled setup cannot oversell.
			return errors.InsufficientStock(
				fmt.Sprintf("requested %d but only %d in stock", quantity, lot.Quantity))
		}

		message := fmt.Sprintf("Sold %d items. Total: %.2f", quantity, sale.TotalAmount)
		if customerName != "" {
			message = fmt.Sprintf("Sold %d items to %s. Total: %.2f", quantity, customerName, sale.TotalAmount)
		}

		result = &SaleResult{
			SaleID:      sale.ID,
			LotID:       lotID,
			Quantity:    quantity,
			UnitPrice:   sale.SalePrice,
			TotalAmount: sale.TotalAmount,
			Remaining:   lot.Quantity - quantity,
			Message:     message,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("sale_id", result.SaleID).
		Int64("lot_id", lotID).
		Int("quantity", quantity).
		Float64("total_amount", result.TotalAmount).
		Msg("sale recorded")

	return result, nil
}
