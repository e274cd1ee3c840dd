package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pharmstock/pharmstock-backend/pkg/database"
	"github.com/pharmstock/pharmstock-backend/pkg/errors"
)

// Sale is one completed point-of-sale transaction against a lot. Rows are
// immutable: SalePrice and TotalAmount are snapshots taken at sale time and
// do not move if the lot's selling price changes later.
type Sale struct {
	ID           int64   `db:"id" json:"id"`
	InventoryID  int64   `db:"inventory_id" json:"inventory_id"`
	Quantity     int     `db:"quantity" json:"quantity"`
	SalePrice    float64 `db:"sale_price" json:"sale_price"`
	CustomerName string  `db:"customer_name" json:"customer_name"`
	SaleDate     string  `db:"sale_date" json:"sale_date"`
	SaleTime     string  `db:"sale_time" json:"sale_time"`
	TotalAmount  float64 `db:"total_amount" json:"total_amount"`
}

// ReportRow is one line of a sales report: the sale joined with the medicine
// name and the per-sale profit.
type ReportRow struct {
	SaleDate     string  `db:"sale_date" json:"sale_date"`
	SaleTime     string  `db:"sale_time" json:"sale_time"`
	MedicineName string  `db:"medicine_name" json:"medicine_name"`
	CustomerName string  `db:"customer_name" json:"customer_name"`
	Quantity     int     `db:"quantity" json:"quantity"`
	TotalAmount  float64 `db:"total_amount" json:"total_amount"`
	Profit       float64 `db:"profit" json:"profit"`
}

// SaleRepository handles sale record persistence
type SaleRepository struct {
	db *database.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *database.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

const insertSaleQuery = `
	INSERT INTO sales (inventory_id, quantity, sale_price, customer_name, sale_date, sale_time, total_amount)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

// CreateTx appends a sale record inside an open transaction, paired with the
// lot decrement so the two commit or roll back together.
func (r *SaleRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, sale *Sale) error {
	result, err := tx.ExecContext(ctx, insertSaleQuery,
		sale.InventoryID, sale.Quantity, sale.SalePrice, sale.CustomerName,
		sale.SaleDate, sale.SaleTime, sale.TotalAmount,
	)
	if err != nil {
		return errors.StorageUnavailable(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.StorageUnavailable(err)
	}
	sale.ID = id
	return nil
}

// Create appends a sale record outside a transaction. Exists for data import
// and test fixtures; the sale path always goes through CreateTx.
func (r *SaleRepository) Create(ctx context.Context, sale *Sale) error {
	result, err := r.db.ExecContext(ctx, insertSaleQuery,
		sale.InventoryID, sale.Quantity, sale.SalePrice, sale.CustomerName,
		sale.SaleDate, sale.SaleTime, sale.TotalAmount,
	)
	if err != nil {
		return errors.StorageUnavailable(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.StorageUnavailable(err)
	}
	sale.ID = id
	return nil
}

// ListSince returns report rows for sales dated on or after the boundary,
// most recent first. Profit is computed against the lot's stored purchase
// price, which is treated as immutable after the lot is created.
func (r *SaleRepository) ListSince(ctx context.Context, boundary string) ([]*ReportRow, error) {
	var rows []*ReportRow
	query := `
		SELECT s.sale_date, s.sale_time, m.name AS medicine_name, s.customer_name,
		       s.quantity, s.total_amount,
		       s.quantity * (s.sale_price - i.purchase_price) AS profit
		FROM sales s
		JOIN inventory i ON s.inventory_id = i.id
		JOIN medicines m ON i.medicine_id = m.id
		WHERE s.sale_date >= ?
		ORDER BY s.sale_date DESC, s.sale_time DESC
	`
	if err := r.db.SelectContext(ctx, &rows, query, boundary); err != nil {
		return nil, errors.StorageUnavailable(err)
	}
	return rows, nil
}

// SumQuantityByLot returns the total quantity ever sold from a lot.
func (r *SaleRepository) SumQuantityByLot(ctx context.Context, lotID int64) (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(quantity), 0) FROM sales WHERE inventory_id = ?`
	if err := r.db.GetContext(ctx, &total, query, lotID); err != nil {
		return 0, errors.StorageUnavailable(err)
	}
	return total, nil
}

// SumTotalSince returns the summed total_amount of sales dated on or after
// the boundary.
func (r *SaleRepository) SumTotalSince(ctx context.Context, boundary string) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(total_amount), 0) FROM sales WHERE sale_date >= ?`
	if err := r.db.GetContext(ctx, &total, query, boundary); err != nil {
		return 0, errors.StorageUnavailable(err)
	}
	return total, nil
}
