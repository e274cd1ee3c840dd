package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/pharmstock/pharmstock-backend/pkg/database"
	"github.com/pharmstock/pharmstock-backend/pkg/errors"
)

// Lot is one inventory row: a batch of a medicine received at a specific
// cost, price and expiry. Dates are ISO strings (YYYY-MM-DD), which keeps
// them directly comparable both in SQL and in Go.
type Lot struct {
	ID            int64   `db:"id" json:"id"`
	MedicineID    int64   `db:"medicine_id" json:"medicine_id"`
	Quantity      int     `db:"quantity" json:"quantity"`
	ExpiryDate    string  `db:"expiry_date" json:"expiry_date"`
	PurchasePrice float64 `db:"purchase_price" json:"purchase_price"`
	SellingPrice  float64 `db:"selling_price" json:"selling_price"`
	PurchaseDate  string  `db:"purchase_date" json:"purchase_date"`
}

// ActiveLot is a lot joined with its medicine name for inventory listings.
type ActiveLot struct {
	Lot
	MedicineName string `db:"medicine_name" json:"medicine_name"`
}

// ExpiringLot is a row of the expiry alert listing.
type ExpiringLot struct {
	LotID        int64  `db:"lot_id" json:"lot_id"`
	MedicineName string `db:"medicine_name" json:"medicine_name"`
	Quantity     int    `db:"quantity" json:"quantity"`
	ExpiryDate   string `db:"expiry_date" json:"expiry_date"`
}

// LotRepository handles inventory lot persistence
type LotRepository struct {
	db *database.DB
}

// NewLotRepository creates a new lot repository
func NewLotRepository(db *database.DB) *LotRepository {
	return &LotRepository{db: db}
}

// Create inserts a new lot. Restocking never merges with an existing lot for
// the same medicine; each delivery is its own row.
func (r *LotRepository) Create(ctx context.Context, lot *Lot) error {
	query := `
		INSERT INTO inventory (medicine_id, quantity, expiry_date, purchase_price, selling_price, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		lot.MedicineID, lot.Quantity, lot.ExpiryDate,
		lot.PurchasePrice, lot.SellingPrice, lot.PurchaseDate,
	)
	if err != nil {
		return errors.StorageUnavailable(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.StorageUnavailable(err)
	}
	lot.ID = id
	return nil
}

// GetByID gets a lot by ID
func (r *LotRepository) GetByID(ctx context.Context, id int64) (*Lot, error) {
	var lot Lot
	query := `SELECT * FROM inventory WHERE id = ?`
	if err := r.db.GetContext(ctx, &lot, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("lot")
		}
		return nil, errors.StorageUnavailable(err)
	}
	return &lot, nil
}

// GetByIDTx reads a lot inside an open transaction. The sale path uses this
// so the quantity it validates against is the quantity it decrements.
func (r *LotRepository) GetByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (*Lot, error) {
	var lot Lot
	query := `SELECT * FROM inventory WHERE id = ?`
	if err := tx.GetContext(ctx, &lot, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("lot")
		}
		return nil, errors.StorageUnavailable(err)
	}
	return &lot, nil
}

// DecrementQuantityTx decrements a lot's quantity inside an open transaction.
// The WHERE clause refuses to take the quantity below zero; a false return
// means the stock was not there and the caller must roll back.
func (r *LotRepository) DecrementQuantityTx(ctx context.Context, tx *sqlx.Tx, id int64, quantity int) (bool, error) {
	query := `UPDATE inventory SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`
	result, err := tx.ExecContext(ctx, query, quantity, id, quantity)
	if err != nil {
		return false, errors.StorageUnavailable(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.StorageUnavailable(err)
	}
	return affected == 1, nil
}

// ListActive lists lots that still have stock, joined with the medicine name,
// soonest-expiring first. Sold-out lots stay in the table for audit but are
// excluded here.
func (r *LotRepository) ListActive(ctx context.Context) ([]*ActiveLot, error) {
	var lots []*ActiveLot
	query := `
		SELECT i.id, i.medicine_id, i.quantity, i.expiry_date,
		       i.purchase_price, i.selling_price, i.purchase_date,
		       m.name AS medicine_name
		FROM inventory i
		JOIN medicines m ON i.medicine_id = m.id
		WHERE i.quantity > 0
		ORDER BY i.expiry_date
	`
	if err := r.db.SelectContext(ctx, &lots, query); err != nil {
		return nil, errors.StorageUnavailable(err)
	}
	return lots, nil
}

// ListExpiringBetween lists lots whose expiry date falls in [from, until],
// both bounds inclusive, ordered by expiry date. includeZeroStock keeps
// sold-out lots in the listing.
func (r *LotRepository) ListExpiringBetween(ctx context.Context, from, until string, includeZeroStock bool) ([]*ExpiringLot, error) {
	var lots []*ExpiringLot
	query := `
		SELECT i.id AS lot_id, m.name AS medicine_name, i.quantity, i.expiry_date
		FROM inventory i
		JOIN medicines m ON i.medicine_id = m.id
		WHERE i.expiry_date BETWEEN ? AND ?
	`
	if !includeZeroStock {
		query += ` AND i.quantity > 0`
	}
	query += ` ORDER BY i.expiry_date`

	if err := r.db.SelectContext(ctx, &lots, query, from, until); err != nil {
		return nil, errors.StorageUnavailable(err)
	}
	return lots, nil
}

// CountActive returns the number of lots with stock remaining.
func (r *LotRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM inventory WHERE quantity > 0`); err != nil {
		return 0, errors.StorageUnavailable(err)
	}
	return count, nil
}
