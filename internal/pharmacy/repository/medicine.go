package repository

import (
	"context"
	"database/sql"

	"github.com/pharmstock/pharmstock-backend/pkg/database"
	"github.com/pharmstock/pharmstock-backend/pkg/errors"
)

// Medicine is a catalog entry. Immutable once loaded; Price is a descriptive
// string from the catalog source, not the transactional selling price (that
// lives on the lot).
type Medicine struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	GenericName *string `db:"generic_name" json:"generic_name,omitempty"`
	Type        *string `db:"type" json:"type,omitempty"`
	Power       *string `db:"power" json:"power,omitempty"`
	Company     *string `db:"company" json:"company,omitempty"`
	Price       *string `db:"price" json:"price,omitempty"`
}

// MedicineRef is the id+name pair used for selection lists.
type MedicineRef struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// MedicineRepository handles medicine catalog persistence
type MedicineRepository struct {
	db *database.DB
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *database.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

// Count returns the number of catalog rows.
func (r *MedicineRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM medicines`); err != nil {
		return 0, errors.StorageUnavailable(err)
	}
	return count, nil
}

// Insert adds a medicine to the catalog. A row whose name is already present
// is skipped (first write wins); the return value reports whether a row was
// actually written.
func (r *MedicineRepository) Insert(ctx context.Context, m *Medicine) (bool, error) {
	query := `
		INSERT OR IGNORE INTO medicines (name, generic_name, type, power, company, price)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		m.Name, m.GenericName, m.Type, m.Power, m.Company, m.Price,
	)
	if err != nil {
		return false, errors.StorageUnavailable(err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return false, nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return false, errors.StorageUnavailable(err)
	}
	m.ID = id
	return true, nil
}

// GetByID gets a medicine by ID
func (r *MedicineRepository) GetByID(ctx context.Context, id int64) (*Medicine, error) {
	var m Medicine
	query := `SELECT * FROM medicines WHERE id = ?`
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("medicine")
		}
		return nil, errors.StorageUnavailable(err)
	}
	return &m, nil
}

// Exists reports whether a medicine with the given ID is in the catalog.
func (r *MedicineRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM medicines WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.StorageUnavailable(err)
	}
	return true, nil
}

// Search returns medicines whose name contains the substring, ordered by name.
// SQLite LIKE is case-insensitive for ASCII, so "para" matches "Paracetamol".
// An empty substring matches everything.
func (r *MedicineRepository) Search(ctx context.Context, substring string) ([]*Medicine, error) {
	var medicines []*Medicine
	query := `
		SELECT * FROM medicines
		WHERE name LIKE ?
		ORDER BY name
	`
	if err := r.db.SelectContext(ctx, &medicines, query, "%"+substring+"%"); err != nil {
		return nil, errors.StorageUnavailable(err)
	}
	return medicines, nil
}

// ListRefs lists all medicines as id+name pairs, ordered by name.
func (r *MedicineRepository) ListRefs(ctx context.Context) ([]*MedicineRef, error) {
	var refs []*MedicineRef
	query := `SELECT id, name FROM medicines ORDER BY name`
	if err := r.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, errors.StorageUnavailable(err)
	}
	return refs, nil
}
