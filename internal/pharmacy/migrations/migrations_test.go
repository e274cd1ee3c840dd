package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/migrations"
	"github.com/pharmstock/pharmstock-backend/pkg/database"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

func newRawDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewWithDSN(":memory:", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApply_FreshDatabase(t *testing.T) {
	db := newRawDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.Apply(ctx, db.DB, logger.Nop()))

	version, err := migrations.Version(ctx, db.DB)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	// All three relations exist and accept rows
	_, err = db.Exec(`INSERT INTO medicines (name) VALUES ('Paracetamol')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO inventory (medicine_id, quantity, expiry_date, purchase_price, selling_price)
		VALUES (1, 10, '2099-01-01', 2.0, 5.0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sales (inventory_id, quantity, sale_price, customer_name, sale_time, total_amount)
		VALUES (1, 2, 5.0, 'Alice', '10:30:00', 10.0)`)
	require.NoError(t, err)
}

func TestApply_Idempotent(t *testing.T) {
	db := newRawDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.Apply(ctx, db.DB, logger.Nop()))
	require.NoError(t, migrations.Apply(ctx, db.DB, logger.Nop()))

	version, err := migrations.Version(ctx, db.DB)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM schema_migrations`))
	assert.Equal(t, 2, count)
}

func TestApply_QuantityCheckConstraint(t *testing.T) {
	db := newRawDB(t)
	ctx := context.Background()

	require.NoError(t, migrations.Apply(ctx, db.DB, logger.Nop()))

	_, err := db.Exec(`INSERT INTO medicines (name) VALUES ('Ibuprofen')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO inventory (medicine_id, quantity, expiry_date, purchase_price, selling_price)
		VALUES (1, -5, '2099-01-01', 2.0, 5.0)`)
	assert.Error(t, err, "negative quantity must be rejected by the schema")
}
