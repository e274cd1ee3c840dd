package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/repository"
	"github.com/pharmstock/pharmstock-backend/pkg/database"
	"github.com/pharmstock/pharmstock-backend/pkg/errors"
	"github.com/pharmstock/pharmstock-backend/pkg/testutil"
)

const dateLayout = "2006-01-02"

func dateIn(days int) string {
	return time.Now().AddDate(0, 0, days).Format(dateLayout)
}

func seedLot(t *testing.T, db *database.DB, medicineID int64, quantity int, expiryDate string) *repository.Lot {
	t.Helper()
	repo := repository.NewLotRepository(db)
	lot := &repository.Lot{
		MedicineID:    medicineID,
		Quantity:      quantity,
		ExpiryDate:    expiryDate,
		PurchasePrice: 2.0,
		SellingPrice:  5.0,
		PurchaseDate:  time.Now().Format(dateLayout),
	}
	require.NoError(t, repo.Create(context.Background(), lot))
	return lot
}

func TestLotRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewLotRepository(db)
	ctx := context.Background()

	medID := seedMedicine(t, db, "Paracetamol")
	lot := seedLot(t, db, medID, 100, "2099-01-01")
	assert.NotZero(t, lot.ID)

	got, err := repo.GetByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, medID, got.MedicineID)
	assert.Equal(t, 100, got.Quantity)
	assert.Equal(t, "2099-01-01", got.ExpiryDate)
	assert.Equal(t, 2.0, got.PurchasePrice)
	assert.Equal(t, 5.0, got.SellingPrice)
}

func TestLotRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewLotRepository(db)

	_, err := repo.GetByID(context.Background(), 42)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestLotRepository_RestockCreatesSeparateLots(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewLotRepository(db)
	ctx := context.Background()

	medID := seedMedicine(t, db, "Ibuprofen")
	first := seedLot(t, db, medID, 50, dateIn(60))
	second := seedLot(t, db, medID, 30, dateIn(90))

	assert.NotEqual(t, first.ID, second.ID)

	lots, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, lots, 2)
}

func TestLotRepository_ListActive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewLotRepository(db)
	ctx := context.Background()

	medID := seedMedicine(t, db, "Paracetamol")
	seedLot(t, db, medID, 10, dateIn(90))
	seedLot(t, db, medID, 20, dateIn(15))
	seedLot(t, db, medID, 0, dateIn(5)) // sold out, stays in table

	lots, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, lots, 2, "sold-out lots must not appear")

	// Soonest-expiring first, joined with the medicine name
	assert.Equal(t, dateIn(15), lots[0].ExpiryDate)
	assert.Equal(t, dateIn(90), lots[1].ExpiryDate)
	assert.Equal(t, "Paracetamol", lots[0].MedicineName)
}

func TestLotRepository_ListExpiringBetween(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewLotRepository(db)
	ctx := context.Background()

	medID := seedMedicine(t, db, "Amoxicillin")
	seedLot(t, db, medID, 10, dateIn(0))
	seedLot(t, db, medID, 10, dateIn(30))
	seedLot(t, db, medID, 10, dateIn(31))
	soldOut := seedLot(t, db, medID, 0, dateIn(10))

	from, until := dateIn(0), dateIn(30)

	t.Run("bounds are inclusive", func(t *testing.T) {
		lots, err := repo.ListExpiringBetween(ctx, from, until, false)
		require.NoError(t, err)
		require.Len(t, lots, 2)
		assert.Equal(t, dateIn(0), lots[0].ExpiryDate)
		assert.Equal(t, dateIn(30), lots[1].ExpiryDate)
	})

	t.Run("zero-stock lots included on request", func(t *testing.T) {
		lots, err := repo.ListExpiringBetween(ctx, from, until, true)
		require.NoError(t, err)
		require.Len(t, lots, 3)

		var ids []int64
		for _, l := range lots {
			ids = append(ids, l.LotID)
		}
		assert.Contains(t, ids, soldOut.ID)
	})
}

func TestLotRepository_DecrementQuantityTx(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewLotRepository(db)
	ctx := context.Background()

	medID := seedMedicine(t, db, "Paracetamol")
	lot := seedLot(t, db, medID, 10, "2099-01-01")

	t.Run("decrements when stock suffices", func(t *testing.T) {
		tx, err := db.Beginx()
		require.NoError(t, err)
		ok, err := repo.DecrementQuantityTx(ctx, tx, lot.ID, 4)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, tx.Commit())

		got, err := repo.GetByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, got.Quantity)
	})

	t.Run("refuses to go below zero", func(t *testing.T) {
		tx, err := db.Beginx()
		require.NoError(t, err)
		ok, err := repo.DecrementQuantityTx(ctx, tx, lot.ID, 7)
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, tx.Rollback())

		got, err := repo.GetByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, got.Quantity)
	})
}
