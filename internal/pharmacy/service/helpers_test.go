package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/repository"
	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/service"
	"github.com/pharmstock/pharmstock-backend/pkg/database"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
	"github.com/pharmstock/pharmstock-backend/pkg/testutil"
)

// env bundles a fresh database with every component wired the way the
// process entry point wires them.
type env struct {
	db        *database.DB
	medicines *repository.MedicineRepository
	lots      *repository.LotRepository
	sales     *repository.SaleRepository

	catalog *service.CatalogService
	ledger  *service.LedgerService
	seller  *service.SalesService
	alerts  *service.AlertService
	reports *service.ReportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithOptions(t, false)
}

func newEnvWithOptions(t *testing.T, expiringIncludesZeroStock bool) *env {
	t.Helper()

	db := testutil.NewTestDB(t)
	log := logger.Nop()

	medicines := repository.NewMedicineRepository(db)
	lots := repository.NewLotRepository(db)
	sales := repository.NewSaleRepository(db)

	ledger := service.NewLedgerService(medicines, lots, 0, 0, log)
	alerts := service.NewAlertService(lots, expiringIncludesZeroStock, log)

	return &env{
		db:        db,
		medicines: medicines,
		lots:      lots,
		sales:     sales,
		catalog:   service.NewCatalogService(medicines, log),
		ledger:    ledger,
		seller:    service.NewSalesService(db, lots, sales, log),
		alerts:    alerts,
		reports:   service.NewReportService(sales, lots, ledger, alerts, log),
	}
}

func (e *env) addMedicine(t *testing.T, name string) int64 {
	t.Helper()
	m := &repository.Medicine{Name: name}
	inserted, err := e.medicines.Insert(context.Background(), m)
	require.NoError(t, err)
	require.True(t, inserted)
	return m.ID
}

func (e *env) addLot(t *testing.T, medicineID int64, quantity int, expiryDate string, cost, price float64) int64 {
	t.Helper()
	lotID, err := e.ledger.AddLot(context.Background(), medicineID, quantity, expiryDate, cost, price)
	require.NoError(t, err)
	return lotID
}

func dateIn(days int) string {
	return time.Now().AddDate(0, 0, days).Format(service.DateLayout)
}
