package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/repository"
	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/service"
)

// backdatedSale inserts a sale row directly, bypassing the sale path, so
// tests can place history at arbitrary dates.
func (e *env) backdatedSale(t *testing.T, lotID int64, quantity int, price float64, daysAgo int) {
	t.Helper()
	when := time.Now().AddDate(0, 0, -daysAgo)
	require.NoError(t, e.sales.Create(context.Background(), &repository.Sale{
		InventoryID: lotID,
		Quantity:    quantity,
		SalePrice:   price,
		SaleDate:    when.Format(service.DateLayout),
		SaleTime:    "12:00:00",
		TotalAmount: float64(quantity) * price,
	}))
}

func TestParsePeriod(t *testing.T) {
	for _, valid := range []string{"daily", "weekly", "monthly"} {
		period, ok := service.ParsePeriod(valid)
		assert.True(t, ok)
		assert.Equal(t, service.Period(valid), period)
	}

	_, ok := service.ParsePeriod("bogus")
	assert.False(t, ok)
	_, ok = service.ParsePeriod("Daily")
	assert.False(t, ok)
}

func TestReportService_SalesReport_Periods(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	medID := e.addMedicine(t, "Paracetamol")
	lotID := e.addLot(t, medID, 1000, "2099-01-01", 2.0, 5.0)

	e.backdatedSale(t, lotID, 1, 5.0, 0)  // today
	e.backdatedSale(t, lotID, 2, 5.0, 3)  // this week
	e.backdatedSale(t, lotID, 3, 5.0, 40) // over a month ago

	t.Run("daily", func(t *testing.T) {
		rows, err := e.reports.SalesReport(ctx, service.PeriodDaily)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 1, rows[0].Quantity)
	})

	t.Run("weekly", func(t *testing.T) {
		rows, err := e.reports.SalesReport(ctx, service.PeriodWeekly)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("unknown period yields an empty report, not an error", func(t *testing.T) {
		rows, err := e.reports.SalesReport(ctx, service.Period("bogus"))
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})
}

func TestReportService_SalesReport_MonthlyBoundary(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	medID := e.addMedicine(t, "Ibuprofen")
	lotID := e.addLot(t, medID, 1000, "2099-01-01", 2.0, 5.0)

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonth := firstOfMonth.AddDate(0, 0, -1)

	require.NoError(t, e.sales.Create(ctx, &repository.Sale{
		InventoryID: lotID, Quantity: 5, SalePrice: 5.0,
		SaleDate: firstOfMonth.Format(service.DateLayout), SaleTime: "09:00:00", TotalAmount: 25.0,
	}))
	require.NoError(t, e.sales.Create(ctx, &repository.Sale{
		InventoryID: lotID, Quantity: 7, SalePrice: 5.0,
		SaleDate: lastMonth.Format(service.DateLayout), SaleTime: "09:00:00", TotalAmount: 35.0,
	}))

	rows, err := e.reports.SalesReport(ctx, service.PeriodMonthly)
	require.NoError(t, err)
	require.Len(t, rows, 1, "sales before the 1st of the month are excluded")
	assert.Equal(t, 5, rows[0].Quantity)
}

func TestReportService_SalesReport_Ordering(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	medID := e.addMedicine(t, "Napa")
	lotID := e.addLot(t, medID, 1000, "2099-01-01", 2.0, 5.0)

	today := time.Now().Format(service.DateLayout)
	yesterday := time.Now().AddDate(0, 0, -1).Format(service.DateLayout)

	for _, s := range []struct {
		date, time string
		qty        int
	}{
		{yesterday, "18:00:00", 1},
		{today, "08:15:00", 2},
		{today, "16:45:00", 3},
	} {
		require.NoError(t, e.sales.Create(ctx, &repository.Sale{
			InventoryID: lotID, Quantity: s.qty, SalePrice: 5.0,
			SaleDate: s.date, SaleTime: s.time, TotalAmount: float64(s.qty) * 5.0,
		}))
	}

	rows, err := e.reports.SalesReport(ctx, service.PeriodWeekly)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 3, rows[0].Quantity, "most recent first")
	assert.Equal(t, 2, rows[1].Quantity)
	assert.Equal(t, 1, rows[2].Quantity)
}

func TestReportService_DashboardStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	medID := e.addMedicine(t, "Paracetamol")

	e.addLot(t, medID, 100, dateIn(120), 2.0, 5.0)
	e.addLot(t, medID, 4, dateIn(120), 2.0, 5.0) // low stock
	e.addLot(t, medID, 40, dateIn(10), 2.0, 5.0) // expiring
	sellFrom := e.addLot(t, medID, 20, dateIn(120), 2.0, 5.0)

	_, err := e.seller.Sell(ctx, sellFrom, 4, "")
	require.NoError(t, err)

	stats, err := e.reports.DashboardStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.ActiveLots)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 1, stats.ExpiringCount)
	assert.Equal(t, 20.0, stats.TodaysSalesTotal)
}
