package service

import (
	"context"
	"time"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/repository"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

// Period selects the time window of a sales report.
type Period string

// Report periods
const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// ParsePeriod maps a raw string onto a Period. The second return value
// reports whether the value was recognized.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return Period(s), true
	default:
		return Period(s), false
	}
}

// DashboardStats are the headline numbers for the overview page.
type DashboardStats struct {
	ActiveLots       int64   `json:"active_lots"`
	LowStockCount    int     `json:"low_stock_count"`
	ExpiringCount    int     `json:"expiring_count"`
	TodaysSalesTotal float64 `json:"todays_sales_total"`
}

// ReportService aggregates sale history into time-windowed reports.
type ReportService struct {
	sales  *repository.SaleRepository
	lots   *repository.LotRepository
	ledger *LedgerService
	alerts *AlertService
	logger *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(
	sales *repository.SaleRepository,
	lots *repository.LotRepository,
	ledger *LedgerService,
	alerts *AlertService,
	log *logger.Logger,
) *ReportService {
	return &ReportService{
		sales:  sales,
		lots:   lots,
		ledger: ledger,
		alerts: alerts,
		logger: log,
	}
}

// SalesReport returns the report rows for the period, most recent sale first.
// An unrecognized period yields an empty report rather than an error; callers
// wanting strictness should gate on ParsePeriod.
func (s *ReportService) SalesReport(ctx context.Context, period Period) ([]*repository.ReportRow, error) {
	boundary, ok := periodBoundary(period, today())
	if !ok {
		return []*repository.ReportRow{}, nil
	}
	return s.sales.ListSince(ctx, boundary)
}

// periodBoundary computes the inclusive lower date bound for a period:
// daily is today, weekly reaches back seven days, monthly starts at the
// first of the current month.
func periodBoundary(period Period, now time.Time) (string, bool) {
	switch period {
	case PeriodDaily:
		return now.Format(DateLayout), true
	case PeriodWeekly:
		return now.AddDate(0, 0, -7).Format(DateLayout), true
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(DateLayout), true
	default:
		return "", false
	}
}

// DashboardStats computes the overview aggregates: active lot count, lots
// currently LOW, lots expiring within the near-expiry window, and today's
// sales total.
func (s *ReportService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	activeLots, err := s.lots.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.ledger.ListActiveInventory(ctx, 0)
	if err != nil {
		return nil, err
	}
	lowStock := 0
	for _, item := range items {
		if item.Status == StatusLow {
			lowStock++
		}
	}

	expiring, err := s.alerts.ExpiringWithin(ctx, s.ledger.nearExpiryDays)
	if err != nil {
		return nil, err
	}

	todaysTotal, err := s.sales.SumTotalSince(ctx, today().Format(DateLayout))
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		ActiveLots:       activeLots,
		LowStockCount:    lowStock,
		ExpiringCount:    len(expiring),
		TodaysSalesTotal: todaysTotal,
	}, nil
}
