package handler

import (
	"net/http"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/service"
	"github.com/pharmstock/pharmstock-backend/pkg/httputil"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

// ReportHandler handles sales report and dashboard endpoints
type ReportHandler struct {
	reports *service.ReportService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  log,
	}
}

// Sales returns the time-windowed sales report (?period=daily|weekly|monthly,
// default daily). An unrecognized period yields an empty report.
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		raw = string(service.PeriodDaily)
	}

	period, ok := service.ParsePeriod(raw)
	if !ok {
		h.logger.Warn().Str("period", raw).Msg("unrecognized report period")
	}

	rows, err := h.reports.SalesReport(r.Context(), period)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, rows)
}

// DashboardStats returns the overview aggregates
func (h *ReportHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.DashboardStats(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, stats)
}
