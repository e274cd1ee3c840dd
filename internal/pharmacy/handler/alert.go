package handler

import (
	"net/http"
	"strconv"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/service"
	"github.com/pharmstock/pharmstock-backend/pkg/errors"
	"github.com/pharmstock/pharmstock-backend/pkg/httputil"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

// AlertHandler handles expiry alert endpoints
type AlertHandler struct {
	alerts *service.AlertService
	logger *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(alerts *service.AlertService, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		alerts: alerts,
		logger: log,
	}
}

// Expiring lists lots expiring within ?days= (default 30), soonest first
func (h *AlertHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days := service.DefaultNearExpiryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.Error(w, errors.InvalidInput("days must be an integer"))
			return
		}
		days = parsed
	}

	alerts, err := h.alerts.ExpiringWithin(r.Context(), days)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, alerts)
}
