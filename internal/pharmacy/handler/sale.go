package handler

import (
	"net/http"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/service"
	"github.com/pharmstock/pharmstock-backend/pkg/httputil"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

// SaleHandler handles point-of-sale endpoints
type SaleHandler struct {
	sales  *service.SalesService
	logger *logger.Logger
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(sales *service.SalesService, log *logger.Logger) *SaleHandler {
	return &SaleHandler{
		sales:  sales,
		logger: log,
	}
}

type sellRequest struct {
	LotID        int64  `json:"lot_id" validate:"required"`
	Quantity     int    `json:"quantity" validate:"required"`
	CustomerName string `json:"customer_name"`
}

// Sell executes a sale against a lot
func (h *SaleHandler) Sell(w http.ResponseWriter, r *http.Request) {
	var req sellRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.sales.Sell(r.Context(), req.LotID, req.Quantity, req.CustomerName)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, result)
}
