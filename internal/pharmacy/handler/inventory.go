package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pharmstock/pharmstock-backend/internal/pharmacy/service"
	"github.com/pharmstock/pharmstock-backend/pkg/errors"
	"github.com/pharmstock/pharmstock-backend/pkg/httputil"
	"github.com/pharmstock/pharmstock-backend/pkg/logger"
)

// InventoryHandler handles lot ledger endpoints
type InventoryHandler struct {
	ledger *service.LedgerService
	logger *logger.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(ledger *service.LedgerService, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		ledger: ledger,
		logger: log,
	}
}

type addLotRequest struct {
	MedicineID    int64   `json:"medicine_id" validate:"required"`
	Quantity      int     `json:"quantity" validate:"gte=0"`
	ExpiryDate    string  `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	PurchasePrice float64 `json:"purchase_price" validate:"gte=0"`
	SellingPrice  float64 `json:"selling_price" validate:"gte=0"`
}

// AddLot records a new delivery
func (h *InventoryHandler) AddLot(w http.ResponseWriter, r *http.Request) {
	var req addLotRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	lotID, err := h.ledger.AddLot(r.Context(), req.MedicineID, req.Quantity, req.ExpiryDate, req.PurchasePrice, req.SellingPrice)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, map[string]int64{"lot_id": lotID})
}

// List returns the active inventory with status annotations. The low-stock
// threshold can be overridden with ?threshold=.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	threshold := 0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.Error(w, errors.InvalidInput("threshold must be an integer"))
			return
		}
		threshold = parsed
	}

	items, err := h.ledger.ListActiveInventory(r.Context(), threshold)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, items)
}

// Get returns one lot, sold-out lots included (they remain queryable for audit)
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, errors.InvalidInput("lot id must be an integer"))
		return
	}

	lot, err := h.ledger.GetLot(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, lot)
}
