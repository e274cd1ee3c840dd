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

// MedicineHandler handles catalog endpoints
type MedicineHandler struct {
	catalog *service.CatalogService
	logger  *logger.Logger
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(catalog *service.CatalogService, log *logger.Logger) *MedicineHandler {
	return &MedicineHandler{
		catalog: catalog,
		logger:  log,
	}
}

// Search searches the catalog by name substring (?q=). Without q the whole
// catalog is returned.
func (h *MedicineHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	medicines, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, medicines)
}

// ListRefs returns id+name pairs for selection lists
func (h *MedicineHandler) ListRefs(w http.ResponseWriter, r *http.Request) {
	refs, err := h.catalog.ListRefs(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, refs)
}

// Get returns a single medicine
func (h *MedicineHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, errors.InvalidInput("medicine id must be an integer"))
		return
	}

	medicine, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, medicine)
}
