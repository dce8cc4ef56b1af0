package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/model"
	"github.com/erazemk/farmstead/internal/store"
)

// StockHandler handles the stock ledger and stock level endpoints.
type StockHandler struct {
	DB *sqlx.DB
}

var stockErrors = storeErrors{
	notFound:     "stock movement not found",
	badReference: "product does not exist",
}

// Levels handles GET /api/stock.
func (h *StockHandler) Levels(w http.ResponseWriter, r *http.Request) {
	levels, err := store.ListStockLevels(r.Context(), h.DB)
	if err != nil {
		stockErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, levels)
}

// Level handles GET /api/stock/{productID}.
func (h *StockHandler) Level(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}

	level, err := store.GetStockLevel(r.Context(), h.DB, productID)
	if err != nil {
		productErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, level)
}

// ListMovements handles GET /api/stock/movements.
func (h *StockHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	productID, ok := queryID(w, r, "productId")
	if !ok {
		return
	}

	movements, err := store.ListStockMovements(r.Context(), h.DB, productID)
	if err != nil {
		stockErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, movements)
}

// CreateMovement handles POST /api/stock/movements.
func (h *StockHandler) CreateMovement(w http.ResponseWriter, r *http.Request) {
	var req model.StockMovement
	if !decodeValid(w, r, &req) {
		return
	}

	movement, err := store.CreateStockMovement(r.Context(), h.DB, req)
	if err != nil {
		stockErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, movement)
}

// DeleteMovement handles DELETE /api/stock/movements/{id}.
func (h *StockHandler) DeleteMovement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := store.DeleteStockMovement(r.Context(), h.DB, id); err != nil {
		stockErrors.write(w, r, err)
		return
	}
	jsonMessage(w, "stock movement deleted")
}
