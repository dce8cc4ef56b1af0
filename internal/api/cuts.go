package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/model"
	"github.com/erazemk/farmstead/internal/store"
)

// CutsHandler handles meat cut endpoints.
type CutsHandler struct {
	DB *sqlx.DB
}

var cutErrors = storeErrors{notFound: "cut not found"}

// List handles GET /api/cuts.
func (h *CutsHandler) List(w http.ResponseWriter, r *http.Request) {
	cuts, err := store.ListCuts(r.Context(), h.DB)
	if err != nil {
		cutErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, cuts)
}

// Get handles GET /api/cuts/{id}.
func (h *CutsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	cut, err := store.GetCut(r.Context(), h.DB, id)
	if err != nil {
		cutErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, cut)
}

// Create handles POST /api/cuts.
func (h *CutsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Cut
	if !decodeValid(w, r, &req) {
		return
	}

	cut, err := store.CreateCut(r.Context(), h.DB, req)
	if err != nil {
		cutErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, cut)
}

// Update handles PUT /api/cuts/{id}.
func (h *CutsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.Cut
	if !decodeValid(w, r, &req) {
		return
	}

	cut, err := store.UpdateCut(r.Context(), h.DB, id, req)
	if err != nil {
		cutErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, cut)
}

// Delete handles DELETE /api/cuts/{id}.
func (h *CutsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := store.DeleteCut(r.Context(), h.DB, id); err != nil {
		cutErrors.write(w, r, err)
		return
	}
	jsonMessage(w, "cut deleted")
}
