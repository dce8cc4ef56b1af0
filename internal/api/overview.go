package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/store"
)

// OverviewHandler serves the dashboard summary.
type OverviewHandler struct {
	DB *sqlx.DB
}

// Get handles GET /api/overview.
func (h *OverviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	overview, err := store.GetOverview(r.Context(), h.DB)
	if err != nil {
		storeErrors{}.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, overview)
}
