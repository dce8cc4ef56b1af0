package api

import (
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/model"
	"github.com/erazemk/farmstead/internal/store"
)

// HealthRecordsHandler handles health record endpoints.
type HealthRecordsHandler struct {
	DB *sqlx.DB
}

var healthRecordErrors = storeErrors{notFound: "health record not found"}

// List handles GET /api/health-records/{animalID}.
func (h *HealthRecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	animalID, ok := pathID(w, r, "animalID")
	if !ok {
		return
	}

	records, err := store.ListHealthRecords(r.Context(), h.DB, animalID)
	if err != nil {
		healthRecordErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, records)
}

// Create handles POST /api/health-records/{animalID}.
func (h *HealthRecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	animalID, ok := pathID(w, r, "animalID")
	if !ok {
		return
	}

	var req model.HealthRecord
	if !decodeValid(w, r, &req) {
		return
	}

	record, err := store.CreateHealthRecord(r.Context(), h.DB, animalID, req)
	if errors.Is(err, store.ErrInvalidReference) {
		// The parent is named in the path.
		jsonError(w, http.StatusNotFound, "animal not found")
		return
	}
	if err != nil {
		healthRecordErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, record)
}

// Update handles PUT /api/health-records/{recordID}.
func (h *HealthRecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	var req model.HealthRecord
	if !decodeValid(w, r, &req) {
		return
	}

	record, err := store.UpdateHealthRecord(r.Context(), h.DB, id, req)
	if err != nil {
		healthRecordErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, record)
}

// Delete handles DELETE /api/health-records/{recordID}.
func (h *HealthRecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "recordID")
	if !ok {
		return
	}

	if err := store.DeleteHealthRecord(r.Context(), h.DB, id); err != nil {
		healthRecordErrors.write(w, r, err)
		return
	}
	jsonMessage(w, "health record deleted")
}
