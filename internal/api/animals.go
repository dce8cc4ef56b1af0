package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/model"
	"github.com/erazemk/farmstead/internal/store"
)

// AnimalsHandler handles animal CRUD endpoints.
type AnimalsHandler struct {
	DB *sqlx.DB
}

var animalErrors = storeErrors{
	notFound: "animal not found",
	conflict: "tag number already exists",
}

// List handles GET /api/animals.
func (h *AnimalsHandler) List(w http.ResponseWriter, r *http.Request) {
	animals, err := store.ListAnimals(r.Context(), h.DB)
	if err != nil {
		animalErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, animals)
}

// Get handles GET /api/animals/{id}.
func (h *AnimalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	animal, err := store.GetAnimal(r.Context(), h.DB, id)
	if err != nil {
		animalErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, animal)
}

// Create handles POST /api/animals.
func (h *AnimalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Animal
	if !decodeValid(w, r, &req) {
		return
	}

	animal, err := store.CreateAnimal(r.Context(), h.DB, req)
	if err != nil {
		animalErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, animal)
}

// Update handles PUT /api/animals/{id}.
func (h *AnimalsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.Animal
	if !decodeValid(w, r, &req) {
		return
	}

	animal, err := store.UpdateAnimal(r.Context(), h.DB, id, req)
	if err != nil {
		animalErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, animal)
}

// Delete handles DELETE /api/animals/{id}. The animal's health records are
// deleted with it.
func (h *AnimalsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := store.DeleteAnimal(r.Context(), h.DB, id); err != nil {
		animalErrors.write(w, r, err)
		return
	}
	jsonMessage(w, "animal deleted")
}
