package api

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/model"
	"github.com/erazemk/farmstead/internal/store"
)

// ProductsHandler handles product CRUD endpoints.
type ProductsHandler struct {
	DB *sqlx.DB
}

var productErrors = storeErrors{
	notFound: "product not found",
	conflict: "product name already exists",
}

// List handles GET /api/products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := store.ListProducts(r.Context(), h.DB)
	if err != nil {
		productErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, products)
}

// Get handles GET /api/products/{id}.
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		productErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, product)
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.Product
	if !decodeValid(w, r, &req) {
		return
	}

	product, err := store.CreateProduct(r.Context(), h.DB, req)
	if err != nil {
		productErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id}.
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.Product
	if !decodeValid(w, r, &req) {
		return
	}

	product, err := store.UpdateProduct(r.Context(), h.DB, id, req)
	if err != nil {
		productErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}. The product's stock movements
// are deleted with it.
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := store.DeleteProduct(r.Context(), h.DB, id); err != nil {
		productErrors.write(w, r, err)
		return
	}
	jsonMessage(w, "product deleted")
}
