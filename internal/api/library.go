package api

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/imaging"
	"github.com/erazemk/farmstead/internal/model"
	"github.com/erazemk/farmstead/internal/storage"
	"github.com/erazemk/farmstead/internal/store"
)

// DefaultMaxUploadSize is the upload limit used when none is configured.
const DefaultMaxUploadSize = 20 << 20

// uploadPrefix is the key prefix for stored library documents. Keys are
// served back under /uploads/.
const uploadPrefix = "uploads/"

// LibraryHandler handles library category and document endpoints.
type LibraryHandler struct {
	DB            *sqlx.DB
	Files         storage.Storage
	MaxUploadSize int64
}

var (
	categoryErrors = storeErrors{
		notFound: "category not found",
		conflict: "category already exists",
	}
	libraryItemErrors = storeErrors{
		notFound:     "library item not found",
		badReference: "category does not exist",
	}
)

// ListCategories handles GET /api/library/categories and its public variant.
func (h *LibraryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListLibraryCategories(r.Context(), h.DB)
	if err != nil {
		categoryErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, categories)
}

// GetCategory handles GET /api/library/categories/{id}.
func (h *LibraryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	category, err := store.GetLibraryCategory(r.Context(), h.DB, id)
	if err != nil {
		categoryErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, category)
}

// CreateCategory handles POST /api/library/categories.
func (h *LibraryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req model.LibraryCategory
	if !decodeValid(w, r, &req) {
		return
	}

	category, err := store.CreateLibraryCategory(r.Context(), h.DB, req)
	if err != nil {
		categoryErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, category)
}

// UpdateCategory handles PUT /api/library/categories/{id}.
func (h *LibraryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req model.LibraryCategory
	if !decodeValid(w, r, &req) {
		return
	}

	category, err := store.UpdateLibraryCategory(r.Context(), h.DB, id, req)
	if err != nil {
		categoryErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, category)
}

// DeleteCategory handles DELETE /api/library/categories/{id}. Documents in
// the category are kept without a category.
func (h *LibraryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := store.DeleteLibraryCategory(r.Context(), h.DB, id); err != nil {
		categoryErrors.write(w, r, err)
		return
	}
	jsonMessage(w, "category deleted")
}

// ListItems handles GET /api/library/items and its public variant.
func (h *LibraryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := queryID(w, r, "categoryId")
	if !ok {
		return
	}

	items, err := store.ListLibraryItems(r.Context(), h.DB, categoryID)
	if err != nil {
		libraryItemErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// GetItem handles GET /api/library/items/{id}.
func (h *LibraryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := store.GetLibraryItem(r.Context(), h.DB, id)
	if err != nil {
		libraryItemErrors.write(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// CreateItem handles POST /api/library/items, a multipart form with title,
// category_id and file fields. The file is stored before the row is
// inserted, and removed again if the insert fails.
func (h *LibraryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxUploadSize
	if limit <= 0 {
		limit = DefaultMaxUploadSize
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	item := model.LibraryItem{Title: r.FormValue("title")}
	if v := r.FormValue("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		item.CategoryID = &id
	}
	if !validate(w, &item) {
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	doc, err := imaging.Process(data)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid image file")
		return
	}

	ext := strings.ToLower(path.Ext(header.Filename))
	if doc.Resized {
		ext = ".jpg"
	}
	key := uploadPrefix + uuid.NewString() + ext
	mime := doc.MIME
	item.FilePath = key
	item.FileType = &mime

	if err := h.Files.Save(r.Context(), key, bytes.NewReader(doc.Data), mime); err != nil {
		slog.Error("storing upload", "key", key, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	created, err := store.CreateLibraryItem(r.Context(), h.DB, item)
	if err != nil {
		if rmErr := h.Files.Delete(r.Context(), key); rmErr != nil {
			slog.Error("removing orphaned upload", "key", key, "error", rmErr)
		}
		libraryItemErrors.write(w, r, err)
		return
	}

	slog.Info("library item uploaded", "id", created.ID, "key", key, "size", len(doc.Data), "resized", doc.Resized)
	jsonResponse(w, http.StatusCreated, created)
}

// DeleteItem handles DELETE /api/library/items/{id}. The stored file is
// removed after the row; a failure to remove it is logged only.
func (h *LibraryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	key, err := store.DeleteLibraryItem(r.Context(), h.DB, id)
	if err != nil {
		libraryItemErrors.write(w, r, err)
		return
	}

	if err := h.Files.Delete(r.Context(), key); err != nil {
		slog.Error("removing library file", "id", id, "key", key, "error", err)
	}
	jsonMessage(w, "library item deleted")
}
