package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/farmstead/internal/model"
	"github.com/erazemk/farmstead/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// jsonMessage writes a JSON confirmation message.
func jsonMessage(w http.ResponseWriter, message string) {
	jsonResponse(w, http.StatusOK, map[string]string{"message": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

type validator interface {
	Validate() error
}

// decodeValid decodes and validates a request body, writing a 400 response
// on failure. It reports whether the handler should continue.
func decodeValid(w http.ResponseWriter, r *http.Request, target validator) bool {
	if err := decodeJSON(r, target); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return validate(w, target)
}

// validate writes a 400 response if v is invalid.
func validate(w http.ResponseWriter, v validator) bool {
	err := v.Validate()
	if err == nil {
		return true
	}
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		jsonError(w, http.StatusBadRequest, ve.Message)
	} else {
		jsonError(w, http.StatusBadRequest, err.Error())
	}
	return false
}

// pathID parses the named path value as a positive id, writing a 400
// response if it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryID parses an optional id query parameter. A missing parameter yields
// nil; a malformed one writes a 400 response.
func queryID(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, http.StatusBadRequest, "invalid "+name)
		return nil, false
	}
	return &id, true
}

// storeErrors holds the client-facing messages for a resource's store errors.
type storeErrors struct {
	notFound     string
	conflict     string
	badReference string
}

// write maps a store error to a response. Unclassified errors are logged and
// reported as a generic database error.
func (m storeErrors) write(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, m.notFound)
	case errors.Is(err, store.ErrConflict):
		jsonError(w, http.StatusConflict, orDefault(m.conflict, "already exists"))
	case errors.Is(err, store.ErrInvalidReference):
		jsonError(w, http.StatusBadRequest, orDefault(m.badReference, "referenced record does not exist"))
	default:
		slog.Error("database error", "method", r.Method, "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusInternalServerError, "database error")
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
