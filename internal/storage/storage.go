// Package storage keeps uploaded library documents. Files are addressed by
// the key recorded as a library item's file_path, e.g. "uploads/<uuid>.pdf".
package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// ErrInvalidKey is returned for keys that would escape the storage root.
var ErrInvalidKey = errors.New("invalid storage key")

// Storage defines the file storage operations used by the API.
type Storage interface {
	// Save stores the contents of r under key.
	Save(ctx context.Context, key string, r io.Reader, contentType string) error

	// Delete removes the file stored under key.
	Delete(ctx context.Context, key string) error

	// ServeHTTP serves GET requests whose URL path is "/" + key.
	http.Handler
}

func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || !filepath.IsLocal(filepath.FromSlash(key)) {
		return ErrInvalidKey
	}
	return nil
}
