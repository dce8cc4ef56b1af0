package api

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/time/rate"

	"github.com/erazemk/farmstead/internal/auth"
	"github.com/erazemk/farmstead/internal/storage"
)

// Options holds the dependencies of the API router.
type Options struct {
	DB          *sqlx.DB
	JWTSecret   string
	TokenExpiry time.Duration
	Files       storage.Storage

	// AuthRateLimit is the number of register/login requests allowed per
	// client IP per second. Zero disables limiting.
	AuthRateLimit rate.Limit
	AuthRateBurst int

	MaxUploadSize int64
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(opts Options) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Service: &auth.Service{
		DB:     opts.DB,
		Secret: opts.JWTSecret,
		Expiry: opts.TokenExpiry,
	}}
	cutsHandler := &CutsHandler{DB: opts.DB}
	animalsHandler := &AnimalsHandler{DB: opts.DB}
	healthHandler := &HealthRecordsHandler{DB: opts.DB}
	libraryHandler := &LibraryHandler{DB: opts.DB, Files: opts.Files, MaxUploadSize: opts.MaxUploadSize}
	productsHandler := &ProductsHandler{DB: opts.DB}
	stockHandler := &StockHandler{DB: opts.DB}
	overviewHandler := &OverviewHandler{DB: opts.DB}

	authMW := AuthMiddleware(opts.JWTSecret)
	protect := func(h http.HandlerFunc) http.Handler { return authMW(h) }

	limit := func(h http.HandlerFunc) http.Handler { return h }
	if opts.AuthRateLimit > 0 {
		limiter := NewRateLimiter(opts.AuthRateLimit, opts.AuthRateBurst)
		limit = func(h http.HandlerFunc) http.Handler { return limiter.Middleware(h) }
	}

	// Public: register and login, rate limited.
	mux.Handle("POST /api/auth/register", limit(authHandler.Register))
	mux.Handle("POST /api/auth/login", limit(authHandler.Login))

	mux.Handle("GET /api/auth/me", protect(authHandler.Me))
	mux.Handle("PUT /api/auth/password", protect(authHandler.ChangePassword))

	// Cuts: read public, write authenticated.
	mux.HandleFunc("GET /api/cuts", cutsHandler.List)
	mux.HandleFunc("GET /api/cuts/{id}", cutsHandler.Get)
	mux.Handle("POST /api/cuts", protect(cutsHandler.Create))
	mux.Handle("PUT /api/cuts/{id}", protect(cutsHandler.Update))
	mux.Handle("DELETE /api/cuts/{id}", protect(cutsHandler.Delete))

	// Animals.
	mux.Handle("GET /api/animals", protect(animalsHandler.List))
	mux.Handle("POST /api/animals", protect(animalsHandler.Create))
	mux.Handle("GET /api/animals/{id}", protect(animalsHandler.Get))
	mux.Handle("PUT /api/animals/{id}", protect(animalsHandler.Update))
	mux.Handle("DELETE /api/animals/{id}", protect(animalsHandler.Delete))

	// Health records: listed and created per animal, edited per record.
	mux.Handle("GET /api/health-records/{animalID}", protect(healthHandler.List))
	mux.Handle("GET /api/health-records/animal/{animalID}", protect(healthHandler.List))
	mux.Handle("POST /api/health-records/{animalID}", protect(healthHandler.Create))
	mux.Handle("PUT /api/health-records/{recordID}", protect(healthHandler.Update))
	mux.Handle("DELETE /api/health-records/{recordID}", protect(healthHandler.Delete))

	// Library.
	mux.Handle("GET /api/library/categories", protect(libraryHandler.ListCategories))
	mux.Handle("POST /api/library/categories", protect(libraryHandler.CreateCategory))
	mux.Handle("GET /api/library/categories/{id}", protect(libraryHandler.GetCategory))
	mux.Handle("PUT /api/library/categories/{id}", protect(libraryHandler.UpdateCategory))
	mux.Handle("DELETE /api/library/categories/{id}", protect(libraryHandler.DeleteCategory))
	mux.Handle("GET /api/library/items", protect(libraryHandler.ListItems))
	mux.Handle("POST /api/library/items", protect(libraryHandler.CreateItem))
	mux.Handle("GET /api/library/items/{id}", protect(libraryHandler.GetItem))
	mux.Handle("DELETE /api/library/items/{id}", protect(libraryHandler.DeleteItem))

	mux.HandleFunc("GET /api/public/library/categories", libraryHandler.ListCategories)
	mux.HandleFunc("GET /api/public/library/items", libraryHandler.ListItems)

	// Products and stock.
	mux.Handle("GET /api/products", protect(productsHandler.List))
	mux.Handle("POST /api/products", protect(productsHandler.Create))
	mux.Handle("GET /api/products/{id}", protect(productsHandler.Get))
	mux.Handle("PUT /api/products/{id}", protect(productsHandler.Update))
	mux.Handle("DELETE /api/products/{id}", protect(productsHandler.Delete))

	mux.Handle("GET /api/stock", protect(stockHandler.Levels))
	mux.Handle("GET /api/stock/{productID}", protect(stockHandler.Level))
	mux.Handle("GET /api/stock/movements", protect(stockHandler.ListMovements))
	mux.Handle("POST /api/stock/movements", protect(stockHandler.CreateMovement))
	mux.Handle("DELETE /api/stock/movements/{id}", protect(stockHandler.DeleteMovement))

	mux.Handle("GET /api/overview", protect(overviewHandler.Get))

	// Uploaded documents, public.
	if opts.Files != nil {
		mux.Handle("GET /uploads/", opts.Files)
	}

	return mux
}
