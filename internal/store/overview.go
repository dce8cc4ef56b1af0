package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/farmstead/internal/model"
)

// GetOverview computes the dashboard summary. The four aggregates are read
// concurrently; if any read fails the whole overview fails.
func GetOverview(ctx context.Context, db *sqlx.DB) (*model.Overview, error) {
	var (
		overview      model.Overview
		totalCosts    sql.NullFloat64
		stockQuantity sql.NullFloat64
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return db.GetContext(ctx, &overview.AnimalCount, `SELECT COUNT(*) FROM animals`)
	})
	g.Go(func() error {
		return db.GetContext(ctx, &overview.EventCount, `SELECT COUNT(*) FROM health_records`)
	})
	g.Go(func() error {
		return db.GetContext(ctx, &totalCosts,
			`SELECT SUM(CASE WHEN type = 'purchase' THEN quantity * cost_per_unit ELSE 0 END)
			 FROM stock_movements`)
	})
	g.Go(func() error {
		return db.GetContext(ctx, &stockQuantity, `SELECT SUM(quantity) FROM stock_movements`)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("computing overview: %w", err)
	}

	if totalCosts.Valid {
		overview.TotalCosts = &totalCosts.Float64
	}
	if stockQuantity.Valid {
		overview.StockQuantity = &stockQuantity.Float64
	}
	return &overview, nil
}
