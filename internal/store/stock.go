package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/model"
)

const movementSelect = `
	SELECT sm.id, sm.product_id, sm.quantity, sm.movement_date, sm.type, sm.cost_per_unit,
	       p.name AS product_name, p.unit
	FROM stock_movements sm
	JOIN products p ON p.id = sm.product_id`

// ListStockMovements returns the ledger, newest first, optionally for a
// single product.
func ListStockMovements(ctx context.Context, db *sqlx.DB, productID *int64) ([]model.StockMovement, error) {
	var (
		movements []model.StockMovement
		err       error
	)
	if productID != nil {
		movements, err = list[model.StockMovement](ctx, db,
			movementSelect+` WHERE sm.product_id = ? ORDER BY sm.movement_date DESC, sm.id DESC`, *productID,
		)
	} else {
		movements, err = list[model.StockMovement](ctx, db,
			movementSelect+` ORDER BY sm.movement_date DESC, sm.id DESC`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing stock movements: %w", err)
	}
	return movements, nil
}

// GetStockMovement returns a movement by ID.
func GetStockMovement(ctx context.Context, db *sqlx.DB, id int64) (*model.StockMovement, error) {
	m, err := get[model.StockMovement](ctx, db, movementSelect+` WHERE sm.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting stock movement: %w", err)
	}
	return m, nil
}

// CreateStockMovement appends a movement to the ledger. The quantity sign is
// normalized for the movement type before it is stored. An unknown product
// yields ErrInvalidReference.
func CreateStockMovement(ctx context.Context, db *sqlx.DB, m model.StockMovement) (*model.StockMovement, error) {
	m.Normalize()

	id, err := insert(ctx, db,
		`INSERT INTO stock_movements (product_id, quantity, movement_date, type, cost_per_unit)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		m.ProductID, m.Quantity, m.MovementDate, m.Type, m.CostPerUnit,
	)
	if err != nil {
		return nil, fmt.Errorf("recording stock movement: %w", err)
	}
	return GetStockMovement(ctx, db, id)
}

// DeleteStockMovement removes a movement from the ledger.
func DeleteStockMovement(ctx context.Context, db *sqlx.DB, id int64) error {
	if err := execOne(ctx, db, `DELETE FROM stock_movements WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting stock movement: %w", err)
	}
	return nil
}

const stockLevelSelect = `
	SELECT p.id, p.name, p.unit, COALESCE(SUM(sm.quantity), 0.0) AS current_stock
	FROM products p
	LEFT JOIN stock_movements sm ON sm.product_id = p.id`

// ListStockLevels returns the current stock of every product.
func ListStockLevels(ctx context.Context, db *sqlx.DB) ([]model.StockLevel, error) {
	levels, err := list[model.StockLevel](ctx, db,
		stockLevelSelect+` GROUP BY p.id, p.name, p.unit ORDER BY p.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stock levels: %w", err)
	}
	return levels, nil
}

// GetStockLevel returns the current stock of one product.
func GetStockLevel(ctx context.Context, db *sqlx.DB, productID int64) (*model.StockLevel, error) {
	level, err := get[model.StockLevel](ctx, db,
		stockLevelSelect+` WHERE p.id = ? GROUP BY p.id, p.name, p.unit`, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("getting stock level: %w", err)
	}
	return level, nil
}
