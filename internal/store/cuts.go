package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/model"
)

const cutColumns = `id, name, description, nutritional_value`

// ListCuts returns all cuts ordered by name.
func ListCuts(ctx context.Context, db *sqlx.DB) ([]model.Cut, error) {
	cuts, err := list[model.Cut](ctx, db, `SELECT `+cutColumns+` FROM cuts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing cuts: %w", err)
	}
	return cuts, nil
}

// GetCut returns a cut by ID.
func GetCut(ctx context.Context, db *sqlx.DB, id int64) (*model.Cut, error) {
	c, err := get[model.Cut](ctx, db, `SELECT `+cutColumns+` FROM cuts WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting cut: %w", err)
	}
	return c, nil
}

// CreateCut creates a new cut.
func CreateCut(ctx context.Context, db *sqlx.DB, c model.Cut) (*model.Cut, error) {
	id, err := insert(ctx, db,
		`INSERT INTO cuts (name, description, nutritional_value) VALUES (?, ?, ?) RETURNING id`,
		c.Name, c.Description, c.NutritionalValue,
	)
	if err != nil {
		return nil, fmt.Errorf("creating cut: %w", err)
	}
	return GetCut(ctx, db, id)
}

// UpdateCut replaces a cut's fields.
func UpdateCut(ctx context.Context, db *sqlx.DB, id int64, c model.Cut) (*model.Cut, error) {
	err := execOne(ctx, db,
		`UPDATE cuts SET name = ?, description = ?, nutritional_value = ? WHERE id = ?`,
		c.Name, c.Description, c.NutritionalValue, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating cut: %w", err)
	}
	return GetCut(ctx, db, id)
}

// DeleteCut deletes a cut.
func DeleteCut(ctx context.Context, db *sqlx.DB, id int64) error {
	if err := execOne(ctx, db, `DELETE FROM cuts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting cut: %w", err)
	}
	return nil
}
