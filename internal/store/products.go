package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/model"
)

const productColumns = `id, name, description, unit`

// ListProducts returns all products ordered by name.
func ListProducts(ctx context.Context, db *sqlx.DB) ([]model.Product, error) {
	products, err := list[model.Product](ctx, db, `SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// GetProduct returns a product by ID.
func GetProduct(ctx context.Context, db *sqlx.DB, id int64) (*model.Product, error) {
	p, err := get[model.Product](ctx, db, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// CreateProduct creates a product. A taken name yields ErrConflict.
func CreateProduct(ctx context.Context, db *sqlx.DB, p model.Product) (*model.Product, error) {
	id, err := insert(ctx, db,
		`INSERT INTO products (name, description, unit) VALUES (?, ?, ?) RETURNING id`,
		p.Name, p.Description, p.Unit,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}
	return GetProduct(ctx, db, id)
}

// UpdateProduct replaces a product's fields.
func UpdateProduct(ctx context.Context, db *sqlx.DB, id int64, p model.Product) (*model.Product, error) {
	err := execOne(ctx, db,
		`UPDATE products SET name = ?, description = ?, unit = ? WHERE id = ?`,
		p.Name, p.Description, p.Unit, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating product: %w", err)
	}
	return GetProduct(ctx, db, id)
}

// DeleteProduct deletes a product together with its stock movements.
func DeleteProduct(ctx context.Context, db *sqlx.DB, id int64) error {
	if err := execOne(ctx, db, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	return nil
}
