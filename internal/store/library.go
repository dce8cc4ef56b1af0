package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/model"
)

// ListLibraryCategories returns all categories ordered by name.
func ListLibraryCategories(ctx context.Context, db *sqlx.DB) ([]model.LibraryCategory, error) {
	categories, err := list[model.LibraryCategory](ctx, db,
		`SELECT id, name FROM library_categories ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing library categories: %w", err)
	}
	return categories, nil
}

// GetLibraryCategory returns a category by ID.
func GetLibraryCategory(ctx context.Context, db *sqlx.DB, id int64) (*model.LibraryCategory, error) {
	c, err := get[model.LibraryCategory](ctx, db,
		`SELECT id, name FROM library_categories WHERE id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting library category: %w", err)
	}
	return c, nil
}

// CreateLibraryCategory creates a category. A taken name yields ErrConflict.
func CreateLibraryCategory(ctx context.Context, db *sqlx.DB, c model.LibraryCategory) (*model.LibraryCategory, error) {
	id, err := insert(ctx, db,
		`INSERT INTO library_categories (name) VALUES (?) RETURNING id`, c.Name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating library category: %w", err)
	}
	return &model.LibraryCategory{ID: id, Name: c.Name}, nil
}

// UpdateLibraryCategory renames a category.
func UpdateLibraryCategory(ctx context.Context, db *sqlx.DB, id int64, c model.LibraryCategory) (*model.LibraryCategory, error) {
	err := execOne(ctx, db,
		`UPDATE library_categories SET name = ? WHERE id = ?`, c.Name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating library category: %w", err)
	}
	return &model.LibraryCategory{ID: id, Name: c.Name}, nil
}

// DeleteLibraryCategory deletes a category. Its items are kept with their
// category cleared (ON DELETE SET NULL).
func DeleteLibraryCategory(ctx context.Context, db *sqlx.DB, id int64) error {
	if err := execOne(ctx, db, `DELETE FROM library_categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting library category: %w", err)
	}
	return nil
}

const libraryItemSelect = `
	SELECT li.id, li.title, li.file_path, li.file_type, li.category_id, lc.name AS category_name
	FROM library_items li
	LEFT JOIN library_categories lc ON lc.id = li.category_id`

// ListLibraryItems returns library items ordered by title, optionally
// restricted to one category.
func ListLibraryItems(ctx context.Context, db *sqlx.DB, categoryID *int64) ([]model.LibraryItem, error) {
	var (
		items []model.LibraryItem
		err   error
	)
	if categoryID != nil {
		items, err = list[model.LibraryItem](ctx, db,
			libraryItemSelect+` WHERE li.category_id = ? ORDER BY li.title, li.id`, *categoryID,
		)
	} else {
		items, err = list[model.LibraryItem](ctx, db,
			libraryItemSelect+` ORDER BY li.title, li.id`,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("listing library items: %w", err)
	}
	return items, nil
}

// GetLibraryItem returns a library item by ID.
func GetLibraryItem(ctx context.Context, db *sqlx.DB, id int64) (*model.LibraryItem, error) {
	item, err := get[model.LibraryItem](ctx, db, libraryItemSelect+` WHERE li.id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting library item: %w", err)
	}
	return item, nil
}

// CreateLibraryItem records an uploaded document. An unknown category yields
// ErrInvalidReference.
func CreateLibraryItem(ctx context.Context, db *sqlx.DB, item model.LibraryItem) (*model.LibraryItem, error) {
	id, err := insert(ctx, db,
		`INSERT INTO library_items (title, category_id, file_path, file_type)
		 VALUES (?, ?, ?, ?) RETURNING id`,
		item.Title, item.CategoryID, item.FilePath, item.FileType,
	)
	if err != nil {
		return nil, fmt.Errorf("creating library item: %w", err)
	}
	return GetLibraryItem(ctx, db, id)
}

// DeleteLibraryItem deletes a library item and returns the file path it
// pointed to, so the caller can remove the backing file.
func DeleteLibraryItem(ctx context.Context, db *sqlx.DB, id int64) (string, error) {
	var filePath string
	err := db.QueryRowxContext(ctx,
		db.Rebind(`DELETE FROM library_items WHERE id = ? RETURNING file_path`), id,
	).Scan(&filePath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return "", fmt.Errorf("deleting library item: %w", err)
	}
	return filePath, nil
}
