package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Queries are written with ? placeholders and rebound for the connected
// driver, so the same SQL runs on SQLite and Postgres.

// insert runs an INSERT ... RETURNING id statement and returns the new id.
func insert(ctx context.Context, db *sqlx.DB, query string, args ...any) (int64, error) {
	var id int64
	if err := db.QueryRowxContext(ctx, db.Rebind(query), args...).Scan(&id); err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// execOne runs an UPDATE or DELETE that must affect a row.
// Affecting none yields ErrNotFound.
func execOne(ctx context.Context, db *sqlx.DB, query string, args ...any) error {
	result, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return classify(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// get scans a single row into a T. A missing row yields ErrNotFound.
func get[T any](ctx context.Context, db *sqlx.DB, query string, args ...any) (*T, error) {
	var v T
	err := db.GetContext(ctx, &v, db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// list scans all rows into a non-nil slice of T.
func list[T any](ctx context.Context, db *sqlx.DB, query string, args ...any) ([]T, error) {
	rows := []T{}
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}
