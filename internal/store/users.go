package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/model"
)

const userColumns = `id, username, password_hash, created_at`

// CreateUser creates a new user. An existing username yields ErrConflict.
func CreateUser(ctx context.Context, db *sqlx.DB, username, passwordHash string) (*model.User, error) {
	id, err := insert(ctx, db,
		`INSERT INTO users (username, password_hash) VALUES (?, ?) RETURNING id`,
		username, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sqlx.DB, id int64) (*model.User, error) {
	u, err := get[model.User](ctx, db,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username.
func GetUserByUsername(ctx context.Context, db *sqlx.DB, username string) (*model.User, error) {
	u, err := get[model.User](ctx, db,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username,
	)
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

// UsernameExists reports whether a user with the given username is registered.
func UsernameExists(ctx context.Context, db *sqlx.DB, username string) (bool, error) {
	var count int
	err := db.GetContext(ctx, &count,
		db.Rebind(`SELECT COUNT(*) FROM users WHERE username = ?`), username,
	)
	if err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	return count > 0, nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sqlx.DB, id int64, passwordHash string) error {
	err := execOne(ctx, db,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}
