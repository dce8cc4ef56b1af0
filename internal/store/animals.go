package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/model"
)

const animalColumns = `id, name, tag_number, species`

// ListAnimals returns all animals ordered by name.
func ListAnimals(ctx context.Context, db *sqlx.DB) ([]model.Animal, error) {
	animals, err := list[model.Animal](ctx, db,
		`SELECT `+animalColumns+` FROM animals ORDER BY name, tag_number`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing animals: %w", err)
	}
	return animals, nil
}

// GetAnimal returns an animal by ID.
func GetAnimal(ctx context.Context, db *sqlx.DB, id int64) (*model.Animal, error) {
	a, err := get[model.Animal](ctx, db, `SELECT `+animalColumns+` FROM animals WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("getting animal: %w", err)
	}
	return a, nil
}

// CreateAnimal creates a new animal. A taken tag number yields ErrConflict.
func CreateAnimal(ctx context.Context, db *sqlx.DB, a model.Animal) (*model.Animal, error) {
	id, err := insert(ctx, db,
		`INSERT INTO animals (name, tag_number, species) VALUES (?, ?, ?) RETURNING id`,
		a.Name, a.TagNumber, a.Species,
	)
	if err != nil {
		return nil, fmt.Errorf("creating animal: %w", err)
	}
	return GetAnimal(ctx, db, id)
}

// UpdateAnimal replaces an animal's fields. A tag number held by another
// animal yields ErrConflict.
func UpdateAnimal(ctx context.Context, db *sqlx.DB, id int64, a model.Animal) (*model.Animal, error) {
	err := execOne(ctx, db,
		`UPDATE animals SET name = ?, tag_number = ?, species = ? WHERE id = ?`,
		a.Name, a.TagNumber, a.Species, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating animal: %w", err)
	}
	return GetAnimal(ctx, db, id)
}

// DeleteAnimal deletes an animal. Its health records are removed by the
// foreign key cascade.
func DeleteAnimal(ctx context.Context, db *sqlx.DB, id int64) error {
	if err := execOne(ctx, db, `DELETE FROM animals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting animal: %w", err)
	}
	return nil
}
