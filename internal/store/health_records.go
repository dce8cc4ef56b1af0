package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/farmstead/internal/model"
)

const healthRecordColumns = `id, animal_id, date, status, medications, observations`

// ListHealthRecords returns an animal's health records, newest first.
func ListHealthRecords(ctx context.Context, db *sqlx.DB, animalID int64) ([]model.HealthRecord, error) {
	records, err := list[model.HealthRecord](ctx, db,
		`SELECT `+healthRecordColumns+` FROM health_records
		 WHERE animal_id = ? ORDER BY date DESC, id DESC`, animalID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing health records: %w", err)
	}
	return records, nil
}

// GetHealthRecord returns a health record by ID.
func GetHealthRecord(ctx context.Context, db *sqlx.DB, id int64) (*model.HealthRecord, error) {
	h, err := get[model.HealthRecord](ctx, db,
		`SELECT `+healthRecordColumns+` FROM health_records WHERE id = ?`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("getting health record: %w", err)
	}
	return h, nil
}

// CreateHealthRecord adds a record to an animal. An unknown animal yields
// ErrInvalidReference.
func CreateHealthRecord(ctx context.Context, db *sqlx.DB, animalID int64, h model.HealthRecord) (*model.HealthRecord, error) {
	id, err := insert(ctx, db,
		`INSERT INTO health_records (animal_id, date, status, medications, observations)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		animalID, h.Date, h.Status, h.Medications, h.Observations,
	)
	if err != nil {
		return nil, fmt.Errorf("creating health record: %w", err)
	}
	return GetHealthRecord(ctx, db, id)
}

// UpdateHealthRecord replaces a record's fields. The owning animal is kept.
func UpdateHealthRecord(ctx context.Context, db *sqlx.DB, id int64, h model.HealthRecord) (*model.HealthRecord, error) {
	err := execOne(ctx, db,
		`UPDATE health_records SET date = ?, status = ?, medications = ?, observations = ?
		 WHERE id = ?`,
		h.Date, h.Status, h.Medications, h.Observations, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating health record: %w", err)
	}
	return GetHealthRecord(ctx, db, id)
}

// DeleteHealthRecord deletes a health record.
func DeleteHealthRecord(ctx context.Context, db *sqlx.DB, id int64) error {
	if err := execOne(ctx, db, `DELETE FROM health_records WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting health record: %w", err)
	}
	return nil
}
