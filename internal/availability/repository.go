package availability

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrTrainerNotFound = errors.New("trainer not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// ReplaceForTrainer swaps out the trainer's whole weekly schedule in
// one transaction. The trainer row is locked first so two concurrent
// replacements for the same trainer cannot interleave their
// delete-insert sequences.
func (r *repository) ReplaceForTrainer(ctx context.Context, trainerID int, slots []Slot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int
	err = tx.GetContext(ctx, &id, `SELECT id FROM users WHERE id = $1 AND role = 'trainer' FOR UPDATE`, trainerID)
	if err == sql.ErrNoRows {
		return ErrTrainerNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM trainer_availability WHERE trainer_id = $1`, trainerID); err != nil {
		return err
	}

	insert := `
		INSERT INTO trainer_availability (trainer_id, day, start_time, end_time)
		VALUES ($1, $2, $3, $4)
	`
	for _, slot := range slots {
		if _, err := tx.ExecContext(ctx, insert, trainerID, string(slot.Day), slot.Start, slot.End); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetForTrainer(ctx context.Context, trainerID int) ([]Slot, error) {
	query := `
		SELECT id, trainer_id, day, start_time, end_time
		FROM trainer_availability
		WHERE trainer_id = $1
		ORDER BY
			CASE day
				WHEN 'Monday' THEN 1
				WHEN 'Tuesday' THEN 2
				WHEN 'Wednesday' THEN 3
				WHEN 'Thursday' THEN 4
				WHEN 'Friday' THEN 5
				WHEN 'Saturday' THEN 6
				WHEN 'Sunday' THEN 7
			END,
			start_time
	`

	var slots []Slot
	if err := r.db.SelectContext(ctx, &slots, query, trainerID); err != nil {
		return nil, err
	}

	return slots, nil
}
