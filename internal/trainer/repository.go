package trainer

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/schedule"
)

var ErrTrainerNotFound = errors.New("trainer not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAll(ctx context.Context) ([]Trainer, error) {
	query := `
		SELECT id, name
		FROM users
		WHERE role = 'trainer'
		ORDER BY name, id
	`

	var trainers []Trainer
	if err := r.db.SelectContext(ctx, &trainers, query); err != nil {
		return nil, err
	}

	return trainers, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Trainer, error) {
	query := `
		SELECT id, name
		FROM users
		WHERE id = $1 AND role = 'trainer'
	`

	var t Trainer
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *repository) WithWindowCovering(ctx context.Context, day schedule.Weekday, slot schedule.TimeSlot) ([]Trainer, error) {
	query := `
		SELECT DISTINCT u.id, u.name
		FROM users u
		INNER JOIN trainer_availability ta ON ta.trainer_id = u.id
		WHERE u.role = 'trainer'
		AND ta.day = $1
		AND ta.start_time <= $2
		AND ta.end_time >= $3
		ORDER BY u.name, u.id
	`

	var trainers []Trainer
	if err := r.db.SelectContext(ctx, &trainers, query, string(day), slot.Start, slot.End); err != nil {
		return nil, err
	}

	return trainers, nil
}
