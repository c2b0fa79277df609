package room

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrRoomNotFound = errors.New("room not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name string) (*Room, error) {
	query := `
		INSERT INTO rooms (name)
		VALUES ($1)
		RETURNING id, name, created_at
	`

	var room Room
	if err := r.db.GetContext(ctx, &room, query, name); err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Room, error) {
	query := `
		SELECT id, name, created_at
		FROM rooms
		ORDER BY name, id
	`

	var rooms []Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Room, error) {
	query := `
		SELECT id, name, created_at
		FROM rooms
		WHERE id = $1
	`

	var room Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRoomNotFound
	}

	return nil
}
