package session

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/conflict"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionNotScheduled = errors.New("session is not scheduled")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// lockResources takes FOR UPDATE locks on the trainer and room rows,
// always in that order so concurrent bookings cannot deadlock.
// Conflict checks run inside the same transaction afterwards, fully
// serialized against every other write touching either resource.
func lockResources(ctx context.Context, tx *sqlx.Tx, trainerID, roomID int) error {
	var id int
	err := tx.GetContext(ctx, &id, `SELECT id FROM users WHERE id = $1 AND role = 'trainer' FOR UPDATE`, trainerID)
	if err == sql.ErrNoRows {
		return ErrTrainerNotFound
	}
	if err != nil {
		return err
	}

	err = tx.GetContext(ctx, &id, `SELECT id FROM rooms WHERE id = $1 FOR UPDATE`, roomID)
	if err == sql.ErrNoRows {
		return ErrRoomNotFound
	}
	return err
}

func (r *repository) BookSession(ctx context.Context, params SessionParams, check conflict.Check) (*TrainingSession, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := lockResources(ctx, tx, params.TrainerID, params.RoomID); err != nil {
		return nil, err
	}

	if check != nil {
		if err := check(ctx, tx); err != nil {
			return nil, err
		}
	}

	query := `
		INSERT INTO training_sessions (member_id, trainer_id, room_id, session_date, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'scheduled')
		RETURNING id, member_id, trainer_id, room_id, session_date, start_time, end_time, status, created_at
	`

	var ts TrainingSession
	err = tx.GetContext(ctx, &ts, query,
		params.MemberID, params.TrainerID, params.RoomID,
		params.Date, params.Slot.Start, params.Slot.End)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &ts, nil
}

func (r *repository) RescheduleSession(ctx context.Context, id, trainerID, roomID int, params RescheduleParams, check conflict.Check) (*TrainingSession, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := lockResources(ctx, tx, trainerID, roomID); err != nil {
		return nil, err
	}

	if check != nil {
		if err := check(ctx, tx); err != nil {
			return nil, err
		}
	}

	query := `
		UPDATE training_sessions
		SET session_date = $2, start_time = $3, end_time = $4
		WHERE id = $1 AND status = 'scheduled'
		RETURNING id, member_id, trainer_id, room_id, session_date, start_time, end_time, status, created_at
	`

	var ts TrainingSession
	err = tx.GetContext(ctx, &ts, query, id, params.Date, params.Slot.Start, params.Slot.End)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotScheduled
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &ts, nil
}

// CancelSession frees the slot. Only a scheduled session can move to
// canceled; the transition is terminal.
func (r *repository) CancelSession(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE training_sessions SET status = 'canceled' WHERE id = $1 AND status = 'scheduled'`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSessionNotScheduled
	}

	return nil
}

func (r *repository) GetSessionByID(ctx context.Context, id int) (*TrainingSession, error) {
	query := `
		SELECT id, member_id, trainer_id, room_id, session_date, start_time, end_time, status, created_at
		FROM training_sessions
		WHERE id = $1
	`

	var ts TrainingSession
	err := r.db.GetContext(ctx, &ts, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return &ts, nil
}

const sessionDetailsSelect = `
	SELECT
		ts.id,
		ts.member_id,
		ts.trainer_id,
		ts.room_id,
		ts.session_date,
		ts.start_time,
		ts.end_time,
		ts.status,
		ts.created_at,
		u.name AS trainer_name,
		r.name AS room_name
	FROM training_sessions ts
	JOIN users u ON ts.trainer_id = u.id
	JOIN rooms r ON ts.room_id = r.id
`

func (r *repository) ScheduledForMember(ctx context.Context, memberID int) ([]SessionWithDetails, error) {
	query := sessionDetailsSelect + `
	WHERE ts.member_id = $1 AND ts.status = 'scheduled'
	ORDER BY ts.session_date, ts.start_time
	`

	var sessions []SessionWithDetails
	if err := r.db.SelectContext(ctx, &sessions, query, memberID); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) ScheduledForTrainer(ctx context.Context, trainerID int) ([]SessionWithDetails, error) {
	query := sessionDetailsSelect + `
	WHERE ts.trainer_id = $1 AND ts.status = 'scheduled'
	ORDER BY ts.session_date, ts.start_time
	`

	var sessions []SessionWithDetails
	if err := r.db.SelectContext(ctx, &sessions, query, trainerID); err != nil {
		return nil, err
	}
	return sessions, nil
}
