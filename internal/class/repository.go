package class

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/conflict"
)

var (
	ErrClassNotFound   = errors.New("class not found")
	ErrClassFull       = errors.New("class is at full capacity")
	ErrAlreadyEnrolled = errors.New("already enrolled in this class")
	ErrNotEnrolled     = errors.New("not enrolled in this class")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// lockResources takes FOR UPDATE locks on the trainer and room rows,
// always in that order so concurrent bookings cannot deadlock. Any
// later conflict check inside the same transaction is then serialized
// against every other booking touching either resource.
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

func (r *repository) CreateClass(ctx context.Context, params ClassParams, check conflict.Check) (*GroupClass, error) {
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
		INSERT INTO group_classes (name, description, trainer_id, room_id, day, start_time, end_time, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, description, trainer_id, room_id, day, start_time, end_time, capacity, created_at
	`

	var gc GroupClass
	err = tx.GetContext(ctx, &gc, query,
		params.Name, params.Description, params.TrainerID, params.RoomID,
		string(params.Day), params.Slot.Start, params.Slot.End, params.Capacity)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &gc, nil
}

func (r *repository) UpdateClass(ctx context.Context, id int, params ClassParams, check conflict.Check) (*GroupClass, error) {
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
		UPDATE group_classes
		SET name = $2, description = $3, trainer_id = $4, room_id = $5,
		    day = $6, start_time = $7, end_time = $8, capacity = $9
		WHERE id = $1
		RETURNING id, name, description, trainer_id, room_id, day, start_time, end_time, capacity, created_at
	`

	var gc GroupClass
	err = tx.GetContext(ctx, &gc, query, id,
		params.Name, params.Description, params.TrainerID, params.RoomID,
		string(params.Day), params.Slot.Start, params.Slot.End, params.Capacity)
	if err == sql.ErrNoRows {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &gc, nil
}

// DeleteClass removes the class; enrollments cascade at the schema
// level.
func (r *repository) DeleteClass(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM group_classes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrClassNotFound
	}

	return nil
}

func (r *repository) GetClassByID(ctx context.Context, id int) (*GroupClass, error) {
	query := `
		SELECT id, name, description, trainer_id, room_id, day, start_time, end_time, capacity, created_at
		FROM group_classes
		WHERE id = $1
	`

	var gc GroupClass
	err := r.db.GetContext(ctx, &gc, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}

	return &gc, nil
}

const classDetailsSelect = `
	SELECT
		gc.id,
		gc.name,
		gc.description,
		gc.trainer_id,
		gc.room_id,
		gc.day,
		gc.start_time,
		gc.end_time,
		gc.capacity,
		gc.created_at,
		u.name AS trainer_name,
		r.name AS room_name,
		(SELECT COUNT(*) FROM class_enrollments ce WHERE ce.class_id = gc.id) AS enrolled_count
	FROM group_classes gc
	JOIN users u ON gc.trainer_id = u.id
	JOIN rooms r ON gc.room_id = r.id
`

const classDayOrder = `
	ORDER BY
		CASE gc.day
			WHEN 'Monday' THEN 1
			WHEN 'Tuesday' THEN 2
			WHEN 'Wednesday' THEN 3
			WHEN 'Thursday' THEN 4
			WHEN 'Friday' THEN 5
			WHEN 'Saturday' THEN 6
			WHEN 'Sunday' THEN 7
		END,
		gc.start_time
`

func (r *repository) GetAllClasses(ctx context.Context) ([]ClassWithDetails, error) {
	var classes []ClassWithDetails
	if err := r.db.SelectContext(ctx, &classes, classDetailsSelect+classDayOrder); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *repository) GetClassesForMember(ctx context.Context, memberID int) ([]ClassWithDetails, error) {
	query := classDetailsSelect + `
	WHERE gc.id IN (SELECT class_id FROM class_enrollments WHERE member_id = $1)
	` + classDayOrder

	var classes []ClassWithDetails
	if err := r.db.SelectContext(ctx, &classes, query, memberID); err != nil {
		return nil, err
	}
	return classes, nil
}

// TryEnroll is the capacity guard. The class row lock serializes the
// count-check-insert sequence per class, so with capacity N and any
// number of concurrent callers exactly N can ever hold seats. The
// check admits while count < capacity: the last seat is fillable.
func (r *repository) TryEnroll(ctx context.Context, classID, memberID int) (*Enrollment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var capacity int
	err = tx.GetContext(ctx, &capacity, `SELECT capacity FROM group_classes WHERE id = $1 FOR UPDATE`, classID)
	if err == sql.ErrNoRows {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}

	var enrolled bool
	err = tx.GetContext(ctx, &enrolled,
		`SELECT EXISTS(SELECT 1 FROM class_enrollments WHERE class_id = $1 AND member_id = $2)`,
		classID, memberID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	var count int
	err = tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM class_enrollments WHERE class_id = $1`, classID)
	if err != nil {
		return nil, err
	}
	if count >= capacity {
		return nil, ErrClassFull
	}

	query := `
		INSERT INTO class_enrollments (class_id, member_id)
		VALUES ($1, $2)
		RETURNING class_id, member_id, created_at
	`

	var e Enrollment
	if err := tx.GetContext(ctx, &e, query, classID, memberID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *repository) Withdraw(ctx context.Context, classID, memberID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM class_enrollments WHERE class_id = $1 AND member_id = $2`,
		classID, memberID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotEnrolled
	}

	return nil
}

func (r *repository) CountEnrollments(ctx context.Context, classID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM class_enrollments WHERE class_id = $1`, classID)
	if err != nil {
		return 0, err
	}
	return count, nil
}
