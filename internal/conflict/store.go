package conflict

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/schedule"
)

// sqlStore reads booking snapshots from postgres. It accepts any
// sqlx executor so the same queries run against the plain pool for
// advisory reads and against an open transaction for the locked
// check-then-book sequence.
type sqlStore struct {
	db sqlx.ExtContext
}

func NewStore(db sqlx.ExtContext) Store {
	return &sqlStore{db: db}
}

type bookingRow struct {
	ID    int               `db:"id"`
	Start schedule.TimeOfDay `db:"start_time"`
	End   schedule.TimeOfDay `db:"end_time"`
}

func toBookings(kind Kind, rows []bookingRow) []Booking {
	out := make([]Booking, 0, len(rows))
	for _, r := range rows {
		out = append(out, Booking{
			Kind: kind,
			ID:   r.ID,
			Slot: schedule.TimeSlot{Start: r.Start, End: r.End},
		})
	}
	return out
}

func (s *sqlStore) classesBy(ctx context.Context, column string, id int, day schedule.Weekday) ([]Booking, error) {
	query := `
		SELECT id, start_time, end_time
		FROM group_classes
		WHERE ` + column + ` = $1 AND day = $2
	`

	var rows []bookingRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, id, string(day)); err != nil {
		return nil, err
	}

	return toBookings(KindClass, rows), nil
}

func (s *sqlStore) sessionsBy(ctx context.Context, column string, id int, day schedule.Weekday, date *time.Time) ([]Booking, error) {
	var (
		query string
		arg   interface{}
	)
	if date != nil {
		query = `
			SELECT id, start_time, end_time
			FROM training_sessions
			WHERE ` + column + ` = $1 AND session_date = $2 AND status = 'scheduled'
		`
		arg = *date
	} else {
		query = `
			SELECT id, start_time, end_time
			FROM training_sessions
			WHERE ` + column + ` = $1 AND EXTRACT(DOW FROM session_date) = $2 AND status = 'scheduled'
		`
		arg = day.DOW()
	}

	var rows []bookingRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, id, arg); err != nil {
		return nil, err
	}

	return toBookings(KindSession, rows), nil
}

func (s *sqlStore) ClassesForTrainer(ctx context.Context, trainerID int, day schedule.Weekday) ([]Booking, error) {
	return s.classesBy(ctx, "trainer_id", trainerID, day)
}

func (s *sqlStore) ClassesForRoom(ctx context.Context, roomID int, day schedule.Weekday) ([]Booking, error) {
	return s.classesBy(ctx, "room_id", roomID, day)
}

func (s *sqlStore) SessionsForTrainer(ctx context.Context, trainerID int, day schedule.Weekday, date *time.Time) ([]Booking, error) {
	return s.sessionsBy(ctx, "trainer_id", trainerID, day, date)
}

func (s *sqlStore) SessionsForRoom(ctx context.Context, roomID int, day schedule.Weekday, date *time.Time) ([]Booking, error) {
	return s.sessionsBy(ctx, "room_id", roomID, day, date)
}
