package conflict

import (
	"context"
	"fmt"
	"time"

	"gymdesk/internal/schedule"
)

// Kind identifies which scheduling domain a booking belongs to.
type Kind string

const (
	KindClass   Kind = "class"
	KindSession Kind = "session"
)

// Ref identifies a single booking, used to exclude a booking from its
// own conflict check during edit and reschedule flows.
type Ref struct {
	Kind Kind
	ID   int
}

// Booking is the snapshot of an existing booking the resolver decides
// against. The resolver never owns or mutates bookings.
type Booking struct {
	Kind Kind              `db:"-"`
	ID   int               `db:"id"`
	Slot schedule.TimeSlot `db:"-"`
}

// Error reports that a candidate slot collides with an existing
// booking on the same resource.
type Error struct {
	Resource string
	With     Booking
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s already booked: conflicts with %s %d at %s", e.Resource, e.With.Kind, e.With.ID, e.With.Slot)
}

// Candidate is the slot a caller wants to book. Date is set for
// training sessions; weekday-only candidates come from group class
// create/edit. Day is always populated (via schedule.WeekdayOf when a
// date is given).
type Candidate struct {
	Date *time.Time
	Day  schedule.Weekday
	Slot schedule.TimeSlot
}

// NewDatedCandidate builds a candidate for a specific calendar date.
func NewDatedCandidate(date time.Time, slot schedule.TimeSlot) Candidate {
	return Candidate{Date: &date, Day: schedule.WeekdayOf(date), Slot: slot}
}

// NewWeeklyCandidate builds a candidate recurring on a weekday.
func NewWeeklyCandidate(day schedule.Weekday, slot schedule.TimeSlot) Candidate {
	return Candidate{Day: day, Slot: slot}
}

// FirstConflict returns the first existing booking whose slot overlaps
// the candidate, skipping the excluded booking if any. Nil means free.
func FirstConflict(existing []Booking, candidate schedule.TimeSlot, exclude *Ref) *Booking {
	for i := range existing {
		b := existing[i]
		if exclude != nil && b.Kind == exclude.Kind && b.ID == exclude.ID {
			continue
		}
		if b.Slot.Overlaps(candidate) {
			return &b
		}
	}
	return nil
}

// IsFree reports whether no existing booking overlaps the candidate.
func IsFree(existing []Booking, candidate schedule.TimeSlot, exclude *Ref) bool {
	return FirstConflict(existing, candidate, exclude) == nil
}

// Store supplies active-booking snapshots for a resource. Group
// classes recur weekly, so they are always matched by weekday.
// Sessions are matched by exact date when the candidate has one, and
// by weekday otherwise (a weekly class must dodge every session that
// lands on its day).
type Store interface {
	ClassesForTrainer(ctx context.Context, trainerID int, day schedule.Weekday) ([]Booking, error)
	ClassesForRoom(ctx context.Context, roomID int, day schedule.Weekday) ([]Booking, error)
	SessionsForTrainer(ctx context.Context, trainerID int, day schedule.Weekday, date *time.Time) ([]Booking, error)
	SessionsForRoom(ctx context.Context, roomID int, day schedule.Weekday, date *time.Time) ([]Booking, error)
}

// Resolver answers "is this resource free for this slot" over
// snapshots read from a Store. It holds no state of its own, so a
// single resolver is safe for concurrent use; callers that need the
// answer to stay true until they commit must run it against a Store
// bound to a transaction holding the resource locks.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) trainerBookings(ctx context.Context, trainerID int, cand Candidate) ([]Booking, error) {
	classes, err := r.store.ClassesForTrainer(ctx, trainerID, cand.Day)
	if err != nil {
		return nil, err
	}
	sessions, err := r.store.SessionsForTrainer(ctx, trainerID, cand.Day, cand.Date)
	if err != nil {
		return nil, err
	}
	return append(classes, sessions...), nil
}

func (r *Resolver) roomBookings(ctx context.Context, roomID int, cand Candidate) ([]Booking, error) {
	classes, err := r.store.ClassesForRoom(ctx, roomID, cand.Day)
	if err != nil {
		return nil, err
	}
	sessions, err := r.store.SessionsForRoom(ctx, roomID, cand.Day, cand.Date)
	if err != nil {
		return nil, err
	}
	return append(classes, sessions...), nil
}

// CheckTrainer returns a *Error if the trainer has a colliding
// booking, nil if free.
func (r *Resolver) CheckTrainer(ctx context.Context, trainerID int, cand Candidate, exclude *Ref) error {
	bookings, err := r.trainerBookings(ctx, trainerID, cand)
	if err != nil {
		return err
	}
	if hit := FirstConflict(bookings, cand.Slot, exclude); hit != nil {
		return &Error{Resource: "trainer", With: *hit}
	}
	return nil
}

// CheckRoom returns a *Error if the room has a colliding booking,
// nil if free.
func (r *Resolver) CheckRoom(ctx context.Context, roomID int, cand Candidate, exclude *Ref) error {
	bookings, err := r.roomBookings(ctx, roomID, cand)
	if err != nil {
		return err
	}
	if hit := FirstConflict(bookings, cand.Slot, exclude); hit != nil {
		return &Error{Resource: "room", With: *hit}
	}
	return nil
}

// TrainerFree is the boolean form of CheckTrainer.
func (r *Resolver) TrainerFree(ctx context.Context, trainerID int, cand Candidate, exclude *Ref) (bool, error) {
	err := r.CheckTrainer(ctx, trainerID, cand, exclude)
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*Error); ok {
		return false, nil
	}
	return false, err
}

// RoomFree is the boolean form of CheckRoom.
func (r *Resolver) RoomFree(ctx context.Context, roomID int, cand Candidate, exclude *Ref) (bool, error) {
	err := r.CheckRoom(ctx, roomID, cand, exclude)
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*Error); ok {
		return false, nil
	}
	return false, err
}
