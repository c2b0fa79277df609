package availability

import (
	"fmt"

	"gymdesk/internal/schedule"
)

// Slot is one recurring window a trainer has declared themselves open.
type Slot struct {
	ID        int                `db:"id" json:"id"`
	TrainerID int                `db:"trainer_id" json:"trainer_id"`
	Day       schedule.Weekday   `db:"day" json:"day"`
	Start     schedule.TimeOfDay `db:"start_time" json:"start_time"`
	End       schedule.TimeOfDay `db:"end_time" json:"end_time"`
}

func (s Slot) TimeSlot() schedule.TimeSlot {
	return schedule.TimeSlot{Start: s.Start, End: s.End}
}

// ValidationError rejects an availability submission before any write.
// Second is set when two windows on the same day overlap; when nil the
// first window itself is malformed.
type ValidationError struct {
	Day    schedule.Weekday
	First  schedule.TimeSlot
	Second *schedule.TimeSlot
}

func (e *ValidationError) Error() string {
	if e.Second == nil {
		return fmt.Sprintf("invalid window for %s: %s: end time must be after start time", e.Day, e.First)
	}
	return fmt.Sprintf("overlapping windows for %s: %s conflicts with %s", e.Day, e.First, *e.Second)
}

type SetAvailabilityRequest struct {
	Slots []SlotRequest `json:"slots" binding:"required"`
}

type SlotRequest struct {
	Day       string `json:"day" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}
