package session

import (
	"time"

	"gymdesk/internal/schedule"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
)

type TrainingSession struct {
	ID        int                `db:"id" json:"id"`
	MemberID  int                `db:"member_id" json:"member_id"`
	TrainerID int                `db:"trainer_id" json:"trainer_id"`
	RoomID    int                `db:"room_id" json:"room_id"`
	Date      time.Time          `db:"session_date" json:"date"`
	Start     schedule.TimeOfDay `db:"start_time" json:"start_time"`
	End       schedule.TimeOfDay `db:"end_time" json:"end_time"`
	Status    string             `db:"status" json:"status"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
}

func (s *TrainingSession) TimeSlot() schedule.TimeSlot {
	return schedule.TimeSlot{Start: s.Start, End: s.End}
}

type SessionWithDetails struct {
	TrainingSession
	TrainerName string `db:"trainer_name" json:"trainer_name"`
	RoomName    string `db:"room_name" json:"room_name"`
}

type BookSessionRequest struct {
	TrainerID int    `json:"trainer_id" binding:"required"`
	RoomID    int    `json:"room_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type RescheduleRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// SessionParams is the validated write-side shape of a new session.
type SessionParams struct {
	MemberID  int
	TrainerID int
	RoomID    int
	Date      time.Time
	Slot      schedule.TimeSlot
}

// RescheduleParams carries the new slot of an existing session.
type RescheduleParams struct {
	Date time.Time
	Slot schedule.TimeSlot
}
