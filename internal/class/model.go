package class

import (
	"time"

	"gymdesk/internal/schedule"
)

type GroupClass struct {
	ID          int                `db:"id" json:"id"`
	Name        string             `db:"name" json:"name"`
	Description string             `db:"description" json:"description"`
	TrainerID   int                `db:"trainer_id" json:"trainer_id"`
	RoomID      int                `db:"room_id" json:"room_id"`
	Day         schedule.Weekday   `db:"day" json:"day"`
	Start       schedule.TimeOfDay `db:"start_time" json:"start_time"`
	End         schedule.TimeOfDay `db:"end_time" json:"end_time"`
	Capacity    int                `db:"capacity" json:"capacity"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
}

func (c *GroupClass) TimeSlot() schedule.TimeSlot {
	return schedule.TimeSlot{Start: c.Start, End: c.End}
}

type ClassWithDetails struct {
	GroupClass
	TrainerName   string `db:"trainer_name" json:"trainer_name"`
	RoomName      string `db:"room_name" json:"room_name"`
	EnrolledCount int    `db:"enrolled_count" json:"enrolled_count"`
}

type Enrollment struct {
	ClassID   int       `db:"class_id" json:"class_id"`
	MemberID  int       `db:"member_id" json:"member_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ClassRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
	Day         string `json:"day" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	TrainerID   int    `json:"trainer_id" binding:"required"`
	RoomID      int    `json:"room_id" binding:"required"`
}

// ClassParams is the validated write-side shape of a group class.
type ClassParams struct {
	Name        string
	Description string
	TrainerID   int
	RoomID      int
	Day         schedule.Weekday
	Slot        schedule.TimeSlot
	Capacity    int
}
