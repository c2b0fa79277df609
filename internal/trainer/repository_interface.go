package trainer

import (
	"context"

	"gymdesk/internal/schedule"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Trainer, error)
	GetByID(ctx context.Context, id int) (*Trainer, error)
	// WithWindowCovering returns trainers who declared an availability
	// window on the given day fully containing the slot, name order.
	WithWindowCovering(ctx context.Context, day schedule.Weekday, slot schedule.TimeSlot) ([]Trainer, error)
}
