package availability

import (
	"context"

	"gymdesk/internal/metrics"
	"gymdesk/internal/schedule"
)

type Service interface {
	SetAvailability(ctx context.Context, trainerID int, slots []Slot) error
	GetAvailability(ctx context.Context, trainerID int) ([]Slot, error)
	CoveringWindow(ctx context.Context, trainerID int, day schedule.Weekday, slot schedule.TimeSlot) (*Slot, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SetAvailability validates the whole submission and then replaces the
// trainer's schedule atomically. Nothing is written on a validation
// failure.
func (s *service) SetAvailability(ctx context.Context, trainerID int, slots []Slot) error {
	if err := ValidateSlots(slots); err != nil {
		return err
	}
	if err := s.repo.ReplaceForTrainer(ctx, trainerID, slots); err != nil {
		return err
	}
	metrics.RecordAvailabilityUpdate()
	return nil
}

func (s *service) GetAvailability(ctx context.Context, trainerID int) ([]Slot, error) {
	return s.repo.GetForTrainer(ctx, trainerID)
}

// CoveringWindow reports which declared window, if any, fully contains
// the slot on the given day.
func (s *service) CoveringWindow(ctx context.Context, trainerID int, day schedule.Weekday, slot schedule.TimeSlot) (*Slot, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	slots, err := s.repo.GetForTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	return WindowCovering(slots, day, slot), nil
}

// ValidateSlots rejects malformed windows and any pair of windows on
// the same weekday that overlap. The returned error names the
// offending day and pair.
func ValidateSlots(slots []Slot) error {
	for _, slot := range slots {
		if err := slot.TimeSlot().Validate(); err != nil {
			return &ValidationError{Day: slot.Day, First: slot.TimeSlot()}
		}
	}

	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if slots[i].Day != slots[j].Day {
				continue
			}
			if slots[i].TimeSlot().Overlaps(slots[j].TimeSlot()) {
				second := slots[j].TimeSlot()
				return &ValidationError{
					Day:    slots[i].Day,
					First:  slots[i].TimeSlot(),
					Second: &second,
				}
			}
		}
	}

	return nil
}

// WindowCovering returns the declared window that fully contains the
// candidate slot on the given day, or nil. A trainer is bookable only
// inside a declared window.
func WindowCovering(slots []Slot, day schedule.Weekday, candidate schedule.TimeSlot) *Slot {
	for i := range slots {
		if slots[i].Day == day && slots[i].TimeSlot().Contains(candidate) {
			return &slots[i]
		}
	}
	return nil
}
