package availability

import "context"

type Repository interface {
	ReplaceForTrainer(ctx context.Context, trainerID int, slots []Slot) error
	GetForTrainer(ctx context.Context, trainerID int) ([]Slot, error)
}
