package session

import (
	"context"

	"gymdesk/internal/conflict"
)

type Repository interface {
	BookSession(ctx context.Context, params SessionParams, check conflict.Check) (*TrainingSession, error)
	RescheduleSession(ctx context.Context, id, trainerID, roomID int, params RescheduleParams, check conflict.Check) (*TrainingSession, error)
	CancelSession(ctx context.Context, id int) error
	GetSessionByID(ctx context.Context, id int) (*TrainingSession, error)
	ScheduledForMember(ctx context.Context, memberID int) ([]SessionWithDetails, error)
	ScheduledForTrainer(ctx context.Context, trainerID int) ([]SessionWithDetails, error)
}
