package trainer

import (
	"context"

	"gymdesk/internal/conflict"
	"gymdesk/internal/schedule"
)

type Service interface {
	GetAllTrainers(ctx context.Context) ([]Trainer, error)
	GetTrainerByID(ctx context.Context, id int) (*Trainer, error)
	FindAvailableTrainers(ctx context.Context, day schedule.Weekday, slot schedule.TimeSlot, excludeClassID *int) ([]Trainer, error)
}

type service struct {
	repo     Repository
	resolver *conflict.Resolver
}

func NewService(repo Repository, resolver *conflict.Resolver) Service {
	return &service{repo: repo, resolver: resolver}
}

func (s *service) GetAllTrainers(ctx context.Context) ([]Trainer, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetTrainerByID(ctx context.Context, id int) (*Trainer, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrTrainerNotFound
	}
	return t, nil
}

// FindAvailableTrainers lists trainers who both declared a window
// fully containing the slot on that weekday and have no colliding
// class or scheduled session. Name order, ties by id. An empty result
// is not an error.
func (s *service) FindAvailableTrainers(ctx context.Context, day schedule.Weekday, slot schedule.TimeSlot, excludeClassID *int) ([]Trainer, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.repo.WithWindowCovering(ctx, day, slot)
	if err != nil {
		return nil, err
	}

	var exclude *conflict.Ref
	if excludeClassID != nil {
		exclude = &conflict.Ref{Kind: conflict.KindClass, ID: *excludeClassID}
	}

	cand := conflict.NewWeeklyCandidate(day, slot)
	available := make([]Trainer, 0, len(candidates))
	for _, t := range candidates {
		free, err := s.resolver.TrainerFree(ctx, t.ID, cand, exclude)
		if err != nil {
			return nil, err
		}
		if free {
			available = append(available, t)
		}
	}

	return available, nil
}
