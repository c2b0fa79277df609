package room

import (
	"context"
	"time"

	"gymdesk/internal/conflict"
	"gymdesk/internal/schedule"
)

type Service interface {
	CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, error)
	GetAllRooms(ctx context.Context) ([]Room, error)
	GetRoomByID(ctx context.Context, id int) (*Room, error)
	DeleteRoom(ctx context.Context, id int) error
	FindAvailableRooms(ctx context.Context, date time.Time, slot schedule.TimeSlot, excludeSessionID *int) ([]Room, error)
	CheckRoomFree(ctx context.Context, roomID int, day schedule.Weekday, slot schedule.TimeSlot, excludeClassID *int) (bool, error)
}

type service struct {
	repo     Repository
	resolver *conflict.Resolver
}

func NewService(repo Repository, resolver *conflict.Resolver) Service {
	return &service{repo: repo, resolver: resolver}
}

func (s *service) CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, error) {
	return s.repo.Create(ctx, req.Name)
}

func (s *service) GetAllRooms(ctx context.Context) ([]Room, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetRoomByID(ctx context.Context, id int) (*Room, error) {
	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *service) DeleteRoom(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// FindAvailableRooms lists rooms with no colliding booking on the
// given date, name order. Recurring group classes on that date's
// weekday count as bookings, so a room hosting a class every Monday
// is never offered for a Monday session that overlaps it. The answer
// is advisory; the booking attempt re-validates under lock.
func (s *service) FindAvailableRooms(ctx context.Context, date time.Time, slot schedule.TimeSlot, excludeSessionID *int) ([]Room, error) {
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	rooms, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var exclude *conflict.Ref
	if excludeSessionID != nil {
		exclude = &conflict.Ref{Kind: conflict.KindSession, ID: *excludeSessionID}
	}

	cand := conflict.NewDatedCandidate(date, slot)
	available := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		free, err := s.resolver.RoomFree(ctx, room.ID, cand, exclude)
		if err != nil {
			return nil, err
		}
		if free {
			available = append(available, room)
		}
	}

	return available, nil
}

// CheckRoomFree answers the weekday-recurring variant used when
// placing a group class in a room.
func (s *service) CheckRoomFree(ctx context.Context, roomID int, day schedule.Weekday, slot schedule.TimeSlot, excludeClassID *int) (bool, error) {
	if err := slot.Validate(); err != nil {
		return false, err
	}

	if _, err := s.repo.GetByID(ctx, roomID); err != nil {
		return false, ErrRoomNotFound
	}

	var exclude *conflict.Ref
	if excludeClassID != nil {
		exclude = &conflict.Ref{Kind: conflict.KindClass, ID: *excludeClassID}
	}

	return s.resolver.RoomFree(ctx, roomID, conflict.NewWeeklyCandidate(day, slot), exclude)
}
