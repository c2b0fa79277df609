package session

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/auth"
	"gymdesk/internal/conflict"
	"gymdesk/internal/email"
	"gymdesk/internal/metrics"
	"gymdesk/internal/schedule"
	"gymdesk/internal/user"
)

var (
	ErrTrainerNotFound = errors.New("trainer not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotSessionOwner = errors.New("session belongs to another member")
	ErrSessionInPast   = errors.New("session cannot start in the past")
)

type Service interface {
	BookSession(ctx context.Context, memberID int, req BookSessionRequest) (*TrainingSession, error)
	RescheduleSession(ctx context.Context, id, memberID int, req RescheduleRequest) (*TrainingSession, error)
	CancelSession(ctx context.Context, id, memberID int) error
	ListForMember(ctx context.Context, memberID int) ([]SessionWithDetails, error)
	ListForTrainer(ctx context.Context, trainerID int) ([]SessionWithDetails, error)
}

type service struct {
	repo         Repository
	userRepo     user.Repository
	emailService *email.Service
	now          func() time.Time
}

func NewService(repo Repository, userRepo user.Repository, emailService *email.Service) Service {
	return &service{
		repo:         repo,
		userRepo:     userRepo,
		emailService: emailService,
		now:          time.Now,
	}
}

type slotParams struct {
	date time.Time
	slot schedule.TimeSlot
}

// parseSlot validates the date and times and rejects slots that start
// strictly before now.
func (s *service) parseSlot(dateStr, startStr, endStr string) (slotParams, error) {
	date, err := schedule.ParseDate(dateStr)
	if err != nil {
		return slotParams{}, err
	}

	start, err := schedule.ParseTimeOfDay(startStr)
	if err != nil {
		return slotParams{}, err
	}
	end, err := schedule.ParseTimeOfDay(endStr)
	if err != nil {
		return slotParams{}, err
	}

	slot := schedule.TimeSlot{Start: start, End: end}
	if err := slot.Validate(); err != nil {
		return slotParams{}, err
	}

	if schedule.At(date, start).Before(s.now()) {
		return slotParams{}, ErrSessionInPast
	}

	return slotParams{date: date, slot: slot}, nil
}

func recordConflict(err error) {
	var ce *conflict.Error
	if errors.As(err, &ce) {
		metrics.RecordBookingConflict(ce.Resource)
	}
}

// conflictCheck validates the trainer and room against every active
// booking while the caller's transaction holds both resource locks.
func conflictCheck(trainerID, roomID int, p slotParams, exclude *conflict.Ref) conflict.Check {
	cand := conflict.NewDatedCandidate(p.date, p.slot)
	return func(ctx context.Context, db sqlx.ExtContext) error {
		resolver := conflict.NewResolver(conflict.NewStore(db))
		if err := resolver.CheckTrainer(ctx, trainerID, cand, exclude); err != nil {
			return err
		}
		return resolver.CheckRoom(ctx, roomID, cand, exclude)
	}
}

func (s *service) BookSession(ctx context.Context, memberID int, req BookSessionRequest) (*TrainingSession, error) {
	p, err := s.parseSlot(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsWithRole(ctx, req.TrainerID, auth.RoleTrainer)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTrainerNotFound
	}

	params := SessionParams{
		MemberID:  memberID,
		TrainerID: req.TrainerID,
		RoomID:    req.RoomID,
		Date:      p.date,
		Slot:      p.slot,
	}

	ts, err := s.repo.BookSession(ctx, params, conflictCheck(req.TrainerID, req.RoomID, p, nil))
	if err != nil {
		recordConflict(err)
		return nil, err
	}

	metrics.RecordSession("booked")
	s.sendSessionEmail(ctx, ts, "booked")

	return ts, nil
}

func (s *service) RescheduleSession(ctx context.Context, id, memberID int, req RescheduleRequest) (*TrainingSession, error) {
	existing, err := s.repo.GetSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.MemberID != memberID {
		return nil, ErrNotSessionOwner
	}
	if existing.Status != StatusScheduled {
		return nil, ErrSessionNotScheduled
	}

	p, err := s.parseSlot(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	// The session being moved must not conflict with itself, so
	// rescheduling to its own current slot always succeeds.
	exclude := &conflict.Ref{Kind: conflict.KindSession, ID: id}
	check := conflictCheck(existing.TrainerID, existing.RoomID, p, exclude)

	ts, err := s.repo.RescheduleSession(ctx, id, existing.TrainerID, existing.RoomID, RescheduleParams{Date: p.date, Slot: p.slot}, check)
	if err != nil {
		recordConflict(err)
		return nil, err
	}

	metrics.RecordSession("rescheduled")
	return ts, nil
}

func (s *service) CancelSession(ctx context.Context, id, memberID int) error {
	existing, err := s.repo.GetSessionByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.MemberID != memberID {
		return ErrNotSessionOwner
	}

	if err := s.repo.CancelSession(ctx, id); err != nil {
		return err
	}

	metrics.RecordSession("canceled")
	s.sendSessionEmail(ctx, existing, "canceled")

	return nil
}

func (s *service) ListForMember(ctx context.Context, memberID int) ([]SessionWithDetails, error) {
	return s.repo.ScheduledForMember(ctx, memberID)
}

func (s *service) ListForTrainer(ctx context.Context, trainerID int) ([]SessionWithDetails, error) {
	return s.repo.ScheduledForTrainer(ctx, trainerID)
}

func (s *service) sendSessionEmail(ctx context.Context, ts *TrainingSession, event string) {
	if s.emailService == nil {
		return
	}

	member, err := s.userRepo.FindByID(ctx, ts.MemberID)
	if err != nil {
		return
	}

	when := schedule.FormatDate(ts.Date) + " " + ts.TimeSlot().String()
	switch event {
	case "booked":
		s.emailService.SendSessionConfirmation(ctx, member.Email, member.Name, when)
	case "canceled":
		s.emailService.SendSessionCancellation(ctx, member.Email, member.Name, when)
	}
}
