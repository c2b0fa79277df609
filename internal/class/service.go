package class

import (
	"context"
	"errors"

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
)

type Service interface {
	CreateClass(ctx context.Context, req ClassRequest) (*GroupClass, error)
	UpdateClass(ctx context.Context, id int, req ClassRequest) (*GroupClass, error)
	DeleteClass(ctx context.Context, id int) error
	ListClasses(ctx context.Context) ([]ClassWithDetails, error)
	ListClassesForMember(ctx context.Context, memberID int) ([]ClassWithDetails, error)
	Enroll(ctx context.Context, classID, memberID int) (*Enrollment, error)
	Withdraw(ctx context.Context, classID, memberID int) error
}

type service struct {
	repo         Repository
	userRepo     user.Repository
	emailService *email.Service
}

func NewService(repo Repository, userRepo user.Repository, emailService *email.Service) Service {
	return &service{
		repo:         repo,
		userRepo:     userRepo,
		emailService: emailService,
	}
}

func (s *service) params(ctx context.Context, req ClassRequest) (ClassParams, error) {
	day, err := schedule.ParseWeekday(req.Day)
	if err != nil {
		return ClassParams{}, err
	}

	start, err := schedule.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return ClassParams{}, err
	}
	end, err := schedule.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return ClassParams{}, err
	}

	slot := schedule.TimeSlot{Start: start, End: end}
	if err := slot.Validate(); err != nil {
		return ClassParams{}, err
	}

	exists, err := s.userRepo.ExistsWithRole(ctx, req.TrainerID, auth.RoleTrainer)
	if err != nil {
		return ClassParams{}, err
	}
	if !exists {
		return ClassParams{}, ErrTrainerNotFound
	}

	return ClassParams{
		Name:        req.Name,
		Description: req.Description,
		TrainerID:   req.TrainerID,
		RoomID:      req.RoomID,
		Day:         day,
		Slot:        slot,
		Capacity:    req.Capacity,
	}, nil
}

func recordConflict(err error) {
	var ce *conflict.Error
	if errors.As(err, &ce) {
		metrics.RecordBookingConflict(ce.Resource)
	}
}

// conflictCheck validates the trainer and room against every active
// booking while the caller's transaction holds both resource locks.
func conflictCheck(params ClassParams, exclude *conflict.Ref) conflict.Check {
	cand := conflict.NewWeeklyCandidate(params.Day, params.Slot)
	return func(ctx context.Context, db sqlx.ExtContext) error {
		resolver := conflict.NewResolver(conflict.NewStore(db))
		if err := resolver.CheckTrainer(ctx, params.TrainerID, cand, exclude); err != nil {
			return err
		}
		return resolver.CheckRoom(ctx, params.RoomID, cand, exclude)
	}
}

func (s *service) CreateClass(ctx context.Context, req ClassRequest) (*GroupClass, error) {
	params, err := s.params(ctx, req)
	if err != nil {
		return nil, err
	}

	gc, err := s.repo.CreateClass(ctx, params, conflictCheck(params, nil))
	if err != nil {
		recordConflict(err)
		return nil, err
	}

	metrics.RecordClassChange("created")
	return gc, nil
}

func (s *service) UpdateClass(ctx context.Context, id int, req ClassRequest) (*GroupClass, error) {
	if _, err := s.repo.GetClassByID(ctx, id); err != nil {
		return nil, err
	}

	params, err := s.params(ctx, req)
	if err != nil {
		return nil, err
	}

	// The class being edited must not conflict with itself.
	exclude := &conflict.Ref{Kind: conflict.KindClass, ID: id}
	gc, err := s.repo.UpdateClass(ctx, id, params, conflictCheck(params, exclude))
	if err != nil {
		recordConflict(err)
		return nil, err
	}

	metrics.RecordClassChange("updated")
	return gc, nil
}

func (s *service) DeleteClass(ctx context.Context, id int) error {
	if err := s.repo.DeleteClass(ctx, id); err != nil {
		return err
	}
	metrics.RecordClassChange("deleted")
	return nil
}

func (s *service) ListClasses(ctx context.Context) ([]ClassWithDetails, error) {
	return s.repo.GetAllClasses(ctx)
}

func (s *service) ListClassesForMember(ctx context.Context, memberID int) ([]ClassWithDetails, error) {
	return s.repo.GetClassesForMember(ctx, memberID)
}

// Enroll admits the member through the capacity guard. The guard
// decides atomically; this layer only maps outcomes and sends the
// confirmation.
func (s *service) Enroll(ctx context.Context, classID, memberID int) (*Enrollment, error) {
	enrollment, err := s.repo.TryEnroll(ctx, classID, memberID)
	if err != nil {
		switch {
		case errors.Is(err, ErrClassFull):
			metrics.RecordEnrollment("rejected_full")
		case errors.Is(err, ErrAlreadyEnrolled):
			metrics.RecordEnrollment("rejected_duplicate")
		}
		return nil, err
	}

	metrics.RecordEnrollment("enrolled")
	s.sendEnrollmentEmail(ctx, classID, memberID)

	return enrollment, nil
}

func (s *service) Withdraw(ctx context.Context, classID, memberID int) error {
	if err := s.repo.Withdraw(ctx, classID, memberID); err != nil {
		return err
	}

	metrics.RecordEnrollment("withdrawn")
	return nil
}

func (s *service) sendEnrollmentEmail(ctx context.Context, classID, memberID int) {
	if s.emailService == nil {
		return
	}

	member, err := s.userRepo.FindByID(ctx, memberID)
	if err != nil {
		return
	}

	gc, err := s.repo.GetClassByID(ctx, classID)
	if err != nil {
		return
	}

	s.emailService.SendEnrollmentConfirmation(ctx, member.Email, member.Name, gc.Name,
		string(gc.Day)+" "+gc.TimeSlot().String())
}
