package availability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/schedule"
)

type MockAvailabilityRepo struct{ mock.Mock }

func (m *MockAvailabilityRepo) ReplaceForTrainer(ctx context.Context, trainerID int, slots []Slot) error {
	return m.Called(ctx, trainerID, slots).Error(0)
}

func (m *MockAvailabilityRepo) GetForTrainer(ctx context.Context, trainerID int) ([]Slot, error) {
	args := m.Called(ctx, trainerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Slot), args.Error(1)
}

func window(t *testing.T, day schedule.Weekday, start, end string) Slot {
	t.Helper()
	s, err := schedule.ParseTimeOfDay(start)
	require.NoError(t, err)
	e, err := schedule.ParseTimeOfDay(end)
	require.NoError(t, err)
	return Slot{Day: day, Start: s, End: e}
}

func TestValidateSlots(t *testing.T) {
	t.Run("valid set", func(t *testing.T) {
		slots := []Slot{
			window(t, schedule.Monday, "09:00", "12:00"),
			window(t, schedule.Monday, "13:00", "17:00"),
			window(t, schedule.Tuesday, "09:00", "12:00"),
		}
		assert.NoError(t, ValidateSlots(slots))
	})

	t.Run("adjacent windows on same day are legal", func(t *testing.T) {
		slots := []Slot{
			window(t, schedule.Monday, "09:00", "12:00"),
			window(t, schedule.Monday, "12:00", "15:00"),
		}
		assert.NoError(t, ValidateSlots(slots))
	})

	t.Run("reversed window named in error", func(t *testing.T) {
		slots := []Slot{window(t, schedule.Friday, "15:00", "09:00")}

		err := ValidateSlots(slots)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, schedule.Friday, vErr.Day)
		assert.Nil(t, vErr.Second)
	})

	t.Run("overlapping pair named in error", func(t *testing.T) {
		slots := []Slot{
			window(t, schedule.Monday, "09:00", "12:00"),
			window(t, schedule.Tuesday, "09:00", "12:00"),
			window(t, schedule.Monday, "11:00", "14:00"),
		}

		err := ValidateSlots(slots)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, schedule.Monday, vErr.Day)
		assert.Equal(t, "09:00-12:00", vErr.First.String())
		require.NotNil(t, vErr.Second)
		assert.Equal(t, "11:00-14:00", vErr.Second.String())
	})

	t.Run("same windows on different days do not clash", func(t *testing.T) {
		slots := []Slot{
			window(t, schedule.Monday, "09:00", "12:00"),
			window(t, schedule.Tuesday, "09:00", "12:00"),
		}
		assert.NoError(t, ValidateSlots(slots))
	})
}

func TestSetAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("valid set reaches the repository", func(t *testing.T) {
		repo := new(MockAvailabilityRepo)
		slots := []Slot{window(t, schedule.Monday, "09:00", "17:00")}
		repo.On("ReplaceForTrainer", mock.Anything, 3, slots).Return(nil)

		service := NewService(repo)
		require.NoError(t, service.SetAvailability(ctx, 3, slots))
		repo.AssertExpectations(t)
	})

	t.Run("invalid set never touches the repository", func(t *testing.T) {
		repo := new(MockAvailabilityRepo)
		slots := []Slot{
			window(t, schedule.Monday, "09:00", "12:00"),
			window(t, schedule.Monday, "10:00", "13:00"),
		}

		service := NewService(repo)
		err := service.SetAvailability(ctx, 3, slots)

		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
		repo.AssertNotCalled(t, "ReplaceForTrainer", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCoveringWindow(t *testing.T) {
	ctx := context.Background()
	slots := []Slot{window(t, schedule.Monday, "09:00", "12:00")}

	t.Run("covered slot returns the window", func(t *testing.T) {
		repo := new(MockAvailabilityRepo)
		repo.On("GetForTrainer", mock.Anything, 3).Return(slots, nil)

		service := NewService(repo)
		w, err := service.CoveringWindow(ctx, 3, schedule.Monday, mustCandidate(t, "10:00", "11:00"))
		require.NoError(t, err)
		require.NotNil(t, w)
		assert.Equal(t, schedule.Monday, w.Day)
	})

	t.Run("uncovered slot returns nil", func(t *testing.T) {
		repo := new(MockAvailabilityRepo)
		repo.On("GetForTrainer", mock.Anything, 3).Return(slots, nil)

		service := NewService(repo)
		w, err := service.CoveringWindow(ctx, 3, schedule.Tuesday, mustCandidate(t, "10:00", "11:00"))
		require.NoError(t, err)
		assert.Nil(t, w)
	})

	t.Run("reversed slot rejected before the repository", func(t *testing.T) {
		repo := new(MockAvailabilityRepo)

		service := NewService(repo)
		reversed := schedule.TimeSlot{Start: mustCandidate(t, "11:00", "12:00").Start, End: mustCandidate(t, "09:00", "10:00").Start}
		_, err := service.CoveringWindow(ctx, 3, schedule.Monday, reversed)
		assert.ErrorIs(t, err, schedule.ErrSlotReversed)
		repo.AssertNotCalled(t, "GetForTrainer", mock.Anything, mock.Anything)
	})
}

func TestWindowCovering(t *testing.T) {
	slots := []Slot{
		window(t, schedule.Monday, "09:00", "12:00"),
		window(t, schedule.Wednesday, "14:00", "18:00"),
	}

	covered := WindowCovering(slots, schedule.Monday, mustCandidate(t, "10:00", "11:00"))
	require.NotNil(t, covered)
	assert.Equal(t, schedule.Monday, covered.Day)

	// spills past the end of the declared window
	assert.Nil(t, WindowCovering(slots, schedule.Monday, mustCandidate(t, "11:00", "13:00")))

	// wrong day
	assert.Nil(t, WindowCovering(slots, schedule.Tuesday, mustCandidate(t, "10:00", "11:00")))
}

func mustCandidate(t *testing.T, start, end string) schedule.TimeSlot {
	t.Helper()
	s, err := schedule.ParseTimeOfDay(start)
	require.NoError(t, err)
	e, err := schedule.ParseTimeOfDay(end)
	require.NoError(t, err)
	return schedule.TimeSlot{Start: s, End: e}
}
