package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/auth"
)

const testSecret = "test-secret-key-12345"

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) ExistsWithRole(ctx context.Context, id int, role string) (bool, error) {
	args := m.Called(ctx, id, role)
	return args.Bool(0), args.Error(1)
}

func TestRegister(t *testing.T) {
	req := RegisterRequest{
		Name:     "Anna Smith",
		Email:    "anna@example.com",
		Password: "securePassword1",
	}

	t.Run("Successful registration", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("EmailExists", mock.Anything, req.Email).Return(false, nil)
		repo.On("Create", mock.Anything, req.Name, req.Email, mock.AnythingOfType("string"), auth.RoleMember).
			Return(&User{ID: 1, Name: req.Name, Email: req.Email, Role: auth.RoleMember}, nil)

		svc := NewService(repo, testSecret)
		u, access, refresh, err := svc.Register(context.Background(), req, auth.RoleMember)

		require.NoError(t, err)
		assert.Equal(t, 1, u.ID)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)

		// the service must never pass the raw password to the repository
		hashArg := repo.Calls[1].Arguments.String(3)
		assert.NotEqual(t, req.Password, hashArg)
		assert.True(t, auth.CheckPassword(hashArg, req.Password))
		repo.AssertExpectations(t)
	})

	t.Run("Duplicate email", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("EmailExists", mock.Anything, req.Email).Return(true, nil)

		svc := NewService(repo, testSecret)
		_, _, _, err := svc.Register(context.Background(), req, auth.RoleMember)

		assert.ErrorIs(t, err, ErrEmailExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	password := "securePassword1"
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	stored := &User{ID: 2, Name: "Anna Smith", Email: "anna@example.com", PasswordHash: hash, Role: auth.RoleMember}

	t.Run("Successful login", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("FindByEmail", mock.Anything, stored.Email).Return(stored, nil)

		svc := NewService(repo, testSecret)
		u, access, refresh, err := svc.Login(context.Background(), LoginRequest{Email: stored.Email, Password: password})

		require.NoError(t, err)
		assert.Equal(t, stored.ID, u.ID)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
	})

	t.Run("Wrong password", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("FindByEmail", mock.Anything, stored.Email).Return(stored, nil)

		svc := NewService(repo, testSecret)
		_, _, _, err := svc.Login(context.Background(), LoginRequest{Email: stored.Email, Password: "wrong"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, assert.AnError)

		svc := NewService(repo, testSecret)
		_, _, _, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: password})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	stored := &User{ID: 3, Name: "Boris", Email: "boris@example.com", Role: auth.RoleTrainer}

	t.Run("Valid refresh token", func(t *testing.T) {
		refresh, err := auth.GenerateRefreshToken(stored.ID, stored.Email, stored.Role, testSecret)
		require.NoError(t, err)

		repo := new(MockUserRepo)
		repo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

		svc := NewService(repo, testSecret)
		newAccess, u, err := svc.RefreshToken(context.Background(), refresh)

		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.Equal(t, stored.ID, u.ID)
	})

	t.Run("Access token rejected", func(t *testing.T) {
		access, err := auth.GenerateAccessToken(stored.ID, stored.Email, stored.Role, testSecret)
		require.NoError(t, err)

		repo := new(MockUserRepo)
		svc := NewService(repo, testSecret)
		_, _, err = svc.RefreshToken(context.Background(), access)

		assert.ErrorIs(t, err, auth.ErrInvalidTokenType)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("User deleted since token issued", func(t *testing.T) {
		refresh, err := auth.GenerateRefreshToken(99, "gone@example.com", auth.RoleMember, testSecret)
		require.NoError(t, err)

		repo := new(MockUserRepo)
		repo.On("FindByID", mock.Anything, 99).Return(nil, assert.AnError)

		svc := NewService(repo, testSecret)
		_, _, err = svc.RefreshToken(context.Background(), refresh)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("FindByID", mock.Anything, 5).Return(&User{ID: 5, Name: "Carla"}, nil)

		svc := NewService(repo, testSecret)
		u, err := svc.GetByID(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, "Carla", u.Name)
	})

	t.Run("Missing", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("FindByID", mock.Anything, 6).Return(nil, assert.AnError)

		svc := NewService(repo, testSecret)
		_, err := svc.GetByID(context.Background(), 6)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
