package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/feedback-board/internal/lib/password"
	"github.com/magabrotheeeer/feedback-board/internal/models"
	services "github.com/magabrotheeeer/feedback-board/internal/services/users"
	"github.com/magabrotheeeer/feedback-board/internal/storage"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) GetUser(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) DeleteUser(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

type eventsStub struct {
	registered, deleted, failed int
}

func (e *eventsStub) UserRegistered() { e.registered++ }
func (e *eventsStub) UserDeleted()    { e.deleted++ }
func (e *eventsStub) LoginFailed()    { e.failed++ }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newService(repo *UserRepoMock) (*services.Service, *eventsStub) {
	events := &eventsStub{}
	return services.New(repo, password.NewHasher(bcrypt.MinCost), events, newNoopLogger()), events
}

func registerForm(username string) models.RegisterForm {
	return models.RegisterForm{
		Username:  username,
		Password:  "secret1",
		Email:     username + "@gmail.com",
		FirstName: username,
		LastName:  "name",
	}
}

func TestService_Register(t *testing.T) {
	repo := new(UserRepoMock)
	svc, events := newService(repo)

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "first" &&
			u.Email == "first@gmail.com" &&
			u.PasswordHash != "secret1" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
	})).Return(nil).Once()

	user, err := svc.Register(context.Background(), registerForm("first"))

	require.NoError(t, err)
	assert.Equal(t, "first", user.Username)
	assert.Equal(t, "first name", user.FullName())
	assert.Equal(t, 1, events.registered)
	repo.AssertExpectations(t)
}

func TestService_Register_Duplicate(t *testing.T) {
	repo := new(UserRepoMock)
	svc, events := newService(repo)

	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(storage.ErrUsernameTaken).Once()

	_, err := svc.Register(context.Background(), registerForm("first"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerForm("first"))
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)
	assert.Equal(t, 1, events.registered)
}

func TestService_Authenticate(t *testing.T) {
	hash, err := password.NewHasher(bcrypt.MinCost).Hash("secret1")
	require.NoError(t, err)
	stored := &models.User{Username: "alice", PasswordHash: hash}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *UserRepoMock)
		wantUser   bool
		wantErr    bool
		wantFailed int
	}{
		{
			name:     "valid credentials",
			username: "alice",
			password: "secret1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, "alice").Return(stored, nil).Once()
			},
			wantUser: true,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, "alice").Return(stored, nil).Once()
			},
			wantFailed: 1,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "wrong",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, "ghost").Return(nil, storage.ErrNotFound).Once()
			},
			wantFailed: 1,
		},
		{
			name:     "storage failure",
			username: "alice",
			password: "secret1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, "alice").Return(nil, errors.New("connection reset")).Once()
			},
			wantErr: true,
		},
		{
			name:     "corrupted hash",
			username: "alice",
			password: "secret1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUser", mock.Anything, "alice").
					Return(&models.User{Username: "alice", PasswordHash: "not-a-hash"}, nil).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			svc, events := newService(repo)

			user, err := svc.Authenticate(context.Background(), tt.username, tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			if tt.wantUser {
				require.NotNil(t, user)
				assert.Equal(t, tt.username, user.Username)
			} else {
				assert.Nil(t, user)
			}
			assert.Equal(t, tt.wantFailed, events.failed)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_GetDelete(t *testing.T) {
	repo := new(UserRepoMock)
	svc, events := newService(repo)

	repo.On("GetUser", mock.Anything, "ghost").Return(nil, storage.ErrNotFound).Once()
	repo.On("DeleteUser", mock.Anything, "alice").Return(nil).Once()
	repo.On("DeleteUser", mock.Anything, "ghost").Return(storage.ErrNotFound).Once()

	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, svc.Delete(context.Background(), "alice"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "ghost"), storage.ErrNotFound)
	assert.Equal(t, 1, events.deleted)
	repo.AssertExpectations(t)
}
