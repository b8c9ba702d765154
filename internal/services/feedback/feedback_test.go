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

	"github.com/magabrotheeeer/feedback-board/internal/models"
	services "github.com/magabrotheeeer/feedback-board/internal/services/feedback"
	"github.com/magabrotheeeer/feedback-board/internal/storage"
)

type FeedbackRepoMock struct {
	mock.Mock
}

func (m *FeedbackRepoMock) CreateFeedback(ctx context.Context, fb models.Feedback) (int, error) {
	args := m.Called(ctx, fb)
	return args.Int(0), args.Error(1)
}

func (m *FeedbackRepoMock) GetFeedback(ctx context.Context, id int) (*models.Feedback, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feedback), args.Error(1)
}

func (m *FeedbackRepoMock) ListFeedback(ctx context.Context) ([]*models.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Feedback), args.Error(1)
}

func (m *FeedbackRepoMock) ListFeedbackByUser(ctx context.Context, username string) ([]*models.Feedback, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Feedback), args.Error(1)
}

func (m *FeedbackRepoMock) UpdateFeedback(ctx context.Context, id int, title, content string) error {
	return m.Called(ctx, id, title, content).Error(0)
}

func (m *FeedbackRepoMock) DeleteFeedback(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type eventsStub struct {
	created, updated, deleted int
}

func (e *eventsStub) FeedbackCreated() { e.created++ }
func (e *eventsStub) FeedbackUpdated() { e.updated++ }
func (e *eventsStub) FeedbackDeleted() { e.deleted++ }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_Create(t *testing.T) {
	repo := new(FeedbackRepoMock)
	events := &eventsStub{}
	svc := services.New(repo, events, newNoopLogger())

	repo.On("CreateFeedback", mock.Anything,
		models.Feedback{Title: "T", Content: "C", Username: "alice"}).Return(7, nil).Once()

	fb, err := svc.Create(context.Background(), "T", "C", "alice")

	require.NoError(t, err)
	assert.Equal(t, &models.Feedback{ID: 7, Title: "T", Content: "C", Username: "alice"}, fb)
	assert.Equal(t, 1, events.created)
	repo.AssertExpectations(t)
}

func TestService_Create_Error(t *testing.T) {
	repo := new(FeedbackRepoMock)
	svc := services.New(repo, nil, newNoopLogger())

	repo.On("CreateFeedback", mock.Anything, mock.Anything).Return(0, errors.New("fk violation")).Once()

	fb, err := svc.Create(context.Background(), "T", "C", "ghost")

	assert.Nil(t, fb)
	assert.ErrorContains(t, err, "services.feedback.Create")
}

func TestService_Lists(t *testing.T) {
	repo := new(FeedbackRepoMock)
	svc := services.New(repo, nil, newNoopLogger())

	all := []*models.Feedback{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}}
	repo.On("ListFeedback", mock.Anything).Return(all, nil).Once()
	repo.On("ListFeedbackByUser", mock.Anything, "carol").Return([]*models.Feedback{}, nil).Once()

	got, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, all, got)

	got, err = svc.ListByUser(context.Background(), "carol")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestService_GetUpdateDelete(t *testing.T) {
	repo := new(FeedbackRepoMock)
	events := &eventsStub{}
	svc := services.New(repo, events, newNoopLogger())

	repo.On("GetFeedback", mock.Anything, 42).Return(nil, storage.ErrNotFound).Once()
	repo.On("UpdateFeedback", mock.Anything, 1, "T2", "C2").Return(nil).Once()
	repo.On("UpdateFeedback", mock.Anything, 42, "T2", "C2").Return(storage.ErrNotFound).Once()
	repo.On("DeleteFeedback", mock.Anything, 1).Return(nil).Once()

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, svc.Update(context.Background(), 1, "T2", "C2"))
	assert.ErrorIs(t, svc.Update(context.Background(), 42, "T2", "C2"), storage.ErrNotFound)
	require.NoError(t, svc.Delete(context.Background(), 1))

	assert.Equal(t, 1, events.updated)
	assert.Equal(t, 1, events.deleted)
	repo.AssertExpectations(t)
}
