package remove

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/feedback-board/internal/http/handlers/handlertest"
	"github.com/magabrotheeeer/feedback-board/internal/session"
	"github.com/magabrotheeeer/feedback-board/internal/storage"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Delete(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

var denied = []session.Flash{{Category: session.Danger, Message: "You do not have permission to do this!"}}

func TestRemoveHandler_Denied(t *testing.T) {
	tests := []struct {
		name    string
		current string
	}{
		{name: "anonymous", current: ""},
		{name: "other user", current: "bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			sessions := handlertest.NewSessions()
			h := New(handlertest.NewLogger(), svc, sessions)

			req := handlertest.Form(http.MethodPost, "/users/alice/delete", nil)
			req = handlertest.WithParams(handlertest.AsUser(req, tt.current), "username", "alice")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/home", rec.Header().Get("Location"))
			assert.Equal(t, denied, handlertest.Flashes(t, sessions, rec))
			svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}
}

func TestRemoveHandler_Success(t *testing.T) {
	svc := new(ServiceMock)
	sessions := handlertest.NewSessions()
	h := New(handlertest.NewLogger(), svc, sessions)
	svc.On("Delete", mock.Anything, "alice").Return(nil).Once()

	login := httptest.NewRecorder()
	require.NoError(t, sessions.Login(login, handlertest.Form(http.MethodPost, "/login", nil), "alice"))

	req := handlertest.Follow(login, "/users/alice/delete")
	req.Method = http.MethodPost
	req = handlertest.WithParams(handlertest.AsUser(req, "alice"), "username", "alice")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, "", handlertest.SessionUser(t, sessions, rec))
	assert.Equal(t, []session.Flash{{Category: session.Success, Message: "User deleted successfully."}},
		handlertest.Flashes(t, sessions, rec))
	svc.AssertExpectations(t)
}

func TestRemoveHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: storage.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "storage failure", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			h := New(handlertest.NewLogger(), svc, handlertest.NewSessions())
			svc.On("Delete", mock.Anything, "alice").Return(tt.err).Once()

			req := handlertest.Form(http.MethodPost, "/users/alice/delete", nil)
			req = handlertest.WithParams(handlertest.AsUser(req, "alice"), "username", "alice")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
