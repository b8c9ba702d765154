package login

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/feedback-board/internal/http/handlers/handlertest"
	"github.com/magabrotheeeer/feedback-board/internal/models"
	"github.com/magabrotheeeer/feedback-board/internal/session"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name         string
		form         url.Values
		setupMock    func(m *ServiceMock)
		wantStatus   int
		wantLocation string
		wantSession  string
		wantFlashes  []session.Flash
		wantBody     string
	}{
		{
			name: "valid credentials",
			form: url.Values{"username": {"first"}, "password": {"first"}},
			setupMock: func(m *ServiceMock) {
				m.On("Authenticate", mock.Anything, "first", "first").Return(&models.User{Username: "first"}, nil).Once()
			},
			wantStatus:   http.StatusFound,
			wantLocation: "/users/first",
			wantSession:  "first",
			wantFlashes:  []session.Flash{{Category: session.Primary, Message: "Welcome Back, first!"}},
		},
		{
			name: "invalid credentials",
			form: url.Values{"username": {"first"}, "password": {"wrong"}},
			setupMock: func(m *ServiceMock) {
				m.On("Authenticate", mock.Anything, "first", "wrong").Return(nil, nil).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantBody: `{"status":"Error","error":"form is invalid","data":{"form":"login",` +
				`"values":{"username":"first","password":""},"errors":{"username":["Invalid username/password."]}}}`,
		},
		{
			name:       "missing password",
			form:       url.Values{"username": {"first"}},
			setupMock:  func(_ *ServiceMock) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody: `{"status":"Error","error":"form is invalid","data":{"form":"login",` +
				`"values":{"username":"first","password":""},"errors":{"password":["This field is required."]}}}`,
		},
		{
			name: "storage failure",
			form: url.Values{"username": {"first"}, "password": {"first"}},
			setupMock: func(m *ServiceMock) {
				m.On("Authenticate", mock.Anything, "first", "first").Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)
			sessions := handlertest.NewSessions()
			h := New(handlertest.NewLogger(), svc, sessions)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, handlertest.Form(http.MethodPost, "/login", tt.form))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
				assert.Equal(t, tt.wantSession, handlertest.SessionUser(t, sessions, rec))
				assert.Equal(t, tt.wantFlashes, handlertest.Flashes(t, sessions, rec))
			}
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestLoginHandler_ShowConsumesFlashes(t *testing.T) {
	sessions := handlertest.NewSessions()
	h := New(handlertest.NewLogger(), new(ServiceMock), sessions)

	prev := httptest.NewRecorder()
	req := handlertest.Form(http.MethodGet, "/secret", nil)
	assert.NoError(t, sessions.AddFlash(prev, req, session.Flash{Category: session.Danger, Message: "Please login first!"}))

	rec := httptest.NewRecorder()
	h.Show(rec, handlertest.Follow(prev, "/login"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","data":{"form":"login"},`+
		`"flashes":[{"category":"danger","message":"Please login first!"}]}`, rec.Body.String())
	assert.Empty(t, handlertest.Flashes(t, sessions, rec))
}
